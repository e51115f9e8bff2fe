package plan

import (
	"context"
	"strings"

	"github.com/proferick/planeador/internal/domain"
)

var strategies = []string{
	"Exploración de presaberes.",
	"Dinámicas en clases.",
	"Aplicación de las guías de clase.",
	"Modelación y ejemplificación.",
	"Resolución de situaciones contextuales.",
}

var resources = []string{
	"Guías de clase.",
	`Texto guía "caminos del saber" y "Aulas sin frontera".`,
	"Plan de área.",
	"Estándares de competencias del MEN.",
	"proferick.com (página con IA).",
	"Equipamiento de aula (tablero, marcadores, calculadoras).",
}

var evaluation = []string{
	"Trabajo individual y desarrollo de la guía de clase.",
	"Evaluaciones cortas semanales.",
	"Evaluaciones finales de periodo.",
	"Actividades en clase participativas.",
	"Proyectos de aplicación práctica.",
}

// Assembler turns accumulated plan data into renderable rows.
type Assembler struct {
	lookup *Lookup
}

// NewAssembler creates an Assembler using the given standard lookup.
func NewAssembler(lookup *Lookup) *Assembler {
	return &Assembler{lookup: lookup}
}

// Build produces one PlanRow per committed topic, each enriched with a
// looked-up standard and the fixed pedagogical boilerplate.
func (a *Assembler) Build(ctx context.Context, data domain.PlanData) []domain.PlanRow {
	rows := make([]domain.PlanRow, 0, len(data.Topics))
	for _, topic := range data.Topics {
		info := a.lookup.Find(ctx, topic.Topic, data.Subject, data.Grade)
		rows = append(rows, domain.PlanRow{
			Subject:      data.Subject,
			Grade:        data.Grade,
			Period:       topic.Period,
			Topic:        topic.Topic,
			Standard:     info.Standard,
			ThinkingType: info.ThinkingType,
			DateRange:    topic.DateRange,
			Strategies:   bullets(strategies),
			Resources:    bullets(resources),
			Evaluation:   bullets(evaluation),
			Year:         data.Year,
		})
	}
	return rows
}

func bullets(items []string) string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = "• " + item
	}
	return strings.Join(out, "\n")
}
