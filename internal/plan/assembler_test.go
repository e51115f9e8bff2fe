package plan

import (
	"context"
	"strings"
	"testing"

	"github.com/proferick/planeador/internal/domain"
)

func TestBuildOneRowPerTopic(t *testing.T) {
	gw := &fakeGateway{responses: []string{
		`{"estandar": "Estándar A", "tipo_pensamiento": "numérico", "encontrado_en_men": true}`,
		`{"estandar": "Estándar B", "tipo_pensamiento": "espacial", "encontrado_en_men": true}`,
	}}
	a := NewAssembler(NewLookup(gw, "corpus"))

	data := domain.PlanData{
		Subject: "Matemáticas",
		Grade:   "8-1",
		Year:    2026,
		Topics: []domain.CompletedTopic{
			{Topic: "productos notables", Period: 3, DateRange: "7 de mayo - 30 de junio"},
			{Topic: "geometría", Period: 4, DateRange: "1 de agosto - 30 de septiembre"},
		},
	}

	rows := a.Build(context.Background(), data)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Subject != "Matemáticas" || first.Grade != "8-1" || first.Year != 2026 {
		t.Errorf("Shared fields not propagated: %+v", first)
	}
	if first.Topic != "productos notables" || first.Period != 3 {
		t.Errorf("Topic fields not propagated: %+v", first)
	}
	if first.Standard != "Estándar A" || rows[1].Standard != "Estándar B" {
		t.Errorf("Standards not matched to topics: %q, %q", first.Standard, rows[1].Standard)
	}
}

func TestBuildFillsBoilerplate(t *testing.T) {
	gw := &fakeGateway{responses: []string{
		`{"estandar": "E", "tipo_pensamiento": "T", "encontrado_en_men": true}`,
	}}
	a := NewAssembler(NewLookup(gw, ""))

	rows := a.Build(context.Background(), domain.PlanData{
		Subject: "Español",
		Grade:   "6-1",
		Year:    2026,
		Topics:  []domain.CompletedTopic{{Topic: "verbos", Period: 1, DateRange: "febrero - marzo"}},
	})

	row := rows[0]
	for name, field := range map[string]string{
		"Strategies": row.Strategies,
		"Resources":  row.Resources,
		"Evaluation": row.Evaluation,
	} {
		if field == "" {
			t.Errorf("%s is empty", name)
		}
		if !strings.HasPrefix(field, "• ") {
			t.Errorf("%s is not bulleted: %q", name, field)
		}
	}
}

func TestBuildNoTopics(t *testing.T) {
	a := NewAssembler(NewLookup(&fakeGateway{}, ""))

	rows := a.Build(context.Background(), domain.PlanData{Subject: "Español", Grade: "6-1"})
	if len(rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(rows))
	}
}
