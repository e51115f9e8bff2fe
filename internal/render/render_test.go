package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/proferick/planeador/internal/domain"
	"github.com/xuri/excelize/v2"
)

func testRows() []domain.PlanRow {
	return []domain.PlanRow{
		{
			Subject:      "Matemáticas",
			Grade:        "8-1",
			Period:       3,
			Topic:        "productos notables",
			Standard:     "Construyo expresiones algebraicas equivalentes a una expresión algebraica dada.",
			ThinkingType: "variacional",
			DateRange:    "7 de mayo - 30 de junio",
			Strategies:   "• Exploración de presaberes.\n• Dinámicas en clases.",
			Resources:    "• Guías de clase.",
			Evaluation:   "• Evaluaciones cortas semanales.",
			Year:         2026,
		},
		{
			Subject:      "Matemáticas",
			Grade:        "8-1",
			Period:       4,
			Topic:        "geometría",
			Standard:     "Estándar curricular de Matemáticas para geometría en 8-1 - Pendiente de verificación institucional",
			ThinkingType: "general",
			DateRange:    "1 de agosto - 30 de septiembre",
			Strategies:   "• Modelación y ejemplificación.",
			Resources:    "• Plan de área.",
			Evaluation:   "• Proyectos de aplicación práctica.",
			Year:         2026,
		},
	}
}

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := NewGenerator(t.TempDir())
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	g.now = func() time.Time {
		return time.Date(2026, 5, 7, 10, 30, 0, 0, time.UTC)
	}
	return g
}

func TestPathNamespacing(t *testing.T) {
	g := newTestGenerator(t)

	path := g.path(42, "pdf")
	if got := filepath.Base(path); got != "plan_aula_42_20260507_103000.pdf" {
		t.Errorf("Unexpected file name: %q", got)
	}
}

func TestSpreadsheet(t *testing.T) {
	g := newTestGenerator(t)

	path, err := g.Spreadsheet(testRows(), 42)
	if err != nil {
		t.Fatalf("Spreadsheet failed: %v", err)
	}
	if !strings.HasSuffix(path, ".xlsx") {
		t.Errorf("Expected xlsx path, got %q", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Open generated spreadsheet: %v", err)
	}
	defer f.Close()

	cells, err := f.GetRows("Plan de Aula")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(cells) != 3 {
		t.Fatalf("Expected header plus 2 data rows, got %d", len(cells))
	}
	if cells[0][0] != "Asignatura" || cells[0][len(columns)-1] != "Año" {
		t.Errorf("Unexpected header row: %v", cells[0])
	}
	if cells[1][3] != "productos notables" || cells[2][3] != "geometría" {
		t.Errorf("Unexpected topic cells: %v, %v", cells[1], cells[2])
	}
}

func TestReport(t *testing.T) {
	g := newTestGenerator(t)

	path, err := g.Report(testRows(), 42)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if !strings.HasSuffix(path, ".pdf") {
		t.Errorf("Expected pdf path, got %q", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat generated report: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Generated report is empty")
	}

	head := make([]byte, 5)
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open generated report: %v", err)
	}
	defer file.Close()
	if _, err := file.Read(head); err != nil {
		t.Fatalf("Read report header: %v", err)
	}
	if string(head) != "%PDF-" {
		t.Errorf("Report does not start with a PDF header: %q", head)
	}
}

func TestReportWrapsAccentedText(t *testing.T) {
	g := newTestGenerator(t)

	row := testRows()[0]
	row.Standard = strings.Repeat("Reconozco el significado de los números en diferentes contextos de medición, conteo y comparación. ", 5)
	row.Strategies = "• Exploración de presaberes.\n• Modelación y ejemplificación.\n• Resolución de situaciones contextuales en matemáticas y geometría."
	row.Topic = "ecuaciones lineales con coeficientes racionales y representación gráfica"

	path, err := g.Report([]domain.PlanRow{row}, 9)
	if err != nil {
		t.Fatalf("Report failed on wrapped accented input: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Stat generated report: %v", err)
	}
}

func TestReportManyRowsPaginates(t *testing.T) {
	g := newTestGenerator(t)

	rows := make([]domain.PlanRow, 0, 12)
	for i := 0; i < 12; i++ {
		row := testRows()[0]
		row.Period = i%4 + 1
		rows = append(rows, row)
	}

	if _, err := g.Report(rows, 7); err != nil {
		t.Fatalf("Report failed on multi-page input: %v", err)
	}
}
