package render

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/proferick/planeador/internal/domain"
)

const (
	lineHeight = 4.0
	cellPad    = 1.0
	pageBottom = 190.0
)

// Report column widths in mm; fits the usable width of landscape A4 with
// 10mm margins.
var reportWidths = []float64{20, 15, 15, 25, 40, 20, 25, 39, 39, 39}

var reportHeaders = []string{
	"Asignatura", "Grado", "Periodo", "Tema", "Estándar",
	"Tipo Pensamiento", "Fechas", "Estrategias", "Recursos", "Evaluación",
}

// Report writes the plan rows to a landscape PDF table and returns its path.
func (g *Generator) Report(rows []domain.PlanRow, userID int64) (string, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 10)
	pdf.AddPage()

	writeHeading(pdf, tr)
	writeHeaderRow(pdf, tr)

	for _, row := range rows {
		cells := []string{
			row.Subject, row.Grade, strconv.Itoa(row.Period), row.Topic,
			row.Standard, row.ThinkingType, row.DateRange,
			row.Strategies, row.Resources, row.Evaluation,
		}
		writeTableRow(pdf, tr, cells)
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 8)
	footer := fmt.Sprintf("Generado por el asistente de planes de aula - %s", g.now().Format("2006-01-02 15:04:05"))
	pdf.CellFormat(0, 5, tr(footer), "", 1, "C", false, 0, "")

	path := g.path(userID, "pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func writeHeading(pdf *fpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Helvetica", "B", 12)
	lines := []string{
		"INSTITUCIÓN EDUCATIVA COLEGIO GILBERTO CLARO LOZANO",
		"\"Querer es Poder\"",
		"PLANEADOR DE CLASES " + strconv.Itoa(time.Now().Year()),
	}
	for _, line := range lines {
		pdf.CellFormat(0, 6, tr(line), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)
}

func writeHeaderRow(pdf *fpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetFillColor(220, 220, 220)
	for i, header := range reportHeaders {
		pdf.CellFormat(reportWidths[i], 8, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

// writeTableRow draws one row with per-cell text wrapping; the row height
// follows the tallest wrapped cell. Cells are translated once, then split
// with SplitLines, which operates on the already-encoded bytes.
func writeTableRow(pdf *fpdf.Fpdf, tr func(string) string, cells []string) {
	pdf.SetFont("Helvetica", "", 6)

	wrapped := make([][]string, len(cells))
	height := lineHeight + 2*cellPad
	for i, cell := range cells {
		lines := pdf.SplitLines([]byte(tr(cell)), reportWidths[i]-2*cellPad)
		wrapped[i] = make([]string, len(lines))
		for j, line := range lines {
			wrapped[i][j] = string(line)
		}
		if h := float64(len(wrapped[i]))*lineHeight + 2*cellPad; h > height {
			height = h
		}
	}

	if pdf.GetY()+height > pageBottom {
		pdf.AddPage()
		writeHeaderRow(pdf, tr)
		pdf.SetFont("Helvetica", "", 6)
	}

	x, y := pdf.GetXY()
	for i, lines := range wrapped {
		pdf.Rect(x, y, reportWidths[i], height, "D")
		pdf.SetXY(x+cellPad, y+cellPad)
		for _, line := range lines {
			pdf.CellFormat(reportWidths[i]-2*cellPad, lineHeight, line, "", 2, "L", false, 0, "")
		}
		x += reportWidths[i]
		pdf.SetXY(x, y)
	}
	pdf.SetXY(10, y+height)
}
