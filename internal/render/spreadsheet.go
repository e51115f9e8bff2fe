package render

import (
	"fmt"

	"github.com/proferick/planeador/internal/domain"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Plan de Aula"

// Spreadsheet writes the plan rows to an xlsx file and returns its path.
func (g *Generator) Spreadsheet(rows []domain.PlanRow, userID int64) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}

	widths := make([]int, len(columns))
	for i, header := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return "", fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return "", fmt.Errorf("write header: %w", err)
		}
		widths[i] = len(header)
	}

	for r, row := range rows {
		values := []any{
			row.Subject, row.Grade, row.Period, row.Topic, row.Standard,
			row.ThinkingType, row.DateRange, row.Strategies, row.Resources,
			row.Evaluation, row.Year,
		}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return "", fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return "", fmt.Errorf("write cell %s: %w", cell, err)
			}
			if n := len(fmt.Sprintf("%v", v)); n > widths[c] {
				widths[c] = n
			}
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return "", fmt.Errorf("column name: %w", err)
		}
		adjusted := float64(width + 5)
		if adjusted > 60 {
			adjusted = 60
		}
		if err := f.SetColWidth(sheetName, col, col, adjusted); err != nil {
			return "", fmt.Errorf("set column width: %w", err)
		}
	}

	path := g.path(userID, "xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save spreadsheet: %w", err)
	}
	return path, nil
}
