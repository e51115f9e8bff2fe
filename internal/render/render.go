// Package render generates the plan report and spreadsheet files.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Columns in their fixed output order, shared by both formats.
var columns = []string{
	"Asignatura", "Grado", "Periodo", "Tema", "Estándar", "TipoPensamiento",
	"Fechas", "EstrategiasPedagogicas", "Recursos", "Evaluacion", "Año",
}

// Generator renders plans into an output directory. Output paths are
// namespaced with the user id and a timestamp to avoid collisions.
type Generator struct {
	dir string
	now func() time.Time
}

// NewGenerator creates a Generator writing into dir.
func NewGenerator(dir string) (*Generator, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Generator{dir: dir, now: time.Now}, nil
}

func (g *Generator) path(userID int64, ext string) string {
	name := fmt.Sprintf("plan_aula_%d_%s.%s", userID, g.now().Format("20060102_150405"), ext)
	return filepath.Join(g.dir, name)
}
