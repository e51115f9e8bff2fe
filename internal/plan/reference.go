// Package plan assembles completed topics into renderable plan rows,
// enriching each with a curricular standard.
package plan

import (
	"log/slog"
	"os"
)

// baseline is used when no reference document is configured or readable.
// Lookup then degrades to the generative tiers, which is not fatal.
const baseline = `ESTÁNDARES MEN BÁSICOS:
MATEMÁTICAS:
- Pensamiento Numérico: Resuelvo y formulo problemas con números naturales
- Pensamiento Algebraico: Utilizo técnicas algebraicas para resolver problemas
- Pensamiento Geométrico: Reconozco propiedades de figuras geométricas

ESPAÑOL:
- Comprensión lectora: Leo diversos tipos de texto
- Producción textual: Produzco textos escritos coherentes

CIENCIAS NATURALES:
- Pensamiento científico: Explico fenómenos del mundo natural`

// LoadReference reads the curricular standards corpus from path, falling
// back to a small embedded baseline when the file is missing.
func LoadReference(path string) string {
	if path == "" {
		slog.Info("no standards path configured, using baseline reference")
		return baseline
	}
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("could not load standards reference, using baseline", "path", path, "error", err)
		return baseline
	}
	slog.Info("standards reference loaded", "path", path, "bytes", len(data))
	return string(data)
}
