// Package extract pulls structured plan fields out of free-form messages.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/proferick/planeador/internal/domain"
	"github.com/proferick/planeador/internal/gateway"
)

const promptTemplate = `Eres un asistente que extrae información educativa de mensajes.

DATOS ACTUALES:
- Asignatura: %s
- Grado: %s
- Temas anteriores: %d

TEMA ACTUAL EN CONSTRUCCIÓN:
- Tema: %s
- Período: %s
- Fechas: %s

MENSAJE DEL USUARIO: "%s"

EXTRAE Y FORMATEA la información disponible en el mensaje. Responde ÚNICAMENTE con un JSON válido con esta estructura:

{
    "asignatura": "nombre de la asignatura si está presente (ej: Matemáticas, Español, Ciencias Naturales) o null",
    "grado": "grado en formato X-Y (ej: 8-1, 6-1, 7-1) o null",
    "tema": "nombre del tema específico o null",
    "periodo": "número del período (1, 2, 3, 4) o null",
    "fechas": "fechas en formato 'dia de mes - dia de mes' (ej: '7 de mayo - 30 de junio') o null"
}

REGLAS IMPORTANTES:
1. Solo extrae información que esté EXPLÍCITAMENTE presente
2. Si no hay información de un campo, usa null
3. Para grado: convierte texto a formato X-1 (ej: "octavo" → "8-1", "grado 6" → "6-1")
4. Para fechas: normaliza a formato estándar (ej: "siete de mayo al 30 de junio" → "7 de mayo - 30 de junio")
5. Para período: convierte texto a número (ej: "tercer periodo" → 3)
6. NO inventes información que no esté en el mensaje
7. Responde SOLO el JSON, sin explicaciones adicionales`

// Extractor extracts field updates from a message via the language model.
type Extractor struct {
	gw gateway.Completer
}

// NewExtractor creates an Extractor using the given gateway.
func NewExtractor(gw gateway.Completer) *Extractor {
	return &Extractor{gw: gw}
}

// wire mirrors the JSON object the model is instructed to return. Periodo
// is decoded loosely because models alternate between "3" and 3.
type wire struct {
	Asignatura *string `json:"asignatura"`
	Grado      *string `json:"grado"`
	Tema       *string `json:"tema"`
	Periodo    any     `json:"periodo"`
	Fechas     *string `json:"fechas"`
}

// Extract returns the field updates present in the message. On gateway or
// parse failure it returns an error and no partial result; the caller must
// not touch session state in that case.
func (e *Extractor) Extract(ctx context.Context, message string, s *domain.Session) (domain.Extraction, error) {
	raw, err := e.gw.Complete(ctx, buildPrompt(message, s))
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("extraction call: %w", err)
	}

	var w wire
	if err := json.Unmarshal([]byte(StripFences(raw)), &w); err != nil {
		return domain.Extraction{}, fmt.Errorf("parse extraction output: %w", err)
	}

	result := domain.Extraction{
		Subject:   cleanString(w.Asignatura),
		Grade:     normalizeGrade(w.Grado),
		Topic:     cleanString(w.Tema),
		Period:    normalizePeriod(w.Periodo),
		DateRange: normalizeDateRange(w.Fechas),
	}
	slog.Info("fields extracted",
		"user_id", s.UserID,
		"subject", w.Asignatura != nil,
		"grade", w.Grado != nil,
		"topic", w.Tema != nil,
		"period", result.Period != nil,
		"dates", w.Fechas != nil)
	return result, nil
}

func buildPrompt(message string, s *domain.Session) string {
	period := "No definido"
	if s.Draft.Period != 0 {
		period = fmt.Sprintf("%d", s.Draft.Period)
	}
	return fmt.Sprintf(promptTemplate,
		orUndefined(s.Data.Subject),
		orUndefined(s.Data.Grade),
		len(s.Data.Topics),
		orUndefined(s.Draft.Topic),
		period,
		orUndefined(s.Draft.DateRange),
		message)
}

func orUndefined(v string) string {
	if v == "" {
		return "No definido"
	}
	return v
}

// StripFences removes enclosing markdown code-fence markers from model
// output so the remainder can be decoded as JSON.
func StripFences(raw string) string {
	out := strings.TrimSpace(raw)
	if strings.HasPrefix(out, "```json") {
		out = out[len("```json"):]
	} else if strings.HasPrefix(out, "```") {
		out = out[len("```"):]
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}

func cleanString(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}
	return &s
}

// normalizeGrade canonicalizes grades to "<number>-<section>", defaulting
// the section to 1 when the message gave only the grade number. Values the
// model failed to convert to digits are rejected to null.
func normalizeGrade(v *string) *string {
	s := cleanString(v)
	if s == nil {
		return nil
	}
	digits := leadingDigits(*s)
	if digits == "" {
		return nil
	}
	rest := strings.TrimSpace(strings.TrimPrefix(*s, digits))
	if strings.HasPrefix(rest, "-") {
		section := leadingDigits(strings.TrimSpace(rest[1:]))
		if section != "" {
			g := digits + "-" + section
			return &g
		}
	}
	g := digits + "-1"
	return &g
}

// normalizePeriod accepts a number or numeric string and rejects anything
// outside 1-4.
func normalizePeriod(v any) *int {
	var n int
	switch p := v.(type) {
	case nil:
		return nil
	case float64:
		n = int(p)
	case string:
		digits := leadingDigits(strings.TrimSpace(p))
		if digits == "" {
			return nil
		}
		for _, r := range digits {
			n = n*10 + int(r-'0')
		}
	default:
		return nil
	}
	if n < 1 || n > 4 {
		return nil
	}
	return &n
}

// normalizeDateRange unifies dash variants and spacing in a date range.
func normalizeDateRange(v *string) *string {
	s := cleanString(v)
	if s == nil {
		return nil
	}
	out := strings.NewReplacer("–", "-", "—", "-").Replace(*s)
	if idx := strings.Index(out, "-"); idx >= 0 {
		left := strings.TrimSpace(out[:idx])
		right := strings.TrimSpace(out[idx+1:])
		out = left + " - " + right
	}
	out = strings.Join(strings.Fields(out), " ")
	return &out
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}
