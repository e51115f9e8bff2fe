package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/proferick/planeador/internal/gateway"
)

// referencePrefixLimit bounds how much of the reference corpus is injected
// into the tier-1 prompt; the full document can be very large.
const referencePrefixLimit = 4000

const tierOnePrompt = `Analiza cuidadosamente los siguientes estándares del Ministerio de Educación de Colombia y encuentra el estándar y tipo de pensamiento más apropiado para:

TEMA: %s
ASIGNATURA: %s
GRADO: %s

ESTÁNDARES DEL MEN:
%s

Busca coincidencias por tema específico, asignatura y grado correspondiente.

Responde ÚNICAMENTE con JSON válido:
{"estandar": "estándar encontrado", "tipo_pensamiento": "tipo", "encontrado_en_men": true}

Si NO encuentras nada específico, responde:
{"estandar": null, "tipo_pensamiento": null, "encontrado_en_men": false}`

const tierTwoPrompt = `Basándote en los estándares curriculares del Ministerio de Educación de Colombia, proporciona el estándar y tipo de pensamiento más apropiado para:

TEMA: %s
ASIGNATURA: %s
GRADO: %s

Responde ÚNICAMENTE con el siguiente formato JSON válido (sin explicaciones adicionales):

{"estandar": "texto del estándar curricular", "tipo_pensamiento": "tipo de pensamiento"}`

// StandardInfo is the looked-up curricular standard for one topic.
type StandardInfo struct {
	Standard     string
	ThinkingType string
}

// Lookup resolves curricular standards through a cascading strategy:
// reference corpus first, generative lookup second, deterministic template
// last. It never fails; availability is guaranteed, correctness best-effort.
type Lookup struct {
	gw        gateway.Completer
	reference string
}

// NewLookup creates a Lookup over the given reference corpus.
func NewLookup(gw gateway.Completer, reference string) *Lookup {
	return &Lookup{gw: gw, reference: reference}
}

type standardResponse struct {
	Estandar        *string `json:"estandar"`
	TipoPensamiento *string `json:"tipo_pensamiento"`
	EncontradoEnMEN bool    `json:"encontrado_en_men"`
}

// Find returns the best available standard for a topic.
func (l *Lookup) Find(ctx context.Context, topic, subject, grade string) StandardInfo {
	if info, ok := l.findInReference(ctx, topic, subject, grade); ok {
		return info
	}
	if info, ok := l.findGenerative(ctx, topic, subject, grade); ok {
		return info
	}
	return StandardInfo{
		Standard:     fmt.Sprintf("Estándar curricular de %s para %s en %s - Pendiente de verificación institucional", subject, topic, grade),
		ThinkingType: "general",
	}
}

func (l *Lookup) findInReference(ctx context.Context, topic, subject, grade string) (StandardInfo, bool) {
	reference := l.reference
	if len(reference) > referencePrefixLimit {
		cut := referencePrefixLimit
		// Back off to a rune boundary so the prompt stays valid UTF-8.
		for cut > 0 && !utf8.RuneStart(reference[cut]) {
			cut--
		}
		reference = reference[:cut]
	}

	raw, err := l.gw.Complete(ctx, fmt.Sprintf(tierOnePrompt, topic, subject, grade, reference))
	if err != nil {
		slog.Warn("reference standard lookup failed", "topic", topic, "error", err)
		return StandardInfo{}, false
	}

	var resp standardResponse
	if err := decodeLoose(raw, &resp); err != nil {
		slog.Warn("reference standard lookup returned malformed output", "topic", topic, "error", err)
		return StandardInfo{}, false
	}
	if !resp.EncontradoEnMEN || resp.Estandar == nil || strings.TrimSpace(*resp.Estandar) == "" {
		return StandardInfo{}, false
	}

	slog.Info("standard found in reference corpus", "topic", topic)
	return StandardInfo{
		Standard:     strings.TrimSpace(*resp.Estandar),
		ThinkingType: thinkingOrGeneral(resp.TipoPensamiento),
	}, true
}

func (l *Lookup) findGenerative(ctx context.Context, topic, subject, grade string) (StandardInfo, bool) {
	raw, err := l.gw.Complete(ctx, fmt.Sprintf(tierTwoPrompt, topic, subject, grade))
	if err != nil {
		slog.Warn("generative standard lookup failed", "topic", topic, "error", err)
		return StandardInfo{}, false
	}

	var resp standardResponse
	if err := decodeLoose(raw, &resp); err != nil {
		slog.Warn("generative standard lookup returned malformed output", "topic", topic, "error", err)
		return StandardInfo{}, false
	}
	if resp.Estandar == nil || strings.TrimSpace(*resp.Estandar) == "" {
		return StandardInfo{}, false
	}

	slog.Info("standard produced generatively", "topic", topic)
	return StandardInfo{
		Standard:     strings.TrimSpace(*resp.Estandar),
		ThinkingType: thinkingOrGeneral(resp.TipoPensamiento),
	}, true
}

func thinkingOrGeneral(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return "general"
	}
	return strings.TrimSpace(*v)
}

// decodeLoose decodes model output as JSON, tolerating code fences and
// surrounding prose by falling back to the outermost brace pair.
func decodeLoose(raw string, v any) error {
	out := strings.TrimSpace(raw)
	if strings.HasPrefix(out, "```json") {
		out = out[len("```json"):]
	} else if strings.HasPrefix(out, "```") {
		out = out[len("```"):]
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	out = strings.TrimSpace(out)

	if err := json.Unmarshal([]byte(out), v); err == nil {
		return nil
	}

	start := strings.Index(out, "{")
	end := strings.LastIndex(out, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in model output")
	}
	if err := json.Unmarshal([]byte(out[start:end+1]), v); err != nil {
		return fmt.Errorf("decode embedded JSON object: %w", err)
	}
	return nil
}
