// Package intent classifies inbound messages into conversation intents.
package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/proferick/planeador/internal/domain"
	"github.com/proferick/planeador/internal/gateway"
)

const promptTemplate = `Clasifica la intención del siguiente mensaje del usuario en UNA de estas categorías:

1. "greeting_new" - Si es un saludo o dice que quiere crear un NUEVO plan de aula
2. "provide_info" - Si está proporcionando información para un plan de aula (asignatura, grado, tema, período, fechas)
3. "continue_or_finish" - Si dice sí/no para continuar con el planeador
4. "general_query" - Si hace una pregunta general no relacionada con planes de aula

MENSAJE: "%s"

Responde SOLO con una de las 4 etiquetas: greeting_new, provide_info, continue_or_finish, general_query`

// Classifier labels messages by delegating to the language model.
type Classifier struct {
	gw gateway.Completer
}

// NewClassifier creates a Classifier using the given gateway.
func NewClassifier(gw gateway.Completer) *Classifier {
	return &Classifier{gw: gw}
}

// Classify returns the intent for a message. On gateway failure or an
// out-of-vocabulary answer it returns IntentProvideInfo so the collection
// loop always makes forward progress; it never returns an error.
func (c *Classifier) Classify(ctx context.Context, message string) domain.Intent {
	raw, err := c.gw.Complete(ctx, fmt.Sprintf(promptTemplate, message))
	if err != nil {
		slog.Warn("intent classification failed, defaulting", "error", err)
		return domain.IntentProvideInfo
	}

	label := domain.Intent(strings.ToLower(strings.TrimSpace(raw)))
	if !label.Valid() {
		slog.Warn("intent classifier returned unknown label, defaulting", "label", string(label))
		return domain.IntentProvideInfo
	}
	return label
}
