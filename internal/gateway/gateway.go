// Package gateway wraps the Gemini API behind a small completion interface.
package gateway

import (
	"context"
)

// Completer is the language-model boundary used for classification,
// extraction, standard lookup and general-query answering. Callers must
// treat both errors and unparseable text as expected outcomes.
type Completer interface {
	// Complete submits a prompt and returns the model's text response.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Transcriber converts a voice note into text.
type Transcriber interface {
	// Transcribe returns the spoken text of an audio attachment.
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}
