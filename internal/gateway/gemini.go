package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for all completions.
const DefaultModel = "gemini-2.0-flash"

const transcriptionPrompt = `Transcribe el siguiente audio en español.
Devuelve SOLO el texto transcrito, sin explicaciones adicionales.
Si el audio contiene información sobre planes de aula (asignatura, grado, tema, período, fechas), transcríbelo exactamente como se dice.`

// Gemini implements Completer and Transcriber against the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini gateway with the given API key.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// Complete submits a text prompt and returns the first candidate's text.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return firstText(resp)
}

// Transcribe sends the audio bytes inline and returns the spoken text.
func (g *Gemini) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("empty audio attachment")
	}
	if mimeType == "" {
		mimeType = "audio/ogg"
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{
			{Text: transcriptionPrompt},
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: audio}},
		},
	}}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}
	text, err := firstText(resp)
	if err != nil {
		return "", err
	}
	slog.Info("audio transcribed", "chars", len(text))
	return text, nil
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 ||
		resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty model response")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("model response has no text parts")
	}
	return text, nil
}
