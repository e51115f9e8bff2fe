package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/proferick/planeador/internal/domain"
	"github.com/proferick/planeador/internal/gateway"
	"github.com/proferick/planeador/internal/telegram"
)

// processTimeout bounds one message's full pipeline, including all gateway
// calls and rendering.
const processTimeout = 3 * time.Minute

const msgProcessError = "⚠️ Ocurrió un error interno. Por favor, intenta de nuevo."

// MessageHandler is the conversation engine boundary.
type MessageHandler interface {
	Handle(ctx context.Context, userID int64, text string) domain.Reply
}

// Update is the subset of a Telegram webhook payload this service reads.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message carries the inbound text or voice note.
type Message struct {
	From  *User  `json:"from,omitempty"`
	Chat  Chat   `json:"chat"`
	Text  string `json:"text,omitempty"`
	Voice *Voice `json:"voice,omitempty"`
}

// User identifies the sender.
type User struct {
	ID int64 `json:"id"`
}

// Chat identifies the conversation.
type Chat struct {
	ID int64 `json:"id"`
}

// Voice references a voice note by file id.
type Voice struct {
	FileID   string `json:"file_id"`
	MimeType string `json:"mime_type,omitempty"`
}

// secretHeader is set by Telegram on webhook deliveries when the webhook
// was registered with a secret token.
const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookHandler receives Telegram updates and dispatches them to the
// engine. The HTTP response returns immediately; processing happens in a
// goroutine so a slow model call never blocks webhook delivery.
type WebhookHandler struct {
	engine      MessageHandler
	sender      telegram.Sender
	voice       telegram.VoiceDownloader
	transcriber gateway.Transcriber
	secret      string
}

// Option configures a WebhookHandler.
type Option func(*WebhookHandler)

// WithSecret enables secret-token verification on webhook deliveries.
func WithSecret(secret string) Option {
	return func(h *WebhookHandler) { h.secret = secret }
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(engine MessageHandler, sender telegram.Sender, voice telegram.VoiceDownloader, transcriber gateway.Transcriber, opts ...Option) *WebhookHandler {
	h := &WebhookHandler{
		engine:      engine,
		sender:      sender,
		voice:       voice,
		transcriber: transcriber,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts webhook and informational routes.
func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Post("/webhook", h.Webhook)
	r.Get("/", h.Home)
	r.Get("/health", h.Health)
}

// Webhook handles POST /webhook.
func (h *WebhookHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" && r.Header.Get(secretHeader) != h.secret {
		Error(w, http.StatusUnauthorized, "invalid webhook secret")
		return
	}

	var update Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		Error(w, http.StatusBadRequest, "invalid update payload")
		return
	}

	if update.Message != nil {
		go h.process(update)
	}

	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Home handles GET /.
func (h *WebhookHandler) Home(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]any{
		"status":      "active",
		"service":     "planeador",
		"description": "Asistente de planes de aula",
		"endpoints": map[string]string{
			"webhook": "/webhook",
			"health":  "/health",
		},
	})
}

// Health handles GET /health.
func (h *WebhookHandler) Health(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// process normalizes one update to (userID, text) and runs it through the
// engine. Runs detached from the webhook request context; a panic anywhere
// in the pipeline is contained to this update.
func (h *WebhookHandler) process(update Update) {
	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	msg := update.Message
	chatID := msg.Chat.ID

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("update processing panicked", "chat_id", chatID, "panic", rec)
			h.sendText(ctx, chatID, msgProcessError)
		}
	}()

	userID := chatID
	if msg.From != nil {
		userID = msg.From.ID
	}

	var text string
	switch {
	case msg.Text != "":
		text = msg.Text
		if text == "/start" {
			text = "Hola"
		}
	case msg.Voice != nil:
		transcribed, ok := h.transcribeVoice(ctx, chatID, msg.Voice)
		if !ok {
			return
		}
		text = transcribed
	default:
		return
	}

	reply := h.engine.Handle(ctx, userID, text)
	h.deliver(ctx, chatID, reply)
}

// transcribeVoice downloads and transcribes a voice note, echoing the
// transcription back to the user before it is processed.
func (h *WebhookHandler) transcribeVoice(ctx context.Context, chatID int64, voice *Voice) (string, bool) {
	if err := h.sender.SendMessage(ctx, chatID, "🎤 Transcribiendo audio..."); err != nil {
		slog.Warn("notify transcription failed", "chat_id", chatID, "error", err)
	}

	audio, err := h.voice.DownloadFile(ctx, voice.FileID)
	if err != nil {
		slog.Error("voice download failed", "chat_id", chatID, "error", err)
		h.sendText(ctx, chatID, "❌ Error procesando el audio. Por favor, envía un mensaje de texto.")
		return "", false
	}

	text, err := h.transcriber.Transcribe(ctx, audio, voice.MimeType)
	if err != nil {
		slog.Error("transcription failed", "chat_id", chatID, "error", err)
		h.sendText(ctx, chatID, "Lo siento, no pude transcribir el audio. Por favor, envía un mensaje de texto.")
		return "", false
	}

	h.sendText(ctx, chatID, fmt.Sprintf("📝 *Transcripción:* %s", text))
	return text, true
}

func (h *WebhookHandler) deliver(ctx context.Context, chatID int64, reply domain.Reply) {
	h.sendText(ctx, chatID, reply.Text)
	for _, file := range reply.Files {
		if err := h.sender.SendDocument(ctx, chatID, file.Path, file.Caption); err != nil {
			slog.Error("document delivery failed", "chat_id", chatID, "path", file.Path, "error", err)
		}
	}
}

func (h *WebhookHandler) sendText(ctx context.Context, chatID int64, text string) {
	if err := h.sender.SendMessage(ctx, chatID, text); err != nil {
		slog.Error("message delivery failed", "chat_id", chatID, "error", err)
	}
}
