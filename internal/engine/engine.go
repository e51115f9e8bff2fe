// Package engine drives the multi-turn collection loop: it decides what is
// missing, when to loop, when to finalize and when to reset.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/proferick/planeador/internal/domain"
	"github.com/proferick/planeador/internal/gateway"
	"github.com/proferick/planeador/internal/session"
)

// Classifier labels inbound messages.
type Classifier interface {
	Classify(ctx context.Context, message string) domain.Intent
}

// Extractor pulls field updates out of a message.
type Extractor interface {
	Extract(ctx context.Context, message string, s *domain.Session) (domain.Extraction, error)
}

// Assembler builds renderable rows from accumulated plan data.
type Assembler interface {
	Build(ctx context.Context, data domain.PlanData) []domain.PlanRow
}

// Renderer generates the report and spreadsheet files.
type Renderer interface {
	Report(rows []domain.PlanRow, userID int64) (string, error)
	Spreadsheet(rows []domain.PlanRow, userID int64) (string, error)
}

// Yes/no vocabulary for the continue prompt. Replies matching neither list
// are routed through the extraction path instead of being dropped.
var (
	affirmatives = []string{"si", "sí", "yes", "ok", "vale", "claro"}
	negatives    = []string{"no", "nope", "listo", "ya", "generar", "crear"}
)

// Engine is the conversation completion engine.
type Engine struct {
	store      session.Store
	locks      *session.KeyedMutex
	classifier Classifier
	extractor  Extractor
	assembler  Assembler
	renderer   Renderer
	gw         gateway.Completer
}

// New creates an Engine with its collaborators.
func New(store session.Store, classifier Classifier, extractor Extractor, assembler Assembler, renderer Renderer, gw gateway.Completer) *Engine {
	return &Engine{
		store:      store,
		locks:      session.NewKeyedMutex(),
		classifier: classifier,
		extractor:  extractor,
		assembler:  assembler,
		renderer:   renderer,
		gw:         gw,
	}
}

// Handle processes one inbound message and returns exactly one reply.
// Processing is serialized per user id; messages from distinct users run
// concurrently.
func (e *Engine) Handle(ctx context.Context, userID int64, text string) domain.Reply {
	unlock := e.locks.Lock(userID)
	defer unlock()

	s, err := e.store.GetOrCreate(ctx, userID)
	if err != nil {
		slog.Error("session lookup failed", "user_id", userID, "error", err)
		return domain.Reply{Text: msgSessionError}
	}
	s.Record(text)

	intent := e.classifier.Classify(ctx, text)
	slog.Info("message classified", "user_id", userID, "intent", string(intent), "state", s.State().String())

	switch intent {
	case domain.IntentGreetingNew:
		return e.handleGreeting(ctx, userID)
	case domain.IntentGeneralQuery:
		return e.handleGeneralQuery(ctx, s, text)
	case domain.IntentContinueOrFinish:
		if reply, handled := e.handleContinue(ctx, s, text); handled {
			return reply
		}
		// Neither affirmative nor negative: treat as new information.
	}
	return e.handleProvideInfo(ctx, s, text)
}

// handleGreeting resets the session and emits the onboarding message.
func (e *Engine) handleGreeting(ctx context.Context, userID int64) domain.Reply {
	if _, err := e.store.Reset(ctx, userID); err != nil {
		slog.Error("session reset failed", "user_id", userID, "error", err)
		return domain.Reply{Text: msgSessionError}
	}
	slog.Info("session reset", "user_id", userID)
	return domain.Reply{Text: msgOnboarding}
}

// handleGeneralQuery answers off-domain questions without touching plan
// state, always closing with the specialty reminder.
func (e *Engine) handleGeneralQuery(ctx context.Context, s *domain.Session, text string) domain.Reply {
	answer, err := e.gw.Complete(ctx, fmt.Sprintf(generalQueryPrompt, text))
	if err != nil {
		slog.Warn("general query answer failed", "user_id", s.UserID, "error", err)
		answer = msgGeneralFallback
	}
	e.save(ctx, s)
	return domain.Reply{Text: answer}
}

// handleContinue resolves the yes/no gate after a topic completes. The
// second return value is false when the reply matched neither vocabulary.
func (e *Engine) handleContinue(ctx context.Context, s *domain.Session, text string) (domain.Reply, bool) {
	reply := strings.ToLower(strings.TrimSpace(text))

	if matches(reply, affirmatives) {
		s.Draft = domain.TopicDraft{}
		e.save(ctx, s)
		return domain.Reply{Text: msgNextTopic}, true
	}

	if matches(reply, negatives) {
		if !s.Data.Ready() {
			e.save(ctx, s)
			return domain.Reply{Text: msgNotReady}, true
		}
		return e.finalize(ctx, s), true
	}

	return domain.Reply{}, false
}

// finalize assembles the plan, renders both files and emits the summary.
// A rendering failure still completes the turn; the collected state stays
// intact for a later attempt.
func (e *Engine) finalize(ctx context.Context, s *domain.Session) domain.Reply {
	rows := e.assembler.Build(ctx, s.Data)

	reportPath, err := e.renderer.Report(rows, s.UserID)
	if err != nil {
		slog.Error("report rendering failed", "user_id", s.UserID, "error", err)
		e.save(ctx, s)
		return domain.Reply{Text: msgRenderError, Completed: true}
	}
	sheetPath, err := e.renderer.Spreadsheet(rows, s.UserID)
	if err != nil {
		slog.Error("spreadsheet rendering failed", "user_id", s.UserID, "error", err)
		e.save(ctx, s)
		return domain.Reply{Text: msgRenderError, Completed: true}
	}

	slog.Info("plan generated", "user_id", s.UserID, "topics", len(s.Data.Topics))
	e.save(ctx, s)
	return domain.Reply{
		Text: summaryText(s),
		Files: []domain.FileAttachment{
			{Path: reportPath, Caption: "Plan de aula con estándares del MEN"},
			{Path: sheetPath, Caption: "Plan de aula editable"},
		},
		Completed: true,
	}
}

// handleProvideInfo runs extraction and advances the collection loop.
func (e *Engine) handleProvideInfo(ctx context.Context, s *domain.Session, text string) domain.Reply {
	extracted, err := e.extractor.Extract(ctx, text, s)
	if err != nil {
		slog.Warn("extraction failed", "user_id", s.UserID, "error", err)
		// Session state stays untouched; only the history entry persists.
		e.save(ctx, s)
		return domain.Reply{Text: msgExtractionError}
	}

	if extracted.Empty() {
		slog.Info("no fields extracted", "user_id", s.UserID)
	}
	extracted.Apply(s)

	if done, committed := s.CommitDraft(); committed {
		e.save(ctx, s)
		return domain.Reply{Text: topicCommittedText(done)}
	}

	e.save(ctx, s)
	return domain.Reply{Text: recapText(s)}
}

func (e *Engine) save(ctx context.Context, s *domain.Session) {
	if err := e.store.Save(ctx, s); err != nil {
		slog.Error("session save failed", "user_id", s.UserID, "error", err)
	}
}

func matches(reply string, vocabulary []string) bool {
	for _, word := range vocabulary {
		if reply == word {
			return true
		}
	}
	return false
}
