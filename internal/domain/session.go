// Package domain contains core domain types for the lesson-plan assistant.
package domain

import (
	"time"
)

// HistoryEntry records one inbound message for audit purposes.
// History is append-only and never read back by conversation logic.
type HistoryEntry struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// TopicDraft is the topic currently being collected. Fields fill in over
// multiple turns; the zero value means nothing has been collected yet.
type TopicDraft struct {
	Topic     string `json:"tema"`
	Period    int    `json:"periodo"`
	DateRange string `json:"fechas"`
}

// Complete reports whether all three topic fields have been collected.
func (d *TopicDraft) Complete() bool {
	return d.Topic != "" && d.Period != 0 && d.DateRange != ""
}

// Empty reports whether no topic field has been collected.
func (d *TopicDraft) Empty() bool {
	return d.Topic == "" && d.Period == 0 && d.DateRange == ""
}

// Missing returns the user-facing names of the topic fields still needed.
func (d *TopicDraft) Missing() []string {
	var missing []string
	if d.Topic == "" {
		missing = append(missing, "tema")
	}
	if d.Period == 0 {
		missing = append(missing, "período")
	}
	if d.DateRange == "" {
		missing = append(missing, "fechas")
	}
	return missing
}

// CompletedTopic is an immutable snapshot of a fully collected topic.
// Only Session.CommitDraft creates these, so all fields are non-empty.
type CompletedTopic struct {
	Topic     string `json:"tema"`
	Period    int    `json:"periodo"`
	DateRange string `json:"fechas"`
}

// PlanData is the accumulated plan-level state for a session.
type PlanData struct {
	Subject string           `json:"asignatura"`
	Grade   string           `json:"grado"`
	Topics  []CompletedTopic `json:"temas"`
	Year    int              `json:"anio"`
}

// Ready reports whether the plan can be generated: subject, grade and at
// least one committed topic. The draft topic is irrelevant here.
func (p *PlanData) Ready() bool {
	return p.Subject != "" && p.Grade != "" && len(p.Topics) > 0
}

// MissingGeneral returns the user-facing names of missing plan-level fields.
func (p *PlanData) MissingGeneral() []string {
	var missing []string
	if p.Subject == "" {
		missing = append(missing, "asignatura")
	}
	if p.Grade == "" {
		missing = append(missing, "grado")
	}
	return missing
}

// Session holds the full conversational state for one user.
type Session struct {
	UserID    int64          `json:"user_id"`
	History   []HistoryEntry `json:"history"`
	Data      PlanData       `json:"data"`
	Draft     TopicDraft     `json:"current_tema"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewSession creates a fresh session with empty fields and the current year.
func NewSession(userID int64) *Session {
	now := time.Now()
	return &Session{
		UserID:    userID,
		Data:      PlanData{Year: now.Year()},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Record appends an inbound message to the session history.
func (s *Session) Record(text string) {
	s.History = append(s.History, HistoryEntry{Text: text, Timestamp: time.Now()})
	s.UpdatedAt = time.Now()
}

// CommitDraft moves a complete draft topic into the accumulated topics and
// clears the draft. Returns the committed snapshot, or false if the draft
// is not yet complete (in which case nothing changes).
func (s *Session) CommitDraft() (CompletedTopic, bool) {
	if !s.Draft.Complete() {
		return CompletedTopic{}, false
	}
	done := CompletedTopic{
		Topic:     s.Draft.Topic,
		Period:    s.Draft.Period,
		DateRange: s.Draft.DateRange,
	}
	s.Data.Topics = append(s.Data.Topics, done)
	s.Draft = TopicDraft{}
	return done, true
}

// State derives the collection phase from field completeness.
func (s *Session) State() State {
	switch {
	case s.Data.Ready():
		return StateReadyToRender
	case s.Data.Subject == "" || s.Data.Grade == "":
		if s.Data.Subject == "" && s.Data.Grade == "" && len(s.Data.Topics) == 0 && s.Draft.Empty() {
			return StateEmpty
		}
		return StateCollectingGeneral
	default:
		return StateCollectingTopic
	}
}

// State is the derived phase of the collection loop.
type State int

const (
	// StateEmpty means nothing has been collected yet.
	StateEmpty State = iota
	// StateCollectingGeneral means subject and/or grade are still missing.
	StateCollectingGeneral
	// StateCollectingTopic means subject and grade are set but no topic is committed.
	StateCollectingTopic
	// StateReadyToRender means subject, grade and at least one topic are present.
	StateReadyToRender
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateCollectingGeneral:
		return "collecting_general"
	case StateCollectingTopic:
		return "collecting_topic"
	case StateReadyToRender:
		return "ready_to_render"
	default:
		return "unknown"
	}
}
