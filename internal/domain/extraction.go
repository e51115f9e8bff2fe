package domain

// Extraction holds candidate field updates pulled from one message.
// A nil field means the message did not mention it; the extractor never
// writes a guess into a field that was absent.
type Extraction struct {
	Subject   *string
	Grade     *string
	Topic     *string
	Period    *int
	DateRange *string
}

// Empty reports whether the extraction carries no updates at all.
func (e Extraction) Empty() bool {
	return e.Subject == nil && e.Grade == nil && e.Topic == nil &&
		e.Period == nil && e.DateRange == nil
}

// Apply writes every non-nil field into the session: subject and grade go
// to the accumulated plan data, the topic fields go to the draft.
func (e Extraction) Apply(s *Session) {
	if e.Subject != nil {
		s.Data.Subject = *e.Subject
	}
	if e.Grade != nil {
		s.Data.Grade = *e.Grade
	}
	if e.Topic != nil {
		s.Draft.Topic = *e.Topic
	}
	if e.Period != nil {
		s.Draft.Period = *e.Period
	}
	if e.DateRange != nil {
		s.Draft.DateRange = *e.DateRange
	}
}
