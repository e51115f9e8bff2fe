package domain

// PlanRow is one rendered row of the final plan, derived from a completed
// topic at assembly time. Never mutated after creation.
type PlanRow struct {
	Subject      string
	Grade        string
	Period       int
	Topic        string
	Standard     string
	ThinkingType string
	DateRange    string
	Strategies   string
	Resources    string
	Evaluation   string
	Year         int
}

// FileAttachment is a generated file queued for outbound delivery.
type FileAttachment struct {
	Path    string
	Caption string
}

// Reply is the single outbound payload produced for every inbound message.
type Reply struct {
	Text      string
	Files     []FileAttachment
	Completed bool
}
