package domain

// Intent is the classified purpose of an inbound message.
type Intent string

const (
	// IntentGreetingNew means the user wants to start a new plan.
	IntentGreetingNew Intent = "greeting_new"
	// IntentProvideInfo means the message carries plan information.
	IntentProvideInfo Intent = "provide_info"
	// IntentContinueOrFinish is a yes/no answer to the continue prompt.
	IntentContinueOrFinish Intent = "continue_or_finish"
	// IntentGeneralQuery is a question outside the planning domain.
	IntentGeneralQuery Intent = "general_query"
)

// Valid reports whether the intent is one of the four known labels.
func (i Intent) Valid() bool {
	switch i {
	case IntentGreetingNew, IntentProvideInfo, IntentContinueOrFinish, IntentGeneralQuery:
		return true
	}
	return false
}
