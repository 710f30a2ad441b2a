package model

type OutcomeKind int

const (
	KindSent     OutcomeKind = iota // remote accepted, ActivityID set
	KindInvalid                     // rejected locally, nothing sent
	KindRejected                    // remote returned an error message
	KindFailed                      // network or malformed response
)

func (k OutcomeKind) String() string {
	switch k {
	case KindSent:
		return "sent"
	case KindInvalid:
		return "invalid"
	case KindRejected:
		return "rejected"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the single terminal result of one send attempt.
type Outcome struct {
	Kind       OutcomeKind
	RequestID  string
	ActivityID string
	Err        error
}

func (o Outcome) OK() bool { return o.Kind == KindSent && o.Err == nil }
