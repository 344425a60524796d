package model

// Transitions decides which status changes are allowed.
//
// The zero value is permissive: every response status is reachable from every
// status, including terminal ones. Strict limits changes to the forward
// lifecycle pending -> accepted -> completed with cancellation and rejection
// as exits.
type Transitions struct {
	strict bool
}

// PermissiveTransitions allows any change to a response status.
func PermissiveTransitions() Transitions { return Transitions{} }

// StrictTransitions allows only forward lifecycle changes.
func StrictTransitions() Transitions { return Transitions{strict: true} }

// Strict reports whether t enforces the strict table.
func (t Transitions) Strict() bool { return t.strict }

var strictTable = map[string][]string{
	StatusPending:  {StatusAccepted, StatusRejected, StatusCancelled, StatusCompleted},
	StatusAccepted: {StatusCompleted, StatusCancelled},
}

// Allowed reports whether a transaction in status from may move to status to.
func (t Transitions) Allowed(from, to string) bool {
	if !IsResponseStatus(to) {
		return false
	}
	if !t.strict {
		return true
	}
	for _, s := range strictTable[from] {
		if s == to {
			return true
		}
	}
	return false
}
