package visitor

// allowedTransitions is the hardened lifecycle. Rejected and checked-out are terminal.
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusApproved, StatusRejected},
	StatusApproved:  {StatusCheckedIn},
	StatusCheckedIn: {StatusCheckedOut},
}

// CanTransition reports whether from -> to is permitted by the hardened lifecycle.
// Requesting the current status again is always permitted.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
