package loan

// Status is a stage of the loan lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDenied    Status = "denied"
	StatusActive    Status = "active"
	StatusPaid      Status = "paid"
	StatusDefaulted Status = "defaulted"
)

var transitions = map[Status][]Status{
	StatusPending: {StatusActive, StatusDenied},
	StatusActive:  {StatusPaid, StatusDefaulted},
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusDenied, StatusActive, StatusPaid, StatusDefaulted:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

// CanTransitionTo reports whether next is reachable from s. Staying in the
// same status is always allowed and has no effect.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}

	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Disbursed reports whether money has been paid out under this status.
func (s Status) Disbursed() bool {
	return s == StatusActive || s == StatusPaid || s == StatusDefaulted
}
