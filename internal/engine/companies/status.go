package companies

import "errors"

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

var (
	ErrNotFound          = errors.New("company not found")
	ErrInvalidStatus     = errors.New("invalid company status")
	ErrInvalidTransition = errors.New("invalid company status transition")
)

// CanTransition reports whether a company may move from one approval status
// to another. APPROVED and REJECTED are terminal.
func CanTransition(from, to string) bool {
	if from != StatusPending {
		return false
	}
	return to == StatusApproved || to == StatusRejected
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
