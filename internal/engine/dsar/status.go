package dsar

import "errors"

const (
	StatusOpen       = "OPEN"
	StatusInProgress = "IN_PROGRESS"
	StatusInReview   = "IN_REVIEW"
	StatusClosed     = "CLOSED"
)

var (
	ErrNotFound          = errors.New("dsar request not found")
	ErrInvalidStatus     = errors.New("invalid dsar status")
	ErrInvalidTransition = errors.New("invalid dsar status transition")
)

// The pipeline is strictly linear; there is no skipping and no reopening.
var progression = map[string]string{
	StatusOpen:       StatusInProgress,
	StatusInProgress: StatusInReview,
	StatusInReview:   StatusClosed,
}

// Next returns the single legal successor of a status, or "" for CLOSED.
func Next(status string) string {
	return progression[status]
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusOpen, StatusInProgress, StatusInReview, StatusClosed:
		return true
	}
	return false
}

// ValidateTransition enforces the linear progression server-side rather than
// trusting which action the dashboard happened to offer.
func ValidateTransition(from, to string) error {
	if !IsValidStatus(to) {
		return ErrInvalidStatus
	}
	if progression[from] != to {
		return ErrInvalidTransition
	}
	return nil
}
