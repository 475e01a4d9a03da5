package registry

import "fmt"

// Status represents the lifecycle state of a transfer record.
//
// Transitions are monotonic:
//
//	PENDING → COMPLETED | FAILED
//
// COMPLETED and FAILED are terminal; no record re-enters PENDING.
type Status string

const (
	// StatusPending marks a transfer awaiting remote submission.
	StatusPending Status = "PENDING"
	// StatusCompleted marks a transfer confirmed by the remote ledger.
	StatusCompleted Status = "COMPLETED"
	// StatusFailed marks a transfer that permanently failed.
	StatusFailed Status = "FAILED"
)

// ParseStatus validates and converts a raw string status.
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)

	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrStatusInvalid, raw)
	}

	return status, nil
}

// IsValid reports whether the status is part of the transfer lifecycle.
func (status Status) IsValid() bool {
	switch status {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status admits no further transitions.
func (status Status) IsTerminal() bool {
	return status == StatusCompleted || status == StatusFailed
}

// CanTransitionTo reports whether a transition from status to next is allowed.
func (status Status) CanTransitionTo(next Status) bool {
	switch status {
	case StatusPending:
		return next == StatusCompleted || next == StatusFailed
	case StatusCompleted, StatusFailed:
		return false
	default:
		return false
	}
}

func (status Status) String() string {
	return string(status)
}
