package gateway

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Submission failure taxonomy. ErrNoConnection and ErrServerUnavailable are
// transient; ErrInsufficientFunds is non-retryable. Errors outside this set
// are treated as transient by the queue processor.
var (
	ErrNoConnection      = errors.New("no connection to remote ledger")
	ErrServerUnavailable = errors.New("remote ledger server unavailable")
	ErrInsufficientFunds = errors.New("insufficient remote funds")
)

// SubmitInput is the payload for one transfer submission. The idempotency key
// is stable for the lifetime of the logical transfer and is sent on every
// attempt so the remote ledger collapses duplicate submissions into a single
// deduction.
type SubmitInput struct {
	Amount         decimal.Decimal
	Recipient      string
	IdempotencyKey uuid.UUID
}

// Client submits transfers to the remote ledger.
//
//go:generate mockgen --destination=client_mock.go --package=gateway . Client
type Client interface {
	// FetchBalance returns the confirmed remote balance. Used once at startup.
	FetchBalance(ctx context.Context) (decimal.Decimal, error)

	// Submit posts one transfer. A nil error means the transfer settled (or
	// was already settled under the same idempotency key).
	Submit(ctx context.Context, input SubmitInput) error
}
