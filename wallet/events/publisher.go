package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types emitted on terminal transfer transitions.
const (
	TypeTransferCompleted = "transfer.completed"
	TypeTransferFailed    = "transfer.failed"
)

// TransferEvent describes one terminal transfer transition.
type TransferEvent struct {
	Type          string          `json:"type"`
	TransactionID uuid.UUID       `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Recipient     string          `json:"recipient"`
	Attempts      int             `json:"attempts"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// Publisher delivers transfer events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event TransferEvent) error
}

// NopPublisher drops all events.
type NopPublisher struct{}

// NewNop creates a publisher that drops all events.
func NewNop() Publisher {
	return &NopPublisher{}
}

// Publish drops the event.
func (publisher *NopPublisher) Publish(_ context.Context, _ TransferEvent) error {
	return nil
}
