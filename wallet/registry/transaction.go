package registry

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one transfer record.
//
// ID is a process-unique lookup handle. IdempotencyKey is generated once at
// creation, never changes, and accompanies every remote submission attempt so
// the remote ledger collapses duplicates into a single deduction.
type Transaction struct {
	ID             uuid.UUID       `json:"id"`
	IdempotencyKey uuid.UUID       `json:"idempotencyKey"`
	Amount         decimal.Decimal `json:"amount"`
	Recipient      string          `json:"recipient"`
	Status         Status          `json:"status"`
	Attempts       int             `json:"attempts"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// NewTransaction creates a pending transfer record with fresh identity.
func NewTransaction(amount decimal.Decimal, recipient string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}

	if strings.TrimSpace(recipient) == "" {
		return nil, ErrRecipientRequired
	}

	return &Transaction{
		ID:             uuid.New(),
		IdempotencyKey: uuid.New(),
		Amount:         amount,
		Recipient:      recipient,
		Status:         StatusPending,
		Attempts:       0,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
