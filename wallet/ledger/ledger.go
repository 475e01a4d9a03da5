package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/LerianStudio/lib-wallet/wallet/gateway"
)

var (
	ErrClientRequired    = errors.New("gateway client is required")
	ErrNegativeBalance   = errors.New("confirmed balance must not be negative")
	ErrNegativeDeduction = errors.New("deduction amount must not be negative")
)

// BalanceLedger tracks the last confirmed remote balance.
type BalanceLedger struct {
	mu        sync.RWMutex
	confirmed decimal.Decimal
}

// New creates a ledger with a zero confirmed balance.
func New() *BalanceLedger {
	return &BalanceLedger{confirmed: decimal.Zero}
}

// Load initializes the confirmed balance from the remote ledger.
func (ledger *BalanceLedger) Load(ctx context.Context, client gateway.Client) error {
	if client == nil {
		return ErrClientRequired
	}

	balance, err := client.FetchBalance(ctx)
	if err != nil {
		return fmt.Errorf("fetch remote balance: %w", err)
	}

	return ledger.SetConfirmed(balance)
}

// SetConfirmed replaces the confirmed balance, e.g. when restoring a snapshot.
func (ledger *BalanceLedger) SetConfirmed(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeBalance, balance)
	}

	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	ledger.confirmed = balance

	return nil
}

// Confirmed returns the last confirmed remote balance.
func (ledger *BalanceLedger) Confirmed() decimal.Decimal {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()

	return ledger.confirmed
}

// ApplyConfirmedDeduction reduces the confirmed balance by amount, floored at
// zero. Called exactly once per transfer, only after the remote submission
// reported success; the processor's single pass per record enforces that.
func (ledger *BalanceLedger) ApplyConfirmedDeduction(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeDeduction, amount)
	}

	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	next := ledger.confirmed.Sub(amount)
	if next.IsNegative() {
		next = decimal.Zero
	}

	ledger.confirmed = next

	return nil
}

// EffectiveBalance derives the safe spendable amount:
// max(0, confirmed − pendingSum). Pure function, no failure mode.
func EffectiveBalance(confirmed, pendingSum decimal.Decimal) decimal.Decimal {
	effective := confirmed.Sub(pendingSum)
	if effective.IsNegative() {
		return decimal.Zero
	}

	return effective
}
