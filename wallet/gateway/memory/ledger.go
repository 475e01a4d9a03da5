package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/LerianStudio/lib-wallet/wallet/backoff"
	"github.com/LerianStudio/lib-wallet/wallet/gateway"
)

const defaultStartingBalance = 500

// RemoteLedger is an in-memory simulation of the remote ledger service.
type RemoteLedger struct {
	mu              sync.Mutex
	balance         decimal.Decimal
	processed       map[uuid.UUID]struct{}
	networkBlocked  bool
	serverErrorRate float64
	minLatency      time.Duration
	maxLatency      time.Duration
	roll            func() float64
}

// Compile-time assertion: *RemoteLedger implements gateway.Client.
var _ gateway.Client = (*RemoteLedger)(nil)

// Option mutates remote ledger configuration at construction.
type Option func(*RemoteLedger)

// WithStartingBalance overrides the default starting balance of 500.
func WithStartingBalance(balance decimal.Decimal) Option {
	return func(ledger *RemoteLedger) {
		if !balance.IsNegative() {
			ledger.balance = balance
		}
	}
}

// WithLatency sets the simulated submission latency range.
func WithLatency(minLatency, maxLatency time.Duration) Option {
	return func(ledger *RemoteLedger) {
		if minLatency >= 0 && maxLatency >= minLatency {
			ledger.minLatency = minLatency
			ledger.maxLatency = maxLatency
		}
	}
}

// WithServerErrorRate sets the probability in [0, 1] of a transient server error.
func WithServerErrorRate(rate float64) Option {
	return func(ledger *RemoteLedger) {
		if rate >= 0 && rate <= 1 {
			ledger.serverErrorRate = rate
		}
	}
}

// WithRoll injects the random roll used for server error simulation.
func WithRoll(roll func() float64) Option {
	return func(ledger *RemoteLedger) {
		if roll != nil {
			ledger.roll = roll
		}
	}
}

// NewRemoteLedger creates a simulated remote ledger.
func NewRemoteLedger(opts ...Option) *RemoteLedger {
	ledger := &RemoteLedger{
		balance:   decimal.NewFromInt(defaultStartingBalance),
		processed: make(map[uuid.UUID]struct{}),
		roll:      rand.Float64, // #nosec G404 -- simulation only
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ledger)
		}
	}

	return ledger
}

// SetNetworkBlocked forces every submission to fail with ErrNoConnection.
func (ledger *RemoteLedger) SetNetworkBlocked(blocked bool) {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	ledger.networkBlocked = blocked
}

// FetchBalance returns the confirmed remote balance.
func (ledger *RemoteLedger) FetchBalance(ctx context.Context) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	return ledger.balance, nil
}

// Submit settles one transfer against the simulated balance.
//
// A replayed idempotency key settles without a second deduction, matching the
// contract the queue processor relies on for retry safety.
func (ledger *RemoteLedger) Submit(ctx context.Context, input gateway.SubmitInput) error {
	if err := ledger.sleepLatency(ctx); err != nil {
		return err
	}

	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	if ledger.networkBlocked {
		return gateway.ErrNoConnection
	}

	if _, done := ledger.processed[input.IdempotencyKey]; done {
		return nil
	}

	if ledger.serverErrorRate > 0 && ledger.roll() < ledger.serverErrorRate {
		return gateway.ErrServerUnavailable
	}

	if ledger.balance.LessThan(input.Amount) {
		return gateway.ErrInsufficientFunds
	}

	ledger.balance = ledger.balance.Sub(input.Amount)
	ledger.processed[input.IdempotencyKey] = struct{}{}

	return nil
}

func (ledger *RemoteLedger) sleepLatency(ctx context.Context) error {
	ledger.mu.Lock()
	minLatency, maxLatency := ledger.minLatency, ledger.maxLatency
	ledger.mu.Unlock()

	if maxLatency <= 0 {
		return ctx.Err()
	}

	latency := minLatency
	if spread := maxLatency - minLatency; spread > 0 {
		latency += time.Duration(rand.Int63n(int64(spread))) // #nosec G404 -- simulation only
	}

	return backoff.SleepWithContext(ctx, latency)
}
