package store

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/LerianStudio/lib-wallet/wallet/registry"
)

// DefaultStartingBalance is the confirmed balance used when no persisted
// state exists.
const DefaultStartingBalance = 500

// Snapshot is the persisted wallet state.
type Snapshot struct {
	ConfirmedBalance decimal.Decimal        `json:"confirmedBalance"`
	Transactions     []registry.Transaction `json:"transactions"`
	SimulatedOffline bool                   `json:"simulatedOffline"`
}

// DefaultSnapshot returns the state used when nothing was persisted yet.
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		ConfirmedBalance: decimal.NewFromInt(DefaultStartingBalance),
		Transactions:     nil,
		SimulatedOffline: false,
	}
}

// Store loads and saves wallet snapshots.
type Store interface {
	// Load returns the persisted snapshot, or DefaultSnapshot when absent.
	Load(ctx context.Context) (*Snapshot, error)

	// Save persists the snapshot verbatim.
	Save(ctx context.Context, snapshot *Snapshot) error
}
