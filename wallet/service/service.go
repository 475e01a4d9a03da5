package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/LerianStudio/lib-wallet/wallet/connectivity"
	"github.com/LerianStudio/lib-wallet/wallet/ledger"
	libLog "github.com/LerianStudio/lib-wallet/wallet/log"
	"github.com/LerianStudio/lib-wallet/wallet/registry"
	"github.com/LerianStudio/lib-wallet/wallet/store"
)

// Waker signals the queue processor that pending work may exist.
// Satisfied by *processor.Processor.
type Waker interface {
	Wake()
}

// Service is the wallet facade used by transports and the daemon.
type Service struct {
	registry  *registry.Registry
	balances  *ledger.BalanceLedger
	monitor   *connectivity.Monitor
	snapshots store.Store
	waker     Waker
	logger    libLog.Logger

	// admitMu serializes the admission check against the enqueue so two
	// concurrent transfers cannot both pass on the same effective balance.
	admitMu sync.Mutex
}

// Option mutates service configuration at construction.
type Option func(*Service)

// WithStore sets the snapshot store used for persistence.
func WithStore(snapshots store.Store) Option {
	return func(service *Service) {
		if snapshots != nil {
			service.snapshots = snapshots
		}
	}
}

// WithWaker sets the processor woken on enqueue and connectivity restore.
func WithWaker(waker Waker) Option {
	return func(service *Service) {
		if waker != nil {
			service.waker = waker
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger libLog.Logger) Option {
	return func(service *Service) {
		if logger != nil {
			service.logger = logger
		}
	}
}

// New creates a wallet service. The service subscribes to the connectivity
// monitor so the processor is woken whenever effective connectivity returns.
func New(
	transactionRegistry *registry.Registry,
	balanceLedger *ledger.BalanceLedger,
	monitor *connectivity.Monitor,
	opts ...Option,
) (*Service, error) {
	if transactionRegistry == nil {
		return nil, ErrRegistryRequired
	}

	if balanceLedger == nil {
		return nil, ErrLedgerRequired
	}

	if monitor == nil {
		return nil, ErrMonitorRequired
	}

	service := &Service{
		registry: transactionRegistry,
		balances: balanceLedger,
		monitor:  monitor,
		logger:   libLog.NewNop(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(service)
		}
	}

	monitor.Subscribe(func(available bool) {
		if available {
			service.wake()
		}
	})

	return service, nil
}

// EnqueueTransfer validates and records a transfer, persists the snapshot,
// and wakes the processor. The transfer is admitted only when its amount does
// not exceed the effective balance at admission time.
func (service *Service) EnqueueTransfer(ctx context.Context, amount decimal.Decimal, recipient string) (registry.Transaction, error) {
	transaction, err := registry.NewTransaction(amount, recipient)
	if err != nil {
		return registry.Transaction{}, err
	}

	service.admitMu.Lock()

	effective := service.EffectiveBalance()
	if amount.GreaterThan(effective) {
		service.admitMu.Unlock()

		return registry.Transaction{}, fmt.Errorf("%w: amount %s, effective %s",
			ErrInsufficientEffectiveBalance, amount, effective)
	}

	if err := service.registry.Enqueue(transaction); err != nil {
		service.admitMu.Unlock()

		return registry.Transaction{}, err
	}

	service.admitMu.Unlock()

	service.logger.Log(ctx, libLog.LevelInfo, "transfer enqueued",
		libLog.String("transaction_id", transaction.ID.String()),
		libLog.String("amount", amount.String()),
		libLog.String("recipient", recipient),
	)

	service.persist(ctx)
	service.wake()

	return *transaction, nil
}

// ConfirmedBalance returns the last confirmed remote balance.
func (service *Service) ConfirmedBalance() decimal.Decimal {
	return service.balances.Confirmed()
}

// PendingSum returns the sum of amounts over transfers still pending.
func (service *Service) PendingSum() decimal.Decimal {
	return service.registry.PendingSum()
}

// EffectiveBalance returns the spendable balance: the confirmed balance net
// of pending transfers, floored at zero.
func (service *Service) EffectiveBalance() decimal.Decimal {
	return ledger.EffectiveBalance(service.balances.Confirmed(), service.registry.PendingSum())
}

// Transactions returns copies of all transfer records in insertion order.
func (service *Service) Transactions() []registry.Transaction {
	return service.registry.List()
}

// Transaction returns a copy of one transfer record.
func (service *Service) Transaction(id uuid.UUID) (registry.Transaction, error) {
	return service.registry.Get(id)
}

// Online reports the current effective connectivity.
func (service *Service) Online() bool {
	return service.monitor.Available()
}

// SimulatedOffline reports the manual offline override.
func (service *Service) SimulatedOffline() bool {
	return service.monitor.SimulatedOffline()
}

// SetNetwork updates the transport connectivity inputs.
func (service *Service) SetNetwork(ctx context.Context, connected, internetReachable bool) {
	service.monitor.SetTransport(connected, internetReachable)

	service.logger.Log(ctx, libLog.LevelInfo, "network state updated",
		libLog.Bool("connected", connected),
		libLog.Bool("internet_reachable", internetReachable),
		libLog.Bool("online", service.monitor.Available()),
	)
}

// SetSimulatedOffline toggles the manual offline override and persists it.
func (service *Service) SetSimulatedOffline(ctx context.Context, offline bool) {
	service.monitor.SetSimulatedOffline(offline)

	service.logger.Log(ctx, libLog.LevelInfo, "offline simulation updated",
		libLog.Bool("simulated_offline", offline),
		libLog.Bool("online", service.monitor.Available()),
	)

	service.persist(ctx)
}

// Restore replaces the wallet state with the persisted snapshot. Without a
// configured store the confirmed balance falls back to the default snapshot.
func (service *Service) Restore(ctx context.Context) error {
	snapshot := store.DefaultSnapshot()

	if service.snapshots != nil {
		loaded, err := service.snapshots.Load(ctx)
		if err != nil {
			return fmt.Errorf("load wallet snapshot: %w", err)
		}

		snapshot = loaded
	}

	if err := service.registry.Restore(snapshot.Transactions); err != nil {
		return fmt.Errorf("restore transaction registry: %w", err)
	}

	if err := service.balances.SetConfirmed(snapshot.ConfirmedBalance); err != nil {
		return fmt.Errorf("restore confirmed balance: %w", err)
	}

	service.monitor.SetSimulatedOffline(snapshot.SimulatedOffline)

	service.logger.Log(ctx, libLog.LevelInfo, "wallet state restored",
		libLog.String("confirmed_balance", snapshot.ConfirmedBalance.String()),
		libLog.Int("transactions", len(snapshot.Transactions)),
		libLog.Bool("simulated_offline", snapshot.SimulatedOffline),
	)

	return nil
}

// Persist saves the current wallet state. A no-op without a configured store.
func (service *Service) Persist(ctx context.Context) error {
	if service.snapshots == nil {
		return nil
	}

	snapshot := &store.Snapshot{
		ConfirmedBalance: service.balances.Confirmed(),
		Transactions:     service.registry.List(),
		SimulatedOffline: service.monitor.SimulatedOffline(),
	}

	return service.snapshots.Save(ctx, snapshot)
}

func (service *Service) persist(ctx context.Context) {
	if err := service.Persist(ctx); err != nil {
		service.logger.Log(ctx, libLog.LevelWarn, "failed to persist wallet snapshot", libLog.Err(err))
	}
}

func (service *Service) wake() {
	if service.waker != nil {
		service.waker.Wake()
	}
}
