package registry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Registry is the ordered, mutex-guarded collection of transfer records.
//
// Processing order is creation order (oldest first), insertion order breaking
// ties. All mutations go through the Mark* and IncrementAttempts operations so
// status monotonicity is enforced in one place.
type Registry struct {
	mu    sync.RWMutex
	queue []*Transaction
	byID  map[uuid.UUID]*Transaction
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byID: make(map[uuid.UUID]*Transaction)}
}

// Enqueue appends a record to the collection.
func (registry *Registry) Enqueue(transaction *Transaction) error {
	if transaction == nil {
		return ErrTransactionRequired
	}

	if !transaction.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrStatusInvalid, transaction.Status)
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, exists := registry.byID[transaction.ID]; exists {
		return nil
	}

	stored := *transaction
	registry.queue = append(registry.queue, &stored)
	registry.byID[stored.ID] = &stored

	return nil
}

// NextPending returns a copy of the earliest pending record by creation time,
// insertion order breaking ties. The second return is false when no pending
// record remains. Side-effect free.
func (registry *Registry) NextPending() (Transaction, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	var earliest *Transaction

	for _, transaction := range registry.queue {
		if transaction.Status != StatusPending {
			continue
		}

		if earliest == nil || transaction.CreatedAt.Before(earliest.CreatedAt) {
			earliest = transaction
		}
	}

	if earliest == nil {
		return Transaction{}, false
	}

	return *earliest, true
}

// MarkCompleted transitions a pending record to COMPLETED.
// Marking an already-completed record is a no-op.
func (registry *Registry) MarkCompleted(id uuid.UUID) error {
	return registry.transition(id, StatusCompleted)
}

// MarkFailed transitions a pending record to FAILED.
// Marking an already-failed record is a no-op.
func (registry *Registry) MarkFailed(id uuid.UUID) error {
	return registry.transition(id, StatusFailed)
}

func (registry *Registry) transition(id uuid.UUID, next Status) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	transaction, exists := registry.byID[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
	}

	if transaction.Status == next {
		return nil
	}

	if !transaction.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrStatusTransitionInvalid, transaction.Status, next)
	}

	transaction.Status = next

	return nil
}

// IncrementAttempts adds one submission try to a record. Never changes status.
func (registry *Registry) IncrementAttempts(id uuid.UUID) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	transaction, exists := registry.byID[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
	}

	transaction.Attempts++

	return nil
}

// Get returns a copy of the record with the given id.
func (registry *Registry) Get(id uuid.UUID) (Transaction, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	transaction, exists := registry.byID[id]
	if !exists {
		return Transaction{}, fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
	}

	return *transaction, nil
}

// PendingSum returns the sum of amounts over records still pending.
func (registry *Registry) PendingSum() decimal.Decimal {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	sum := decimal.Zero

	for _, transaction := range registry.queue {
		if transaction.Status == StatusPending {
			sum = sum.Add(transaction.Amount)
		}
	}

	return sum
}

// List returns copies of all records in insertion order.
func (registry *Registry) List() []Transaction {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	result := make([]Transaction, 0, len(registry.queue))
	for _, transaction := range registry.queue {
		result = append(result, *transaction)
	}

	return result
}

// Len returns the total number of records.
func (registry *Registry) Len() int {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	return len(registry.queue)
}

// Restore replaces the registry contents with previously persisted records.
// Records with an invalid status are rejected wholesale.
func (registry *Registry) Restore(transactions []Transaction) error {
	for i := range transactions {
		if !transactions[i].Status.IsValid() {
			return fmt.Errorf("%w: %q", ErrStatusInvalid, transactions[i].Status)
		}
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	registry.queue = make([]*Transaction, 0, len(transactions))
	registry.byID = make(map[uuid.UUID]*Transaction, len(transactions))

	for i := range transactions {
		stored := transactions[i]
		registry.queue = append(registry.queue, &stored)
		registry.byID[stored.ID] = &stored
	}

	return nil
}
