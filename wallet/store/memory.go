package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrSnapshotRequired is returned when saving a nil snapshot.
var ErrSnapshotRequired = errors.New("snapshot is required")

// MemoryStore keeps the snapshot in process memory. Useful for tests and for
// runs that accept losing state on restart.
type MemoryStore struct {
	mu   sync.Mutex
	blob []byte
}

// Compile-time assertion: *MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored snapshot, or defaults when nothing was saved.
func (memoryStore *MemoryStore) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	memoryStore.mu.Lock()
	defer memoryStore.mu.Unlock()

	if memoryStore.blob == nil {
		return DefaultSnapshot(), nil
	}

	var snapshot Snapshot
	if err := json.Unmarshal(memoryStore.blob, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	return &snapshot, nil
}

// Save stores the snapshot.
func (memoryStore *MemoryStore) Save(ctx context.Context, snapshot *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if snapshot == nil {
		return ErrSnapshotRequired
	}

	blob, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	memoryStore.mu.Lock()
	defer memoryStore.mu.Unlock()

	memoryStore.blob = blob

	return nil
}
