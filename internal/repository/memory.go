package repository

import (
	"context"
	"sync"

	"github.com/nayakvinit/lendbook/internal/domain"
)

type memoryStore struct {
	mu      sync.Mutex
	payload []byte
}

// NewMemoryStore keeps the snapshot in process memory. Used as the test
// substitute for the durable drivers and for ephemeral runs; it still goes
// through the snapshot codec so it exercises the same wire format.
func NewMemoryStore() SnapshotStore {
	return &memoryStore{}
}

func (s *memoryStore) Load(ctx context.Context) ([]*domain.LendingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payload == nil {
		return nil, nil
	}
	return DecodeSnapshot(s.payload)
}

func (s *memoryStore) Save(ctx context.Context, records []*domain.LendingRecord) error {
	payload, err := EncodeSnapshot(records)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.payload = payload
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
