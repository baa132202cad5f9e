package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/nayakvinit/lendbook/internal/domain"
)

type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) Load(ctx context.Context) ([]*domain.LendingRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LendingRecord), args.Error(1)
}

func (m *MockSnapshotStore) Save(ctx context.Context, records []*domain.LendingRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockSnapshotStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSnapshotStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
