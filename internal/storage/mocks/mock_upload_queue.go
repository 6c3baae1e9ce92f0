package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/filenotify/internal/storage"
)

// MockUploadQueue is a mock implementation of storage.UploadQueue.
type MockUploadQueue struct {
	mock.Mock
}

//nolint:revive
func (m *MockUploadQueue) Enqueue(ctx context.Context, ev storage.UploadEvent) (int64, error) {
	args := m.Called(ctx, ev)
	return args.Get(0).(int64), args.Error(1)
}

//nolint:revive
func (m *MockUploadQueue) Receive(ctx context.Context, max int, visibility time.Duration) ([]storage.QueuedEvent, error) {
	args := m.Called(ctx, max, visibility)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.QueuedEvent), args.Error(1)
}

//nolint:revive
func (m *MockUploadQueue) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
