package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/filenotify/internal/storage"
)

// MockStatusStore is a mock implementation of storage.StatusStore.
type MockStatusStore struct {
	mock.Mock
}

//nolint:revive
func (m *MockStatusStore) UpsertUpload(ctx context.Context, u storage.FileUpload) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

//nolint:revive
func (m *MockStatusStore) GetUpload(ctx context.Context, tenantID, fileID string) (*storage.FileUpload, error) {
	args := m.Called(ctx, tenantID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.FileUpload), args.Error(1)
}

//nolint:revive
func (m *MockStatusStore) MarkNotified(ctx context.Context, tenantID, fileID string) error {
	args := m.Called(ctx, tenantID, fileID)
	return args.Error(0)
}
