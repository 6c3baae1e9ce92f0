package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/filenotify/internal/storage"
)

// MockAuditStore is a mock implementation of storage.AuditStore.
type MockAuditStore struct {
	mock.Mock
}

//nolint:revive
func (m *MockAuditStore) AppendAudit(ctx context.Context, rec storage.AuditRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

//nolint:revive
func (m *MockAuditStore) ListAudit(ctx context.Context, tenantID string, limit int) ([]storage.AuditRecord, error) {
	args := m.Called(ctx, tenantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.AuditRecord), args.Error(1)
}
