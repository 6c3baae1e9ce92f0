package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/filenotify/internal/notification"
	"github.com/shaharia-lab/filenotify/internal/storage"
)

// MockNotificationService is a mock implementation of service.NotificationService.
type MockNotificationService struct {
	mock.Mock
}

//nolint:revive
func (m *MockNotificationService) Dispatch(ctx context.Context, req notification.Request) (*notification.Report, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Report), args.Error(1)
}

//nolint:revive
func (m *MockNotificationService) SubmitUploadEvent(ctx context.Context, ev storage.UploadEvent) (int64, error) {
	args := m.Called(ctx, ev)
	return args.Get(0).(int64), args.Error(1)
}

//nolint:revive
func (m *MockNotificationService) ListAudit(ctx context.Context, tenantID string, limit int) ([]storage.AuditRecord, error) {
	args := m.Called(ctx, tenantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.AuditRecord), args.Error(1)
}

//nolint:revive
func (m *MockNotificationService) GetUploadStatus(ctx context.Context, tenantID, fileID string) (*storage.FileUpload, error) {
	args := m.Called(ctx, tenantID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.FileUpload), args.Error(1)
}

//nolint:revive
func (m *MockNotificationService) GetPreference(ctx context.Context, tenantID, eventType string) (*storage.Preference, error) {
	args := m.Called(ctx, tenantID, eventType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Preference), args.Error(1)
}

//nolint:revive
func (m *MockNotificationService) SetPreference(ctx context.Context, p storage.Preference) (*storage.Preference, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Preference), args.Error(1)
}

//nolint:revive
func (m *MockNotificationService) ListPreferences(ctx context.Context, tenantID string) ([]storage.Preference, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Preference), args.Error(1)
}
