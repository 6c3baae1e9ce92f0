package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/filenotify/internal/notification"
	"github.com/shaharia-lab/filenotify/internal/storage"
)

// MockPreferenceStore is a mock implementation of storage.PreferenceStore.
type MockPreferenceStore struct {
	mock.Mock
}

//nolint:revive
func (m *MockPreferenceStore) ChannelsFor(ctx context.Context, tenantID, eventType string) ([]notification.ChannelKind, error) {
	args := m.Called(ctx, tenantID, eventType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.ChannelKind), args.Error(1)
}

//nolint:revive
func (m *MockPreferenceStore) RecipientsFor(ctx context.Context, tenantID, eventType string) ([]notification.RecipientEntry, error) {
	args := m.Called(ctx, tenantID, eventType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.RecipientEntry), args.Error(1)
}

//nolint:revive
func (m *MockPreferenceStore) SetPreferences(ctx context.Context, p storage.Preference) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

//nolint:revive
func (m *MockPreferenceStore) ListPreferences(ctx context.Context, tenantID string) ([]storage.Preference, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Preference), args.Error(1)
}
