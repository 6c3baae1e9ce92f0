package storage

import (
	"context"

	"github.com/shaharia-lab/filenotify/internal/notification"
)

// Preference is a tenant's ordered notification targets for one event type.
type Preference struct {
	TenantID   string                        `json:"tenant_id" yaml:"tenant_id"`
	EventType  string                        `json:"event_type" yaml:"event_type"`
	Recipients []notification.RecipientEntry `json:"recipients" yaml:"recipients"`
}

// PreferenceStore holds tenant notification configuration keyed by
// (tenant, event type).
type PreferenceStore interface {
	// ChannelsFor returns the distinct configured channels in configured order.
	ChannelsFor(ctx context.Context, tenantID, eventType string) ([]notification.ChannelKind, error)
	// RecipientsFor returns the configured recipients in configured order.
	RecipientsFor(ctx context.Context, tenantID, eventType string) ([]notification.RecipientEntry, error)
	// SetPreferences replaces the configuration of (tenant, event type).
	SetPreferences(ctx context.Context, p Preference) error
	// ListPreferences returns every event type configured for a tenant.
	ListPreferences(ctx context.Context, tenantID string) ([]Preference, error)
}
