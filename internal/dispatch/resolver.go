package dispatch

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shaharia-lab/filenotify/internal/notification"
	"github.com/shaharia-lab/filenotify/internal/storage"
)

// Resolver maps a tenant and event type to the channels to notify on, and
// hands out channel instances from the shared registry.
type Resolver struct {
	prefs    storage.PreferenceStore
	registry *notification.Registry
	logger   *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(prefs storage.PreferenceStore, registry *notification.Registry, logger *slog.Logger) *Resolver {
	return &Resolver{prefs: prefs, registry: registry, logger: logger}
}

// ResolveChannels returns the ordered channels configured for (tenantID,
// eventType). The all-zero tenant resolves to no channels without a lookup,
// and a failed lookup is logged and also resolves to no channels. Only a
// tenant id that is not a UUID is returned as an error.
func (r *Resolver) ResolveChannels(ctx context.Context, tenantID, eventType string) ([]notification.ChannelKind, error) {
	id, err := parseID("tenant_id", tenantID)
	if err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		return nil, nil
	}

	kinds, err := r.prefs.ChannelsFor(ctx, tenantID, eventType)
	if err != nil {
		r.logger.Error("resolving tenant channels failed",
			"tenant_id", tenantID, "event_type", eventType, "error", err)
		return nil, nil
	}
	return kinds, nil
}

// Channel returns the shared instance for kind. An unregistered kind is an
// error.
func (r *Resolver) Channel(kind notification.ChannelKind) (notification.Channel, error) {
	return r.registry.Get(kind)
}
