package notification

import "context"

// Channel is the interface for notification delivery backends.
type Channel interface {
	// Kind returns the channel this implementation delivers on.
	Kind() ChannelKind
	// Send delivers req to every recipient of the channel's kind. A nil error
	// means delivered. Implementations never write to storage.
	Send(ctx context.Context, req Request) error
}

// Factory builds a Channel. A Registry calls it at most once per kind.
type Factory func() (Channel, error)
