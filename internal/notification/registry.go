package notification

import (
	"fmt"
	"sync"
)

// Registry owns one Channel instance per kind. Instances are built lazily from
// registered factories and reused by every dispatch. It is safe for
// concurrent use.
type Registry struct {
	mu        sync.Mutex
	factories map[ChannelKind]Factory
	channels  map[ChannelKind]Channel
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[ChannelKind]Factory),
		channels:  make(map[ChannelKind]Channel),
	}
}

// Register sets the factory for kind, replacing any previous factory and
// discarding an instance already built from it.
func (r *Registry) Register(kind ChannelKind, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = factory
	delete(r.channels, kind)
}

// Get returns the channel for kind, building it on first use.
// An unregistered kind yields ErrChannelNotRegistered.
func (r *Registry) Get(kind ChannelKind) (Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ch, ok := r.channels[kind]; ok {
		return ch, nil
	}
	factory, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotRegistered, kind)
	}
	ch, err := factory()
	if err != nil {
		return nil, fmt.Errorf("building %s channel: %w", kind, err)
	}
	r.channels[kind] = ch
	return ch, nil
}

// Kinds returns the registered kinds in declaration order.
func (r *Registry) Kinds() []ChannelKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ChannelKind
	for _, k := range ChannelKinds {
		if _, ok := r.factories[k]; ok {
			out = append(out, k)
		}
	}
	return out
}
