// Package eventbus carries dispatch lifecycle events from the queue consumer
// to in-process listeners. Events go through a buffered channel and are
// handled by a small worker pool.
package eventbus

import (
	"log/slog"
	"sync"
	"time"
)

const (
	defaultWorkers    = 2
	defaultBufferSize = 256
)

// Bus publishes events to every subscribed listener.
type Bus interface {
	// Publish enqueues an event. It never blocks: when the buffer is full the
	// event is dropped and a warning is logged.
	Publish(eventType string, payload map[string]string)

	// Subscribe registers a listener for every later event. Call it before
	// the first Publish.
	Subscribe(listener Listener)

	// Close stops accepting events and waits until pending ones are handled.
	Close()
}

type inMemoryBus struct {
	ch        chan Event
	listeners []Listener
	mu        sync.RWMutex
	wg        sync.WaitGroup
	closeOnce sync.Once
	closed    chan struct{}
	logger    *slog.Logger
}

// New creates an in-memory Bus. workers <= 0 uses 2.
func New(workers int, logger *slog.Logger) Bus {
	if workers <= 0 {
		workers = defaultWorkers
	}
	b := &inMemoryBus{
		ch:     make(chan Event, defaultBufferSize),
		closed: make(chan struct{}),
		logger: logger,
	}
	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			for e := range b.ch {
				b.deliver(e)
			}
		}()
	}
	return b
}

// deliver calls every listener, recovering from a listener panic so the
// others still run.
func (b *inMemoryBus) deliver(e Event) {
	b.mu.RLock()
	listeners := make([]Listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("event listener panicked", "event_type", e.Type, "panic", r)
				}
			}()
			l(e)
		}()
	}
}

func (b *inMemoryBus) Publish(eventType string, payload map[string]string) {
	select {
	case <-b.closed:
		b.logger.Warn("event bus closed, dropping event", "event_type", eventType)
		return
	default:
	}

	e := Event{Type: eventType, Timestamp: time.Now(), Payload: payload}
	select {
	case b.ch <- e:
	default:
		b.logger.Warn("event bus buffer full, dropping event", "event_type", eventType)
	}
}

func (b *inMemoryBus) Subscribe(listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, listener)
}

func (b *inMemoryBus) Close() {
	b.closeOnce.Do(func() {
		close(b.closed)
		close(b.ch)
	})
	b.wg.Wait()
}
