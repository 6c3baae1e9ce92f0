package eventbus

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Event is one lifecycle notification published on the bus.
type Event struct {
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   map[string]string `json:"payload"`
}

// Listener handles an event.
type Listener func(Event)

// LogListener writes every event to logger at info level.
func LogListener(logger *slog.Logger) Listener {
	return func(e Event) {
		attrs := make([]any, 0, 2+2*len(e.Payload))
		attrs = append(attrs, "event_type", e.Type)
		for k, v := range e.Payload {
			attrs = append(attrs, k, v)
		}
		logger.Info("lifecycle event", attrs...)
	}
}

// CountingListener counts events by type on a counter registered on reg.
func CountingListener(reg prometheus.Registerer) Listener {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "filenotify",
		Name:      "lifecycle_events_total",
		Help:      "Lifecycle events published on the event bus, by type.",
	}, []string{"type"})
	if reg != nil {
		reg.MustRegister(events)
	}
	return func(e Event) {
		events.WithLabelValues(e.Type).Inc()
	}
}
