package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shaharia-lab/filenotify/internal/notification"
)

// Metrics holds the dispatch collectors. A nil *Metrics records nothing.
type Metrics struct {
	dispatches      prometheus.Counter
	sends           *prometheus.CounterVec
	sendDuration    *prometheus.HistogramVec
	persistFailures *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg when reg is not
// nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dispatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "filenotify",
			Name:      "dispatches_total",
			Help:      "Dispatch requests handled by the coordinator.",
		}),
		sends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "filenotify",
			Name:      "channel_sends_total",
			Help:      "Channel partitions sent, by channel and outcome.",
		}, []string{"channel", "status"}),
		sendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "filenotify",
			Name:      "channel_send_duration_seconds",
			Help:      "Time spent in a channel send.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"channel"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "filenotify",
			Name:      "persist_failures_total",
			Help:      "Partitions whose outcome could not be fully persisted.",
		}, []string{"channel"}),
	}
	if reg != nil {
		reg.MustRegister(m.dispatches, m.sends, m.sendDuration, m.persistFailures)
	}
	return m
}

func (m *Metrics) observeDispatch() {
	if m == nil {
		return
	}
	m.dispatches.Inc()
}

func (m *Metrics) observeSend(kind notification.ChannelKind, status notification.OutcomeStatus, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.sends.WithLabelValues(kind.String(), string(status)).Inc()
	m.sendDuration.WithLabelValues(kind.String()).Observe(elapsed.Seconds())
}

func (m *Metrics) observePersistFailure(kind notification.ChannelKind) {
	if m == nil {
		return
	}
	m.persistFailures.WithLabelValues(kind.String()).Inc()
}
