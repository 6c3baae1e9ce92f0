package eventbus_test

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/filenotify/internal/eventbus"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublishAndReceive(t *testing.T) {
	bus := eventbus.New(2, quietLogger())

	var (
		mu       sync.Mutex
		received []eventbus.Event
	)
	bus.Subscribe(func(e eventbus.Event) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	})

	bus.Publish("filenotify.dispatch.completed", map[string]string{"tenant_id": "t1"})
	bus.Close()

	require.Len(t, received, 1)
	assert.Equal(t, "filenotify.dispatch.completed", received[0].Type)
	assert.Equal(t, "t1", received[0].Payload["tenant_id"])
	assert.False(t, received[0].Timestamp.IsZero())
}

func TestMultipleListeners(t *testing.T) {
	bus := eventbus.New(1, quietLogger())

	var count int32
	for i := 0; i < 3; i++ {
		bus.Subscribe(func(eventbus.Event) { atomic.AddInt32(&count, 1) })
	}
	bus.Publish("multi", nil)
	bus.Close()

	assert.EqualValues(t, 3, atomic.LoadInt32(&count))
}

func TestListenerPanicIsContained(t *testing.T) {
	bus := eventbus.New(1, quietLogger())

	var after int32
	bus.Subscribe(func(eventbus.Event) { panic("bad listener") })
	bus.Subscribe(func(eventbus.Event) { atomic.AddInt32(&after, 1) })

	bus.Publish("panic", nil)
	bus.Close()

	assert.EqualValues(t, 1, atomic.LoadInt32(&after))
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	bus := eventbus.New(1, quietLogger())
	bus.Close()

	assert.NotPanics(t, func() { bus.Publish("late", nil) })
	assert.NotPanics(t, bus.Close)
}

func TestLogListener(t *testing.T) {
	var buf bytes.Buffer
	listener := eventbus.LogListener(slog.New(slog.NewJSONHandler(&buf, nil)))

	listener(eventbus.Event{Type: "filenotify.dispatch.failed", Payload: map[string]string{"file_id": "f1"}})

	assert.Contains(t, buf.String(), `"event_type":"filenotify.dispatch.failed"`)
	assert.Contains(t, buf.String(), `"file_id":"f1"`)
}

func TestCountingListener(t *testing.T) {
	reg := prometheus.NewRegistry()
	listener := eventbus.CountingListener(reg)

	listener(eventbus.Event{Type: "a"})
	listener(eventbus.Event{Type: "a"})
	listener(eventbus.Event{Type: "b"})

	count, err := testutil.GatherAndCount(reg, "filenotify_lifecycle_events_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	var total float64
	for _, m := range families[0].GetMetric() {
		total += m.GetCounter().GetValue()
	}
	assert.InDelta(t, 3, total, 0)
}
