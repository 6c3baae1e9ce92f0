package consumer

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/filenotify/internal/storage"
	"github.com/shaharia-lab/filenotify/internal/storage/mocks"
)

func TestPollingConfig_NextInterval(t *testing.T) {
	p := DefaultPollingConfig()
	cases := []struct {
		idle int
		want time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 10 * time.Second},
		{20, 10 * time.Second},
		{-1, time.Second},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, p.NextInterval(tc.idle), "idle=%d", tc.idle)
	}
}

func TestPollingConfig_MinBound(t *testing.T) {
	p := PollingConfig{Interval: 100 * time.Millisecond, Min: time.Second, Max: 5 * time.Second, Exponent: 2}
	assert.Equal(t, time.Second, p.NextInterval(0))
	assert.Equal(t, 1600*time.Millisecond, p.NextInterval(4))
}

func TestPollingConfig_UnboundedSaturates(t *testing.T) {
	p := PollingConfig{Interval: time.Second, Max: 0, Exponent: 2}
	assert.Equal(t, 8*time.Second, p.NextInterval(3))
	for _, idle := range []int{34, 62, 1000} {
		assert.Equal(t, time.Duration(math.MaxInt64), p.NextInterval(idle), "idle=%d", idle)
	}
}

func TestPollingConfig_WithDefaults(t *testing.T) {
	assert.Equal(t, DefaultPollingConfig(), PollingConfig{}.withDefaults())

	got := PollingConfig{Min: 2 * time.Second, Max: 30 * time.Second, Exponent: 3}.withDefaults()
	assert.Equal(t, PollingConfig{Interval: time.Second, Min: 2 * time.Second, Max: 30 * time.Second, Exponent: 3}, got)

	got = PollingConfig{Interval: 5 * time.Second}.withDefaults()
	assert.Equal(t, 5*time.Second, got.Interval)
	assert.Equal(t, time.Duration(0), got.Max)
	assert.InDelta(t, 2.0, got.Exponent, 0)
}

func TestNew_KeepsConfiguredPollingBounds(t *testing.T) {
	c, err := New(Config{
		Queue:   &mocks.MockUploadQueue{},
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Polling: PollingConfig{Max: 45 * time.Second, Exponent: 1.5},
	})
	require.NoError(t, err)
	assert.Equal(t, time.Second, c.cfg.Polling.Interval)
	assert.Equal(t, 45*time.Second, c.cfg.Polling.Max)
	assert.InDelta(t, 1.5, c.cfg.Polling.Exponent, 0)
}

func TestTick_IdleCounterIsBounded(t *testing.T) {
	queue := &mocks.MockUploadQueue{}
	queue.On("Receive", mock.Anything, defaultBatchSize, defaultVisibility).
		Return([]storage.QueuedEvent{}, nil)

	c, err := New(Config{
		Queue:   queue,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Polling: PollingConfig{Interval: time.Second, Exponent: 2},
	})
	require.NoError(t, err)
	c.ctx = context.Background()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }
	for i := 0; i < 100; i++ {
		c.nextPoll = time.Time{}
		c.tick()
	}
	assert.Equal(t, maxIdleSteps, c.idle)
	assert.True(t, c.nextPoll.After(clock))
}

func TestTick_BacksOffWhenIdle(t *testing.T) {
	queue := &mocks.MockUploadQueue{}
	queue.On("Receive", mock.Anything, defaultBatchSize, defaultVisibility).
		Return([]storage.QueuedEvent{}, nil)

	c, err := New(Config{
		Queue:  queue,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	c.ctx = context.Background()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	c.tick()
	queue.AssertNumberOfCalls(t, "Receive", 1)

	// Within the 1s backoff window: skipped.
	clock = clock.Add(500 * time.Millisecond)
	c.tick()
	queue.AssertNumberOfCalls(t, "Receive", 1)

	clock = clock.Add(time.Second)
	c.tick()
	queue.AssertNumberOfCalls(t, "Receive", 2)
	assert.Equal(t, 2, c.idle)
	assert.Equal(t, clock.Add(2*time.Second), c.nextPoll)
}
