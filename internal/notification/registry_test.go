package notification_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/filenotify/internal/notification"
)

type nopChannel struct{ kind notification.ChannelKind }

func (c nopChannel) Kind() notification.ChannelKind                     { return c.kind }
func (c nopChannel) Send(_ context.Context, _ notification.Request) error { return nil }

func TestRegistry_BuildsOnce(t *testing.T) {
	reg := notification.NewRegistry()
	var builds int32
	reg.Register(notification.ChannelSMS, func() (notification.Channel, error) {
		atomic.AddInt32(&builds, 1)
		return nopChannel{kind: notification.ChannelSMS}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch, err := reg.Get(notification.ChannelSMS)
			assert.NoError(t, err)
			assert.Equal(t, notification.ChannelSMS, ch.Kind())
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&builds))
}

func TestRegistry_UnknownKindFailsFast(t *testing.T) {
	reg := notification.NewRegistry()
	_, err := reg.Get(notification.ChannelHTTPWebhook)
	require.ErrorIs(t, err, notification.ErrChannelNotRegistered)
}

func TestRegistry_FactoryErrorIsNotCached(t *testing.T) {
	reg := notification.NewRegistry()
	fail := true
	reg.Register(notification.ChannelEmail, func() (notification.Channel, error) {
		if fail {
			return nil, errors.New("no relay")
		}
		return nopChannel{kind: notification.ChannelEmail}, nil
	})

	_, err := reg.Get(notification.ChannelEmail)
	require.Error(t, err)

	fail = false
	ch, err := reg.Get(notification.ChannelEmail)
	require.NoError(t, err)
	assert.Equal(t, notification.ChannelEmail, ch.Kind())
	assert.Equal(t, []notification.ChannelKind{notification.ChannelEmail}, reg.Kinds())
}
