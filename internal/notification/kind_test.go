package notification_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/filenotify/internal/notification"
)

func TestParseChannelKind(t *testing.T) {
	tests := []struct {
		in   string
		want notification.ChannelKind
	}{
		{"EMail", notification.ChannelEmail},
		{"email", notification.ChannelEmail},
		{" SMS ", notification.ChannelSMS},
		{"HTTPRequest", notification.ChannelHTTPWebhook},
		{"webhook", notification.ChannelHTTPWebhook},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := notification.ParseChannelKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChannelKind_Unknown(t *testing.T) {
	_, err := notification.ParseChannelKind("pigeon")
	require.ErrorIs(t, err, notification.ErrUnknownChannelKind)
}

func TestChannelKind_JSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(notification.RecipientEntry{Channel: notification.ChannelSMS, Address: "+1 555"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"channel":"SMS","address":"+1 555"}`, string(b))

	var got notification.RecipientEntry
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, notification.ChannelSMS, got.Channel)

	_, err = json.Marshal(notification.ChannelKind(42))
	assert.Error(t, err)
}

func TestParseUploadStatus(t *testing.T) {
	st, err := notification.ParseUploadStatus("success")
	require.NoError(t, err)
	assert.Equal(t, notification.UploadSuccess, st)

	_, err = notification.ParseUploadStatus("Exploded")
	assert.Error(t, err)
}
