package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/filenotify/internal/notification"
)

const samplePreferences = `
preferences:
  - tenant_id: 6f1c1f0e-0d2b-4bb4-9a53-0e4f6f0b7a11
    event_type: Success
    recipients:
      - channel: EMail
        address: ops@example.com
      - channel: SMS
        address: "+1 555 010 2000"
  - tenant_id: 6f1c1f0e-0d2b-4bb4-9a53-0e4f6f0b7a11
    event_type: Failed
    recipients:
      - channel: HTTPRequest
`

func TestLoadPreferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(samplePreferences), 0600))

	prefs, err := LoadPreferences(path)
	require.NoError(t, err)
	require.Len(t, prefs, 2)

	assert.Equal(t, "Success", prefs[0].EventType)
	require.Len(t, prefs[0].Recipients, 2)
	assert.Equal(t, notification.ChannelEmail, prefs[0].Recipients[0].Channel)
	assert.Equal(t, notification.ChannelSMS, prefs[0].Recipients[1].Channel)
	assert.Equal(t, notification.ChannelHTTPWebhook, prefs[1].Recipients[0].Channel)
	assert.Empty(t, prefs[1].Recipients[0].Address)
}

func TestParsePreferences_UnknownChannel(t *testing.T) {
	_, err := ParsePreferences([]byte(`
preferences:
  - tenant_id: t
    event_type: Success
    recipients:
      - channel: Pager
        address: x
`))
	require.Error(t, err)
}

func TestParsePreferences_MissingFields(t *testing.T) {
	_, err := ParsePreferences([]byte("preferences:\n  - event_type: Success\n"))
	assert.ErrorContains(t, err, "tenant_id")

	_, err = ParsePreferences([]byte("preferences:\n  - tenant_id: t\n"))
	assert.ErrorContains(t, err, "event_type")
}

func TestLoadPreferences_MissingFile(t *testing.T) {
	_, err := LoadPreferences(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
