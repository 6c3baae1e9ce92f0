package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/filenotify/internal/notification"
)

type fakeSMS struct {
	sent []string
	fail map[string]error
}

func (f *fakeSMS) SendSMS(_ context.Context, to, body string) error {
	if err := f.fail[to]; err != nil {
		return err
	}
	f.sent = append(f.sent, to+"|"+body)
	return nil
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+15550100000", notification.NormalizePhone("+1 (555) 010-0000"))
	assert.Equal(t, "5550100", notification.NormalizePhone("555.01,00"))
}

func TestSMSChannel_OneCallPerRecipient(t *testing.T) {
	sender := &fakeSMS{}
	ch := notification.NewSMSChannel(sender)
	req := notification.Request{Recipients: []notification.RecipientEntry{
		{Channel: notification.ChannelSMS, Address: "(555) 010-0000"},
		{Channel: notification.ChannelEmail, Address: "ops@example.com"},
		{Channel: notification.ChannelSMS, Address: "555 020 0000"},
	}}

	require.NoError(t, ch.Send(context.Background(), req))
	assert.Equal(t, []string{
		"5550100000|" + notification.SMSBody,
		"5550200000|" + notification.SMSBody,
	}, sender.sent)
}

func TestSMSChannel_FailureStillAttemptsOthers(t *testing.T) {
	sender := &fakeSMS{fail: map[string]error{"5550100000": errors.New("carrier down")}}
	ch := notification.NewSMSChannel(sender)
	req := notification.Request{Recipients: []notification.RecipientEntry{
		{Channel: notification.ChannelSMS, Address: "555-010-0000"},
		{Channel: notification.ChannelSMS, Address: "555-020-0000"},
	}}

	err := ch.Send(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier down")
	assert.Len(t, sender.sent, 1)
}

func TestSMSChannel_NoRecipients(t *testing.T) {
	ch := notification.NewSMSChannel(&fakeSMS{})
	assert.ErrorIs(t, ch.Send(context.Background(), notification.Request{}), notification.ErrNoRecipients)
}

func TestNewTwilioSender_RequiresCredentials(t *testing.T) {
	_, err := notification.NewTwilioSender(notification.TwilioConfig{})
	assert.Error(t, err)

	s, err := notification.NewTwilioSender(notification.TwilioConfig{AccountSID: "AC123", AuthToken: "tok"})
	require.NoError(t, err)
	assert.NotNil(t, s)
}
