package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type recordingMailSender struct {
	calls int
	msgs  []*mail.Msg
	err   error
}

func (s *recordingMailSender) DialAndSendWithContext(_ context.Context, msgs ...*mail.Msg) error {
	s.calls++
	s.msgs = append(s.msgs, msgs...)
	return s.err
}

func emailRequest(addrs ...string) Request {
	req := Request{
		TenantID:      "6f1c1f0e-0d2b-4bb4-9a53-0e4f6f0b7a11",
		FileID:        "b0e7a3b4-3c1d-4d62-8f0c-5a3b0a9d2c44",
		FileName:      "invoices.zip",
		FileSizeBytes: 10 * 1024,
		UploadStatus:  UploadSuccess,
	}
	for _, a := range addrs {
		req.Recipients = append(req.Recipients, RecipientEntry{Channel: ChannelEmail, Address: a})
	}
	req.Recipients = append(req.Recipients, RecipientEntry{Channel: ChannelSMS, Address: "5550100"})
	return req
}

func TestEmailChannel_SingleCallForAllRecipients(t *testing.T) {
	sender := &recordingMailSender{}
	ch := NewEmailChannel(SMTPConfig{FromAddr: "noreply@example.com"}, WithMailSender(sender))

	require.NoError(t, ch.Send(context.Background(), emailRequest("a@example.com", "b@example.com")))

	assert.Equal(t, 1, sender.calls)
	require.Len(t, sender.msgs, 1)
	to := sender.msgs[0].GetTo()
	require.Len(t, to, 2)
	assert.Equal(t, "a@example.com", to[0].Address)
	assert.Equal(t, "b@example.com", to[1].Address)
	assert.Equal(t, []string{MailSubject}, sender.msgs[0].GetGenHeader(mail.HeaderSubject))
}

func TestEmailChannel_TransportError(t *testing.T) {
	sender := &recordingMailSender{err: errors.New("connection refused")}
	ch := NewEmailChannel(SMTPConfig{}, WithMailSender(sender))

	err := ch.Send(context.Background(), emailRequest("a@example.com"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestEmailChannel_InvalidAddress(t *testing.T) {
	sender := &recordingMailSender{}
	ch := NewEmailChannel(SMTPConfig{}, WithMailSender(sender))

	err := ch.Send(context.Background(), emailRequest("not an address"))
	require.Error(t, err)
	assert.Zero(t, sender.calls)
}

func TestEmailChannel_NoRecipients(t *testing.T) {
	ch := NewEmailChannel(SMTPConfig{}, WithMailSender(&recordingMailSender{}))
	err := ch.Send(context.Background(), emailRequest())
	assert.ErrorIs(t, err, ErrNoRecipients)
}

func TestEmailChannel_UnconfiguredRelay(t *testing.T) {
	ch := NewEmailChannel(SMTPConfig{})
	err := ch.Send(context.Background(), emailRequest("a@example.com"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp host is not configured")
}

func TestEmailBody_UsesFirstRequestOnly(t *testing.T) {
	first := emailRequest()
	second := emailRequest()
	second.FileName = "other.csv"

	body := emailBody(first, second)
	assert.Equal(t,
		" -File Name : invoices.zip\n -FileSize : 10 KB \n -File Upload Status : Success\n",
		body)
	assert.NotContains(t, body, "other.csv")
	assert.Empty(t, emailBody())
}

func TestTLSPolicyFromEncryption(t *testing.T) {
	assert.Equal(t, mail.TLSMandatory, tlsPolicyFromEncryption(""))
	assert.Equal(t, mail.TLSMandatory, tlsPolicyFromEncryption("ssl_tls"))
	assert.Equal(t, mail.TLSOpportunistic, tlsPolicyFromEncryption("starttls"))
	assert.Equal(t, mail.NoTLS, tlsPolicyFromEncryption("none"))
}
