package notification

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSBody is the text of every upload-status SMS.
const SMSBody = "[DataHub] - File upload status notification."

var phoneFormatting = regexp.MustCompile(`[()\s\-.,]+`)

// NormalizePhone strips parentheses, whitespace, dashes, dots and commas from a
// phone number.
func NormalizePhone(number string) string {
	return phoneFormatting.ReplaceAllString(number, "")
}

// SMSSender is the carrier transport used by SMSChannel.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// TwilioConfig holds the carrier account used by TwilioSender.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// TwilioSender sends SMS through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender creates a TwilioSender. The REST client is shared by all sends.
func NewTwilioSender(cfg TwilioConfig) (*TwilioSender, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, errors.New("twilio account sid and auth token are required")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSender{client: client, from: cfg.FromNumber}, nil
}

// SendSMS creates one outbound message. The Twilio client has no context
// support, so ctx is only checked before the call.
func (s *TwilioSender) SendSMS(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)
	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	return nil
}

// SMSChannel sends one SMS per SMS recipient of a request.
type SMSChannel struct {
	sender SMSSender
}

// NewSMSChannel creates an SMSChannel on top of sender.
func NewSMSChannel(sender SMSSender) *SMSChannel {
	return &SMSChannel{sender: sender}
}

// Kind returns ChannelSMS.
func (c *SMSChannel) Kind() ChannelKind { return ChannelSMS }

// Send texts every SMS recipient. Every recipient is attempted; the returned
// error joins the failures.
func (c *SMSChannel) Send(ctx context.Context, req Request) error {
	addrs := req.Addresses(ChannelSMS)
	if len(addrs) == 0 {
		return ErrNoRecipients
	}

	var errs []error
	for _, a := range addrs {
		to := NormalizePhone(a)
		if to == "" {
			errs = append(errs, fmt.Errorf("invalid phone number %q", a))
			continue
		}
		if err := c.sender.SendSMS(ctx, to, SMSBody); err != nil {
			errs = append(errs, fmt.Errorf("sms to %s: %w", to, err))
		}
	}
	return errors.Join(errs...)
}
