package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
)

// MailSubject is the subject of every upload-status e-mail.
const MailSubject = "[DataHub] - File upload status notification."

// SMTPConfig holds connection parameters for the mail relay.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	FromAddr   string
	Encryption string // "none", "starttls", "ssl_tls" (default)
}

// MailSender delivers prepared messages. *mail.Client satisfies it.
type MailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailChannel sends one multi-recipient message per request through an
// authenticated SMTP relay using the go-mail library.
type EmailChannel struct {
	config    SMTPConfig
	newSender func() (MailSender, error)
}

// EmailOption customizes an EmailChannel.
type EmailOption func(*EmailChannel)

// WithMailSender makes the channel hand messages to s instead of dialing the
// configured relay.
func WithMailSender(s MailSender) EmailOption {
	return func(c *EmailChannel) {
		c.newSender = func() (MailSender, error) { return s, nil }
	}
}

// NewEmailChannel creates an EmailChannel for the given relay.
func NewEmailChannel(config SMTPConfig, opts ...EmailOption) *EmailChannel {
	c := &EmailChannel{config: config}
	c.newSender = c.dialer
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Kind returns ChannelEmail.
func (c *EmailChannel) Kind() ChannelKind { return ChannelEmail }

// Send builds one message addressed to every e-mail recipient of req and
// hands it to the relay in a single call.
func (c *EmailChannel) Send(ctx context.Context, req Request) error {
	m, err := c.buildMessage(req)
	if err != nil {
		return err
	}

	sender, err := c.newSender()
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	if err := sender.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

func (c *EmailChannel) buildMessage(req Request) (*mail.Msg, error) {
	addrs := req.Addresses(ChannelEmail)
	if len(addrs) == 0 {
		return nil, ErrNoRecipients
	}

	m := mail.NewMsg()
	if c.config.FromAddr != "" {
		if err := m.From(c.config.FromAddr); err != nil {
			return nil, fmt.Errorf("invalid from address: %w", err)
		}
	}
	for _, a := range addrs {
		if err := m.AddTo(strings.TrimSpace(a)); err != nil {
			return nil, fmt.Errorf("invalid recipient %q: %w", a, err)
		}
	}

	m.Subject(MailSubject)
	m.SetBodyString(mail.TypeTextPlain, emailBody(req))
	return m, nil
}

func (c *EmailChannel) dialer() (MailSender, error) {
	if c.config.Host == "" {
		return nil, errors.New("smtp host is not configured")
	}
	return mail.NewClient(c.config.Host,
		mail.WithPort(c.config.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.config.Username),
		mail.WithPassword(c.config.Password),
		mail.WithTLSPolicy(tlsPolicyFromEncryption(c.config.Encryption)),
	)
}

// emailBody renders the three-line summary. Only the first request of a
// batch contributes; later files in a mixed batch are not described.
func emailBody(batch ...Request) string {
	if len(batch) == 0 {
		return ""
	}
	first := batch[0]
	var b strings.Builder
	fmt.Fprintf(&b, " -File Name : %s\n", first.FileName)
	fmt.Fprintf(&b, " -FileSize : %d KB \n", first.FileSizeKB())
	fmt.Fprintf(&b, " -File Upload Status : %s\n", first.UploadStatus)
	return b.String()
}

// tlsPolicyFromEncryption converts the encryption string to a go-mail TLSPolicy.
func tlsPolicyFromEncryption(enc string) mail.TLSPolicy {
	switch enc {
	case "none":
		return mail.NoTLS
	case "starttls":
		return mail.TLSOpportunistic
	default:
		return mail.TLSMandatory
	}
}
