package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// WebhookPath is appended to the configured base URL to form the endpoint.
const WebhookPath = "Notification/InitiateHTTPRequest"

// webhookPayload is the JSON body posted for each webhook recipient.
type webhookPayload struct {
	FileID  string `json:"FileId"`
	FileURL string `json:"FileUrl"`
}

// WebhookChannel POSTs the processed file's id and URL to a fixed endpoint.
type WebhookChannel struct {
	endpoint string
	client   *http.Client
}

// NewWebhookChannel creates a WebhookChannel posting to baseURL + WebhookPath.
// A nil client gets a 10 second timeout client.
func NewWebhookChannel(baseURL string, client *http.Client) (*WebhookChannel, error) {
	if baseURL == "" {
		return nil, errors.New("webhook base url is not configured")
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookChannel{endpoint: WebhookEndpoint(baseURL), client: client}, nil
}

// WebhookEndpoint joins baseURL and WebhookPath.
func WebhookEndpoint(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/" + WebhookPath
}

// Endpoint returns the URL the channel posts to.
func (c *WebhookChannel) Endpoint() string { return c.endpoint }

// Kind returns ChannelHTTPWebhook.
func (c *WebhookChannel) Kind() ChannelKind { return ChannelHTTPWebhook }

// Send issues one POST per webhook recipient.
func (c *WebhookChannel) Send(ctx context.Context, req Request) error {
	rcpts := req.RecipientsFor(ChannelHTTPWebhook)
	if len(rcpts) == 0 {
		return ErrNoRecipients
	}

	body, err := webhookBody(req)
	if err != nil {
		return err
	}

	var errs []error
	for range rcpts {
		if err := c.post(ctx, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// webhookBody serializes the payload and replaces every backslash with a dash,
// which receivers of this endpoint expect.
func webhookBody(req Request) ([]byte, error) {
	b, err := json.Marshal(webhookPayload{FileID: req.FileID, FileURL: req.FileURI})
	if err != nil {
		return nil, fmt.Errorf("encoding webhook payload: %w", err)
	}
	return bytes.ReplaceAll(b, []byte(`\`), []byte("-")), nil
}

func (c *WebhookChannel) post(ctx context.Context, body []byte) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "text/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
