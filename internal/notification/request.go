// Package notification defines the file-upload notification model, the
// Channel capability with its e-mail, SMS and webhook implementations, and the
// registry that owns channel instances for the lifetime of the process.
package notification

import (
	"errors"
	"fmt"
	"strings"
)

// RecipientEntry is one destination address on one channel.
type RecipientEntry struct {
	Channel ChannelKind `json:"channel" yaml:"channel"`
	Address string      `json:"address" yaml:"address"`
}

// Request describes one completed upload to notify a tenant about.
// It is treated as immutable once handed to a dispatcher.
type Request struct {
	TenantID      string           `json:"tenant_id"`
	FileID        string           `json:"file_id"`
	FileName      string           `json:"file_name"`
	FileSizeBytes int64            `json:"file_size_bytes"`
	FileURI       string           `json:"file_uri"`
	UploadStatus  UploadStatus     `json:"upload_status"`
	Recipients    []RecipientEntry `json:"recipients"`
}

// FileSizeKB returns the file size in whole kilobytes.
func (r Request) FileSizeKB() int64 {
	return r.FileSizeBytes / 1024
}

// RecipientsFor returns the recipients addressed on the given channel, in order.
func (r Request) RecipientsFor(kind ChannelKind) []RecipientEntry {
	var out []RecipientEntry
	for _, rcpt := range r.Recipients {
		if rcpt.Channel == kind {
			out = append(out, rcpt)
		}
	}
	return out
}

// Addresses returns the addresses of the recipients on the given channel.
func (r Request) Addresses(kind ChannelKind) []string {
	rcpts := r.RecipientsFor(kind)
	out := make([]string, 0, len(rcpts))
	for _, rcpt := range rcpts {
		out = append(out, rcpt.Address)
	}
	return out
}

// Channels returns the distinct channels present in Recipients, in order of
// first appearance.
func (r Request) Channels() []ChannelKind {
	seen := make(map[ChannelKind]bool, len(ChannelKinds))
	var out []ChannelKind
	for _, rcpt := range r.Recipients {
		if seen[rcpt.Channel] {
			continue
		}
		seen[rcpt.Channel] = true
		out = append(out, rcpt.Channel)
	}
	return out
}

// Validate checks the fields a dispatcher relies on. Identifier format is
// checked separately by the resolver and the recorder.
func (r Request) Validate() error {
	var errs []error
	if strings.TrimSpace(r.TenantID) == "" {
		errs = append(errs, errors.New("tenant_id is required"))
	}
	if strings.TrimSpace(r.FileID) == "" {
		errs = append(errs, errors.New("file_id is required"))
	}
	if r.UploadStatus == "" {
		errs = append(errs, errors.New("upload_status is required"))
	}
	for i, rcpt := range r.Recipients {
		if !rcpt.Channel.Valid() {
			errs = append(errs, fmt.Errorf("recipients[%d]: %w", i, ErrUnknownChannelKind))
		}
		if strings.TrimSpace(rcpt.Address) == "" {
			errs = append(errs, fmt.Errorf("recipients[%d]: address is required", i))
		}
	}
	return errors.Join(errs...)
}

// OutcomeStatus is the result of one channel send.
type OutcomeStatus string

// Outcome statuses.
const (
	Delivered OutcomeStatus = "delivered"
	Failed    OutcomeStatus = "failed"
)

// Outcome is the result of one channel partition of a dispatch: the send
// status plus whether the audit and status writes succeeded.
type Outcome struct {
	Channel      ChannelKind   `json:"channel"`
	Status       OutcomeStatus `json:"status"`
	Reason       string        `json:"reason,omitempty"`
	Persisted    bool          `json:"persisted"`
	PersistError string        `json:"persist_error,omitempty"`
}

// Report aggregates the outcomes of one dispatch.
type Report struct {
	TenantID string    `json:"tenant_id"`
	FileID   string    `json:"file_id"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome returns the outcome recorded for kind, if any.
func (r Report) Outcome(kind ChannelKind) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Channel == kind {
			return o, true
		}
	}
	return Outcome{}, false
}

// Delivered returns the number of channels that delivered.
func (r Report) Delivered() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == Delivered {
			n++
		}
	}
	return n
}

// Failed returns the number of channels that failed to deliver.
func (r Report) Failed() int {
	return len(r.Outcomes) - r.Delivered()
}
