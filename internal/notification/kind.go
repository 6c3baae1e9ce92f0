package notification

import (
	"fmt"
	"strings"
)

// ChannelKind identifies a notification delivery mechanism.
type ChannelKind int

// Supported channel kinds. Adding a kind means adding a Channel implementation
// and a case to every switch in this package.
const (
	ChannelEmail ChannelKind = iota + 1
	ChannelSMS
	ChannelHTTPWebhook
)

// ChannelKinds lists every supported kind in declaration order.
var ChannelKinds = []ChannelKind{ChannelEmail, ChannelSMS, ChannelHTTPWebhook}

// String returns the configuration name of the kind ("EMail", "SMS", "HTTPRequest").
func (k ChannelKind) String() string {
	switch k {
	case ChannelEmail:
		return "EMail"
	case ChannelSMS:
		return "SMS"
	case ChannelHTTPWebhook:
		return "HTTPRequest"
	}
	return fmt.Sprintf("ChannelKind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k ChannelKind) Valid() bool {
	return k >= ChannelEmail && k <= ChannelHTTPWebhook
}

// ParseChannelKind converts a configuration name into a ChannelKind.
// Matching is case-insensitive; "email", "sms", "webhook" and "http" are
// accepted as aliases.
func ParseChannelKind(s string) (ChannelKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "email":
		return ChannelEmail, nil
	case "sms":
		return ChannelSMS, nil
	case "httprequest", "http", "webhook":
		return ChannelHTTPWebhook, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownChannelKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k ChannelKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChannelKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ChannelKind) UnmarshalText(text []byte) error {
	parsed, err := ParseChannelKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// UploadStatus is the outcome of a file-upload job. Its string form doubles as
// the event type used to look up tenant preferences.
type UploadStatus string

// Upload outcomes.
const (
	UploadNone       UploadStatus = "None"
	UploadInitiated  UploadStatus = "Initiated"
	UploadInProgress UploadStatus = "InProgress"
	UploadSuccess    UploadStatus = "Success"
	UploadFailed     UploadStatus = "Failed"
)

// ParseUploadStatus validates s against the known upload outcomes.
func ParseUploadStatus(s string) (UploadStatus, error) {
	for _, st := range []UploadStatus{UploadNone, UploadInitiated, UploadInProgress, UploadSuccess, UploadFailed} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown upload status %q", s)
}
