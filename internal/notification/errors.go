package notification

import "errors"

var (
	// ErrUnknownChannelKind is returned when text does not name a channel kind.
	ErrUnknownChannelKind = errors.New("unknown channel kind")

	// ErrChannelNotRegistered is returned by Registry.Get for a kind with no factory.
	ErrChannelNotRegistered = errors.New("channel not registered")

	// ErrNoRecipients is returned by a channel asked to send a request that has
	// no recipients of its kind.
	ErrNoRecipients = errors.New("no recipients for channel")
)
