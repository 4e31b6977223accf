package mail

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNoRecipients is returned when To is empty.
	ErrNoRecipients = errors.New("mail: no recipients provided")
	// ErrNoSender is returned when both Message.From and the configured default are empty.
	ErrNoSender = errors.New("mail: no sender provided")
)

// Message is a provider-agnostic email.
type Message struct {
	// From overrides the provider's default sender.
	From     string
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mail delivers a Message.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}

func (m Message) sender(fallback string) (string, error) {
	if len(m.To) == 0 {
		return "", ErrNoRecipients
	}
	if m.From != "" {
		return m.From, nil
	}
	if fallback == "" {
		return "", ErrNoSender
	}
	return fallback, nil
}
