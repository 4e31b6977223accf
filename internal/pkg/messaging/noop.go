package messaging

import (
	"context"
	"time"

	"go.uber.org/atomic"
)

// Noop accepts and drops every message.
type Noop struct {
	published atomic.Int64
}

// NewNoop returns a Noop publisher.
func NewNoop() *Noop {
	return &Noop{}
}

// Publish validates msg and discards it.
func (n *Noop) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := validate(ctx, destination, msg); err != nil {
		return PublishResult{}, err
	}
	n.published.Inc()
	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}

// Published returns how many messages were accepted.
func (n *Noop) Published() int64 {
	return n.published.Load()
}

func (*Noop) Close() error { return nil }
