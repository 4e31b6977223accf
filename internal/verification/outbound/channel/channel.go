// Package channel delivers verification codes through the configured media.
package channel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"github.com/shandysiswandi/goverify/internal/verification/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	// ErrChannelUnsupported is returned when no sender is registered for a channel.
	ErrChannelUnsupported = errors.New("channel: unsupported channel")

	// ErrDelivery wraps a provider failure.
	ErrDelivery = errors.New("channel: delivery failed")
)

const defaultTimeout = 10 * time.Second

// Sender delivers one code to one address.
type Sender interface {
	Send(ctx context.Context, address, code string) error
}

// Dispatcher routes a code to the sender registered for its channel.
// It never retries; a failed send is reported to the caller.
type Dispatcher struct {
	senders map[entity.Channel]Sender
	ins     instrument.Instrumentation
}

func NewDispatcher(ins instrument.Instrumentation) *Dispatcher {
	return &Dispatcher{senders: make(map[entity.Channel]Sender), ins: ins}
}

// Register binds s to ch, replacing any previous sender. It is not safe to
// call once the dispatcher is serving requests.
func (d *Dispatcher) Register(ch entity.Channel, s Sender) {
	d.senders[ch] = s
}

// Supports reports whether a sender is registered for ch.
func (d *Dispatcher) Supports(ch entity.Channel) bool {
	_, ok := d.senders[ch]
	return ok
}

func (d *Dispatcher) Send(ctx context.Context, address, code string, ch entity.Channel) error {
	s, ok := d.senders[ch]
	if !ok {
		return fmt.Errorf("%w: %s", ErrChannelUnsupported, ch)
	}

	ctx, span := d.ins.Tracer("verification.outbound.channel").Start(ctx, "Send")
	defer span.End()
	span.SetAttributes(attribute.String("channel", ch.String()))

	if err := s.Send(ctx, address, code); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: %s: %w", ErrDelivery, ch, err)
	}

	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(ctx, d)
}

// expiryMinutes rounds ttl up to whole minutes, never below one.
func expiryMinutes(ttl time.Duration) int {
	return max(1, int((ttl+time.Minute-1)/time.Minute))
}
