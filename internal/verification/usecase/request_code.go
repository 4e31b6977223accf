package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
	"github.com/shandysiswandi/goverify/internal/verification/entity"
)

type RequestCodeInput struct {
	Identifier string `validate:"required,identifier"`
	// Channel may be left unknown; it is then inferred from the identifier.
	Channel entity.Channel
}

// RequestCode issues a fresh code for the identifier and delivers it.
//
// The cooldown is reserved before anything else happens. A delivery failure
// leaves the stored challenge in place and the cooldown consumed.
func (s *Usecase) RequestCode(ctx context.Context, in RequestCodeInput) error {
	ctx, span := s.startSpan(ctx, "RequestCode")
	defer span.End()

	in.Identifier = entity.NormalizeIdentifier(in.Identifier)
	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	ch, err := s.resolveChannel(in.Identifier, in.Channel)
	if err != nil {
		return err
	}

	ok, err := s.limiter.TryReserve(ctx, in.Identifier)
	if err != nil {
		slog.ErrorContext(ctx, "failed to reserve send cooldown", "identifier", in.Identifier, "error", err)
		s.countRequest(ctx, ch, "error")
		return goerror.NewServer(err)
	}
	if !ok {
		slog.WarnContext(ctx, "verification code requested within cooldown", "identifier", in.Identifier)
		s.countRequest(ctx, ch, "rate_limited")
		return ErrRateLimited
	}

	code := s.generator.Generate()
	digest, err := s.hash.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash verification code", "error", err)
		s.countRequest(ctx, ch, "error")
		return goerror.NewServer(err)
	}

	if err := s.store.Put(ctx, entity.Challenge{
		Identifier: in.Identifier,
		CodeHash:   string(digest),
		IssuedAt:   s.clock.Now(),
		Channel:    ch,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to store challenge", "identifier", in.Identifier, "error", err)
		s.countRequest(ctx, ch, "error")
		return goerror.NewServer(err)
	}

	if err := s.dispatcher.Send(ctx, in.Identifier, code, ch); err != nil {
		slog.ErrorContext(ctx, "failed to deliver verification code", "identifier", in.Identifier, "channel", ch.String(), "error", err)
		s.countRequest(ctx, ch, "delivery_failed")
		return goerror.NewUpstream(fmt.Errorf("%w: %w", entity.ErrDeliveryFailed, err), "Failed to deliver verification code")
	}

	s.countRequest(ctx, ch, "sent")
	return nil
}

func (s *Usecase) resolveChannel(identifier string, ch entity.Channel) (entity.Channel, error) {
	isEmail := entity.IsEmail(identifier)

	if ch == entity.ChannelUnknown {
		ch = entity.ChannelSMS
		if isEmail {
			ch = entity.ChannelEmail
		}
	}

	if ch == entity.ChannelEmail && !isEmail {
		return ch, goerror.NewInvalidInput(nil, "identifier", "identifier must be an email address for the email channel")
	}
	if ch.IsPhone() && isEmail {
		return ch, goerror.NewInvalidInput(nil, "identifier", "identifier must be an E.164 phone number for the "+ch.String()+" channel")
	}
	if !s.dispatcher.Supports(ch) {
		return ch, goerror.NewInvalidInput(nil, "channel", ch.String()+" channel is not available")
	}

	return ch, nil
}
