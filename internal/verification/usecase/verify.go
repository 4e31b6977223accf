package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
	"github.com/shandysiswandi/goverify/internal/verification/entity"
)

type VerifyInput struct {
	Identifier string `validate:"required,identifier"`
	Code       string
}

// Verify consumes the identifier's challenge and reports whether code matched
// it before expiry. Wrong, blank, expired and missing challenges all yield
// false, and any attempt on a valid identifier burns the pending code.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (bool, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	in.Identifier = entity.NormalizeIdentifier(in.Identifier)
	in.Code = strings.TrimSpace(in.Code)
	if err := s.validator.Validate(in); err != nil {
		return false, goerror.NewInvalidInput(err)
	}

	c, err := s.store.Take(ctx, in.Identifier)
	if errors.Is(err, entity.ErrChallengeNotFound) {
		slog.InfoContext(ctx, "no pending challenge", "identifier", in.Identifier)
		s.countVerification(ctx, false)
		return false, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to take challenge", "identifier", in.Identifier, "error", err)
		return false, goerror.NewServer(err)
	}

	expired := c.Expired(s.clock.Now(), s.codeTTL)
	matches := s.hash.Verify(c.CodeHash, in.Code)
	valid := matches && !expired

	if matches && expired {
		slog.InfoContext(ctx, "verification code expired", "identifier", in.Identifier, "issued_at", c.IssuedAt)
	}

	s.countVerification(ctx, valid)
	return valid, nil
}
