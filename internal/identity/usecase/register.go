package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/goverify/internal/identity/entity"
	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
	vEntity "github.com/shandysiswandi/goverify/internal/verification/entity"
)

type RegisterInput struct {
	Email string `validate:"required,email"`
	Phone string `validate:"required,e164"`
	Via   string `validate:"required,oneof=email sms whatsapp"`
}

type RegisterOutput struct {
	User   entity.User
	SentTo string
}

// Register creates an unverified user and sends a code over via. A failed
// delivery keeps the user; the caller may resend once the cooldown passes.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = vEntity.NormalizeIdentifier(in.Email)
	in.Phone = vEntity.NormalizeIdentifier(in.Phone)
	in.Via = normalizeVia(in.Via)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	for _, identifier := range []string{in.Email, in.Phone} {
		user, err := s.repoDB.FindUserByIdentifier(ctx, identifier)
		if err == nil {
			if !user.IsVerified {
				return nil, goerror.NewBusiness("Account not verified", goerror.CodeConflict)
			}
			return nil, goerror.NewBusiness("Email or phone already registered", goerror.CodeConflict)
		}
		if !errors.Is(err, goerror.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to repo find user by identifier", "identifier", identifier, "error", err)
			return nil, goerror.NewServer(err)
		}
	}

	now := s.clock.Now()
	user := entity.User{
		ID:        s.uid.Generate(),
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repoDB.CreateUser(ctx, user); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("Email or phone already registered", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create user", "email", user.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	sentTo, err := s.sendCode(ctx, user, "", in.Via)
	if err != nil {
		return nil, err
	}

	return &RegisterOutput{User: user, SentTo: sentTo}, nil
}
