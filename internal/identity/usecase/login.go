package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
	vEntity "github.com/shandysiswandi/goverify/internal/verification/entity"
	vUsecase "github.com/shandysiswandi/goverify/internal/verification/usecase"
)

type LoginInput struct {
	Identifier string `validate:"required,identifier"`
	Via        string `validate:"omitempty,oneof=email sms whatsapp"`
}

// Login sends a sign-in code to a verified user.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*CodeSentOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Identifier = vEntity.NormalizeIdentifier(in.Identifier)
	in.Via = normalizeVia(in.Via)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	user, err := s.findUser(ctx, in.Identifier)
	if err != nil {
		return nil, err
	}

	if !user.IsVerified {
		slog.WarnContext(ctx, "login attempt on unverified account", "user_id", user.ID)
		return nil, goerror.NewBusiness("Account not verified", goerror.CodeForbidden)
	}

	sentTo, err := s.sendCode(ctx, *user, in.Identifier, in.Via)
	if err != nil {
		return nil, err
	}

	return &CodeSentOutput{SentTo: sentTo}, nil
}

type LoginVerifyInput struct {
	Identifier string `validate:"required,identifier"`
	Code       string
}

type LoginVerifyOutput struct {
	AccessToken string
	ExpiresIn   int64
}

// LoginVerify exchanges a sign-in code for an access token.
func (s *Usecase) LoginVerify(ctx context.Context, in LoginVerifyInput) (*LoginVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "LoginVerify")
	defer span.End()

	in.Identifier = vEntity.NormalizeIdentifier(in.Identifier)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	user, err := s.findUser(ctx, in.Identifier)
	if err != nil {
		return nil, err
	}

	if !user.IsVerified {
		return nil, goerror.NewBusiness("Account not verified", goerror.CodeForbidden)
	}

	ok, err := s.verifier.Verify(ctx, vUsecase.VerifyInput{Identifier: in.Identifier, Code: in.Code})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, vUsecase.ErrInvalidOrExpiredCode
	}

	token, err := s.jwt.Generate(user.ID, in.Identifier)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LoginVerifyOutput{AccessToken: token, ExpiresIn: int64(s.tokenTTL.Seconds())}, nil
}
