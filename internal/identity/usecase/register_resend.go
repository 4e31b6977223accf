package usecase

import (
	"context"

	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
	vEntity "github.com/shandysiswandi/goverify/internal/verification/entity"
)

type RegisterResendInput struct {
	Identifier string `validate:"required,identifier"`
	Via        string `validate:"omitempty,oneof=email sms whatsapp"`
}

func (s *Usecase) RegisterResend(ctx context.Context, in RegisterResendInput) (*CodeSentOutput, error) {
	ctx, span := s.startSpan(ctx, "RegisterResend")
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

	if user.IsVerified {
		return nil, goerror.NewBusiness("Account already verified", goerror.CodeConflict)
	}

	sentTo, err := s.sendCode(ctx, *user, in.Identifier, in.Via)
	if err != nil {
		return nil, err
	}

	return &CodeSentOutput{SentTo: sentTo}, nil
}
