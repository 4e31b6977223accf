package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/goverify/internal/identity/entity"
	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
	vEntity "github.com/shandysiswandi/goverify/internal/verification/entity"
	vUsecase "github.com/shandysiswandi/goverify/internal/verification/usecase"
)

type RegisterVerifyInput struct {
	Identifier string `validate:"required,identifier"`
	Code       string
}

// RegisterVerify marks the user verified when code matches and announces it.
func (s *Usecase) RegisterVerify(ctx context.Context, in RegisterVerifyInput) (*entity.User, error) {
	ctx, span := s.startSpan(ctx, "RegisterVerify")
	defer span.End()

	in.Identifier = vEntity.NormalizeIdentifier(in.Identifier)

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

	ok, err := s.verifier.Verify(ctx, vUsecase.VerifyInput{Identifier: in.Identifier, Code: in.Code})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, vUsecase.ErrInvalidOrExpiredCode
	}

	if err := s.repoDB.SetUserVerified(ctx, user.ID, true); err != nil {
		slog.ErrorContext(ctx, "failed to repo set user verified", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	user.IsVerified = true
	user.UpdatedAt = s.clock.Now()

	verified := *user
	s.goroutine.Go(ctx, "identity.publish_user_verified", func(ctx context.Context) error {
		return s.repoMessaging.PublishUserVerified(ctx, verified)
	})

	return user, nil
}
