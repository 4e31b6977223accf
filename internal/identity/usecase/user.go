package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/goverify/internal/identity/entity"
	"github.com/shandysiswandi/goverify/internal/pkg/authz"
	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
	vEntity "github.com/shandysiswandi/goverify/internal/verification/entity"
)

const defaultPageSize int32 = 20

func (s *Usecase) findUser(ctx context.Context, identifier string) (*entity.User, error) {
	user, err := s.repoDB.FindUserByIdentifier(ctx, identifier)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find user by identifier", "identifier", identifier, "error", err)
		return nil, goerror.NewServer(err)
	}

	return user, nil
}

type UserListInput struct {
	Search string
	Page   int32 `validate:"min=0"`
	Size   int32 `validate:"min=0,max=100"`
}

type UserListOutput struct {
	Users []entity.User
	Total int64
	Page  int32
	Size  int32
}

func (s *Usecase) UserList(ctx context.Context, in UserListInput) (*UserListOutput, error) {
	ctx, span := s.startSpan(ctx, "UserList")
	defer span.End()

	if _, err := s.authenticatedAndAuthorized(ctx, authz.ActRead); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.Page == 0 {
		in.Page = 1
	}
	if in.Size == 0 {
		in.Size = defaultPageSize
	}

	users, total, err := s.repoDB.ListUsers(ctx, entity.UserListFilter{
		Search: in.Search,
		Limit:  in.Size,
		Offset: (in.Page - 1) * in.Size,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list users", "search", in.Search, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &UserListOutput{Users: users, Total: total, Page: in.Page, Size: in.Size}, nil
}

type UserDetailInput struct {
	ID int64 `validate:"required,gt=0"`
}

func (s *Usecase) UserDetail(ctx context.Context, in UserDetailInput) (*entity.User, error) {
	ctx, span := s.startSpan(ctx, "UserDetail")
	defer span.End()

	if _, err := s.authenticated(ctx); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if _, err := s.ownerOrAuthorized(ctx, in.ID, authz.ActRead); err != nil {
		return nil, err
	}

	user, err := s.repoDB.FindUserByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("User not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find user by id", "user_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return user, nil
}

type UserUpdateInput struct {
	ID    int64   `validate:"required,gt=0"`
	Email *string `validate:"omitempty,email"`
	Phone *string `validate:"omitempty,e164"`
}

// UserUpdate changes the email or phone of an account. Callers may only
// change their own account unless they hold the write permission. A contact
// change marks the account unverified again.
func (s *Usecase) UserUpdate(ctx context.Context, in UserUpdateInput) (*entity.User, error) {
	ctx, span := s.startSpan(ctx, "UserUpdate")
	defer span.End()

	if _, err := s.authenticated(ctx); err != nil {
		return nil, err
	}

	if in.Email == nil && in.Phone == nil {
		return nil, goerror.NewInvalidInput(nil, "email", "email or phone is required")
	}
	if in.Email != nil {
		v := vEntity.NormalizeIdentifier(*in.Email)
		in.Email = &v
	}
	if in.Phone != nil {
		v := vEntity.NormalizeIdentifier(*in.Phone)
		in.Phone = &v
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if _, err := s.ownerOrAuthorized(ctx, in.ID, authz.ActWrite); err != nil {
		return nil, err
	}

	user, err := s.repoDB.UpdateUser(ctx, entity.UpdateUser{
		ID:        in.ID,
		Email:     in.Email,
		Phone:     in.Phone,
		UpdatedAt: s.clock.Now(),
	})
	switch {
	case errors.Is(err, goerror.ErrNotFound):
		return nil, goerror.NewBusiness("User not found", goerror.CodeNotFound)
	case errors.Is(err, goerror.ErrConflict):
		return nil, goerror.NewBusiness("Email or phone already registered", goerror.CodeConflict)
	case err != nil:
		slog.ErrorContext(ctx, "failed to repo update user", "user_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return user, nil
}

type UserDeleteInput struct {
	ID int64 `validate:"required,gt=0"`
}

func (s *Usecase) UserDelete(ctx context.Context, in UserDeleteInput) error {
	ctx, span := s.startSpan(ctx, "UserDelete")
	defer span.End()

	if _, err := s.authenticated(ctx); err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if _, err := s.ownerOrAuthorized(ctx, in.ID, authz.ActDelete); err != nil {
		return err
	}

	deleted, err := s.repoDB.DeleteUser(ctx, in.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete user", "user_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !deleted {
		return goerror.NewBusiness("User not found", goerror.CodeNotFound)
	}

	return nil
}
