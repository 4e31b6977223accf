package inbound

import (
	"context"

	"github.com/shandysiswandi/goverify/internal/identity/entity"
	"github.com/shandysiswandi/goverify/internal/identity/usecase"
	"github.com/shandysiswandi/goverify/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	RegisterResend(ctx context.Context, in usecase.RegisterResendInput) (*usecase.CodeSentOutput, error)
	RegisterVerify(ctx context.Context, in usecase.RegisterVerifyInput) (*entity.User, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.CodeSentOutput, error)
	LoginVerify(ctx context.Context, in usecase.LoginVerifyInput) (*usecase.LoginVerifyOutput, error)

	UserList(ctx context.Context, in usecase.UserListInput) (*usecase.UserListOutput, error)
	UserDetail(ctx context.Context, in usecase.UserDetailInput) (*entity.User, error)
	UserUpdate(ctx context.Context, in usecase.UserUpdateInput) (*entity.User, error)
	UserDelete(ctx context.Context, in usecase.UserDeleteInput) error
}

// RegisterHTTPEndpoint mounts the identity routes. mws wrap every route that
// sends a code.
func RegisterHTTPEndpoint(r *router.Router, uc uc, mws ...router.Middleware) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/identity/register", end.Register, mws...)
	r.POST("/api/v1/identity/register/resend", end.RegisterResend, mws...)
	r.POST("/api/v1/identity/register/verify", end.RegisterVerify)
	r.POST("/api/v1/identity/login", end.Login, mws...)
	r.POST("/api/v1/identity/login/verify", end.LoginVerify)

	r.GET("/api/v1/identity/users", end.UserList)
	r.GET("/api/v1/identity/users/:id", end.UserDetail)
	r.PUT("/api/v1/identity/users/:id", end.UserUpdate)
	r.DELETE("/api/v1/identity/users/:id", end.UserDelete)
}
