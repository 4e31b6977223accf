package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/shandysiswandi/goverify/internal/identity/entity"
	"github.com/shandysiswandi/goverify/internal/pkg/authz"
	"github.com/shandysiswandi/goverify/internal/pkg/clock"
	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
	"github.com/shandysiswandi/goverify/internal/pkg/goroutine"
	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"github.com/shandysiswandi/goverify/internal/pkg/jwt"
	"github.com/shandysiswandi/goverify/internal/pkg/uid"
	"github.com/shandysiswandi/goverify/internal/pkg/validator"
	vEntity "github.com/shandysiswandi/goverify/internal/verification/entity"
	vUsecase "github.com/shandysiswandi/goverify/internal/verification/usecase"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	CreateUser(ctx context.Context, u entity.User) error
	FindUserByID(ctx context.Context, id int64) (*entity.User, error)
	FindUserByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	ListUsers(ctx context.Context, f entity.UserListFilter) ([]entity.User, int64, error)
	SetUserVerified(ctx context.Context, id int64, verified bool) error
	UpdateUser(ctx context.Context, in entity.UpdateUser) (*entity.User, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
}

type repoMessaging interface {
	PublishUserVerified(ctx context.Context, u entity.User) error
}

// verifier is the verification module seen from identity.
type verifier interface {
	RequestCode(ctx context.Context, in vUsecase.RequestCodeInput) error
	Verify(ctx context.Context, in vUsecase.VerifyInput) (bool, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	verifier      verifier
	validator     validator.Validator
	uid           uid.NumberID
	clock         clock.Clocker
	jwt           jwt.JWT
	tokenTTL      time.Duration
	ins           instrument.Instrumentation
	enforcer      *casbin.Enforcer
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Verifier      verifier
	Validator     validator.Validator
	UID           uid.NumberID
	Clock         clock.Clocker
	JWT           jwt.JWT
	TokenTTL      time.Duration
	Instrument    instrument.Instrumentation
	Enforcer      *casbin.Enforcer
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		verifier:      dep.Verifier,
		validator:     dep.Validator,
		uid:           dep.UID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		tokenTTL:      dep.TokenTTL,
		ins:           dep.Instrument,
		enforcer:      dep.Enforcer,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	return clm, nil
}

func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, act string) (*jwt.Claims, error) {
	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := s.enforcer.Enforce(clm.Subject, authz.ObjectUsers, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "user_id", clm.Subject, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !ok {
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}

// ownerOrAuthorized lets a user act on their own account; acting on any
// other account needs the act permission on the users object.
func (s *Usecase) ownerOrAuthorized(ctx context.Context, id int64, act string) (*jwt.Claims, error) {
	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	if clm.UserID == id {
		return clm, nil
	}

	return s.authenticatedAndAuthorized(ctx, act)
}

// sendCode requests a verification code for u. An empty via sends to the
// identifier the user gave; otherwise the contact matching via is used. It
// returns the address the code was keyed on.
func (s *Usecase) sendCode(ctx context.Context, u entity.User, identifier, via string) (string, error) {
	address := identifier
	ch := vEntity.ChannelUnknown
	if via != "" {
		ch = vEntity.ChannelFromString(via)
		address = u.Contact(via)
	}

	if err := s.verifier.RequestCode(ctx, vUsecase.RequestCodeInput{Identifier: address, Channel: ch}); err != nil {
		return "", err
	}

	return address, nil
}

func normalizeVia(via string) string {
	return strings.ToLower(strings.TrimSpace(via))
}

// CodeSentOutput tells the caller which address to submit the code for.
type CodeSentOutput struct {
	SentTo string
}
