package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/goverify/internal/pkg/clock"
	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
	"github.com/shandysiswandi/goverify/internal/pkg/hash"
	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"github.com/shandysiswandi/goverify/internal/pkg/otp"
	"github.com/shandysiswandi/goverify/internal/pkg/validator"
	"github.com/shandysiswandi/goverify/internal/verification/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultCodeTTL is how long an issued code stays valid when no ttl is configured.
const DefaultCodeTTL = 300 * time.Second

var (
	// ErrRateLimited is returned when a code was sent to the identifier within the cooldown.
	ErrRateLimited = goerror.NewBusiness("Please wait at least a minute before requesting a new code", goerror.CodeTooManyRequest)

	// ErrInvalidOrExpiredCode is returned by callers that turn a false verification into an error.
	ErrInvalidOrExpiredCode = goerror.NewBusiness("Invalid or expired verification code", goerror.CodeUnauthorized)
)

type challengeStore interface {
	Put(ctx context.Context, c entity.Challenge) error
	Take(ctx context.Context, identifier string) (*entity.Challenge, error)
}

type rateLimiter interface {
	TryReserve(ctx context.Context, identifier string) (bool, error)
}

type dispatcher interface {
	Send(ctx context.Context, address, code string, ch entity.Channel) error
	Supports(ch entity.Channel) bool
}

type Dependency struct {
	Store      challengeStore
	Limiter    rateLimiter
	Dispatcher dispatcher
	Generator  otp.Generator
	Hash       hash.Hash
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
	CodeTTL    time.Duration
}

// Usecase issues and checks one-time codes.
type Usecase struct {
	store      challengeStore
	limiter    rateLimiter
	dispatcher dispatcher
	generator  otp.Generator
	hash       hash.Hash
	clock      clock.Clocker
	validator  validator.Validator
	ins        instrument.Instrumentation
	codeTTL    time.Duration

	requests      metric.Int64Counter
	verifications metric.Int64Counter
}

func New(dep Dependency) (*Usecase, error) {
	if dep.CodeTTL <= 0 {
		dep.CodeTTL = DefaultCodeTTL
	}
	if dep.Instrument == nil {
		dep.Instrument = instrument.NewNoop()
	}

	meter := dep.Instrument.Meter("verification.usecase")
	requests, err := meter.Int64Counter("verification.code.requests",
		metric.WithDescription("Verification code requests by outcome"))
	if err != nil {
		return nil, err
	}
	verifications, err := meter.Int64Counter("verification.code.verifications",
		metric.WithDescription("Verification attempts by result"))
	if err != nil {
		return nil, err
	}

	return &Usecase{
		store:         dep.Store,
		limiter:       dep.Limiter,
		dispatcher:    dep.Dispatcher,
		generator:     dep.Generator,
		hash:          dep.Hash,
		clock:         dep.Clock,
		validator:     dep.Validator,
		ins:           dep.Instrument,
		codeTTL:       dep.CodeTTL,
		requests:      requests,
		verifications: verifications,
	}, nil
}

// CodeTTL returns how long an issued code stays valid.
func (s *Usecase) CodeTTL() time.Duration {
	return s.codeTTL
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verification.usecase").Start(ctx, name)
}

func (s *Usecase) countRequest(ctx context.Context, ch entity.Channel, outcome string) {
	s.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", ch.String()),
		attribute.String("outcome", outcome),
	))
}

func (s *Usecase) countVerification(ctx context.Context, valid bool) {
	s.verifications.Add(ctx, 1, metric.WithAttributes(attribute.Bool("valid", valid)))
}
