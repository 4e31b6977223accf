package verification

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/shandysiswandi/goverify/internal/pkg/clock"
	"github.com/shandysiswandi/goverify/internal/pkg/config"
	"github.com/shandysiswandi/goverify/internal/pkg/hash"
	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"github.com/shandysiswandi/goverify/internal/pkg/mail"
	"github.com/shandysiswandi/goverify/internal/pkg/otp"
	"github.com/shandysiswandi/goverify/internal/pkg/router"
	"github.com/shandysiswandi/goverify/internal/pkg/sms"
	"github.com/shandysiswandi/goverify/internal/pkg/validator"
	"github.com/shandysiswandi/goverify/internal/pkg/whatsapp"
	"github.com/shandysiswandi/goverify/internal/verification/entity"
	"github.com/shandysiswandi/goverify/internal/verification/inbound"
	"github.com/shandysiswandi/goverify/internal/verification/outbound/channel"
	"github.com/shandysiswandi/goverify/internal/verification/outbound/limiter"
	"github.com/shandysiswandi/goverify/internal/verification/outbound/store"
	"github.com/shandysiswandi/goverify/internal/verification/usecase"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

var (
	ErrUnknownBackend     = errors.New("verification: unknown backend")
	ErrBackendUnavailable = errors.New("verification: backend connection is not configured")
	ErrChannelClient      = errors.New("verification: channel has no provider client")
	ErrHashSecretRequired = errors.New("verification: hash secret is required for a shared store")
)

// Dependency lists what the module needs. Connections and provider clients
// are optional and only required by the backends and channels configured.
type Dependency struct {
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Router     *router.Router             `validate:"required"`

	CacheConn *redis.Client
	MongoDB   *mongo.Database

	Mail     mail.Mail
	SMS      sms.SMS
	WhatsApp whatsapp.WhatsApp

	// Scheduler runs the memory backend sweep. May be nil.
	Scheduler *cron.Cron
}

// New wires the verification module, mounts its routes and returns the
// usecase so other modules can issue and check codes.
func New(ctx context.Context, dep Dependency) (*usecase.Usecase, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	cfg := dep.Config
	ttl := cfg.GetSecond("modules.verification.code_ttl_seconds")
	cooldown := cfg.GetSecond("modules.verification.cooldown_seconds")

	var sweepers []func()

	storeBackend := strings.ToLower(cfg.GetString("modules.verification.store"))
	chStore, err := newStore(ctx, storeBackend, dep, ttl)
	if err != nil {
		return nil, err
	}
	if m, ok := chStore.(*store.Memory); ok {
		sweepers = append(sweepers, func() {
			if n := m.Sweep(dep.Clock.Now().Add(-ttl)); n > 0 {
				slog.Debug("swept expired challenges", "count", n)
			}
		})
	}

	rl, err := newLimiter(strings.ToLower(cfg.GetString("modules.verification.limiter")), dep, cooldown)
	if err != nil {
		return nil, err
	}
	if m, ok := rl.(*limiter.Memory); ok {
		sweepers = append(sweepers, func() { m.Sweep() })
	}

	disp, err := newDispatcher(dep, ttl)
	if err != nil {
		return nil, err
	}

	secret := cfg.GetString("modules.verification.hash_secret")
	if secret == "" {
		if storeBackend != BackendMemory {
			return nil, ErrHashSecretRequired
		}
		secret = randomSecret()
	}

	uc, err := usecase.New(usecase.Dependency{
		Store:      chStore,
		Limiter:    rl,
		Dispatcher: disp,
		Generator:  otp.NewNumeric(cfg.GetInt("modules.verification.code_length")),
		Hash:       hash.NewHMACSHA256(secret),
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
		CodeTTL:    ttl,
	})
	if err != nil {
		return nil, err
	}

	if dep.Scheduler != nil && len(sweepers) > 0 {
		if _, err := dep.Scheduler.AddFunc(cfg.GetString("modules.verification.sweep_schedule"), func() {
			for _, sweep := range sweepers {
				sweep()
			}
		}); err != nil {
			return nil, fmt.Errorf("verification: schedule sweep: %w", err)
		}
	}

	var mws []router.Middleware
	if n := cfg.GetInt("modules.verification.throttle_per_minute"); n > 0 {
		mws = append(mws, router.Throttle(n))
	}
	inbound.RegisterHTTPEndpoint(dep.Router, uc, mws...)

	return uc, nil
}

type challengeStore interface {
	Put(ctx context.Context, c entity.Challenge) error
	Take(ctx context.Context, identifier string) (*entity.Challenge, error)
}

func newStore(ctx context.Context, backend string, dep Dependency, ttl time.Duration) (challengeStore, error) {
	switch backend {
	case BackendMemory, "":
		return store.NewMemory(), nil
	case BackendRedis:
		if dep.CacheConn == nil {
			return nil, fmt.Errorf("%w: redis", ErrBackendUnavailable)
		}
		return store.NewRedis(dep.CacheConn, ttl, dep.Instrument), nil
	case BackendMongo:
		if dep.MongoDB == nil {
			return nil, fmt.Errorf("%w: mongo", ErrBackendUnavailable)
		}
		s := store.NewMongo(dep.MongoDB, ttl, dep.Instrument)
		if err := s.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("verification: ensure mongo indexes: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: store %q", ErrUnknownBackend, backend)
	}
}

type rateLimiter interface {
	TryReserve(ctx context.Context, identifier string) (bool, error)
}

func newLimiter(backend string, dep Dependency, cooldown time.Duration) (rateLimiter, error) {
	switch backend {
	case BackendMemory, "":
		return limiter.NewMemory(cooldown, dep.Clock), nil
	case BackendRedis:
		if dep.CacheConn == nil {
			return nil, fmt.Errorf("%w: redis", ErrBackendUnavailable)
		}
		return limiter.NewRedis(dep.CacheConn, cooldown, dep.Clock, dep.Instrument), nil
	default:
		return nil, fmt.Errorf("%w: limiter %q", ErrUnknownBackend, backend)
	}
}

func newDispatcher(dep Dependency, ttl time.Duration) (*channel.Dispatcher, error) {
	cfg := dep.Config
	appName := cfg.GetString("app.name")
	disp := channel.NewDispatcher(dep.Instrument)

	for _, name := range cfg.GetArray("modules.verification.channels") {
		switch ch := entity.ChannelFromString(name); ch {
		case entity.ChannelEmail:
			if dep.Mail == nil {
				return nil, fmt.Errorf("%w: %s", ErrChannelClient, ch)
			}
			disp.Register(ch, channel.NewEmail(dep.Mail, channel.EmailConfig{
				From:    cfg.GetString("mail.from"),
				AppName: appName,
				CodeTTL: ttl,
				Timeout: cfg.GetSecond("mail.timeout_seconds"),
			}, dep.Clock))
		case entity.ChannelSMS:
			if dep.SMS == nil {
				return nil, fmt.Errorf("%w: %s", ErrChannelClient, ch)
			}
			disp.Register(ch, channel.NewSMS(dep.SMS, channel.SMSConfig{
				AppName: appName,
				CodeTTL: ttl,
				Timeout: cfg.GetSecond("sms.timeout_seconds"),
			}))
		case entity.ChannelWhatsApp:
			if dep.WhatsApp == nil {
				return nil, fmt.Errorf("%w: %s", ErrChannelClient, ch)
			}
			disp.Register(ch, channel.NewWhatsApp(dep.WhatsApp, channel.WhatsAppConfig{
				AppName: appName,
				CodeTTL: ttl,
				Timeout: cfg.GetSecond("whatsapp.timeout_seconds"),
			}))
		default:
			return nil, fmt.Errorf("%w: channel %q", ErrUnknownBackend, name)
		}
	}

	return disp, nil
}

// randomSecret keys the code digest for a single process. Codes issued before
// a restart stop verifying, which the memory store loses anyway.
func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
