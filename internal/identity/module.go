package identity

import (
	"context"
	"fmt"

	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/goverify/internal/identity/inbound"
	"github.com/shandysiswandi/goverify/internal/identity/outbound/db"
	"github.com/shandysiswandi/goverify/internal/identity/outbound/mq"
	"github.com/shandysiswandi/goverify/internal/identity/usecase"
	"github.com/shandysiswandi/goverify/internal/pkg/clock"
	"github.com/shandysiswandi/goverify/internal/pkg/config"
	"github.com/shandysiswandi/goverify/internal/pkg/goroutine"
	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"github.com/shandysiswandi/goverify/internal/pkg/jwt"
	"github.com/shandysiswandi/goverify/internal/pkg/messaging"
	"github.com/shandysiswandi/goverify/internal/pkg/router"
	"github.com/shandysiswandi/goverify/internal/pkg/uid"
	"github.com/shandysiswandi/goverify/internal/pkg/validator"
	vUsecase "github.com/shandysiswandi/goverify/internal/verification/usecase"
)

type Dependency struct {
	DBConn       *pgxpool.Pool              `validate:"required"`
	Messaging    messaging.Publisher        `validate:"required"`
	Goroutine    *goroutine.Manager         `validate:"required"`
	Router       *router.Router             `validate:"required"`
	Config       config.Config              `validate:"required"`
	Instrument   instrument.Instrumentation `validate:"required"`
	UID          uid.NumberID               `validate:"required"`
	Clock        clock.Clocker              `validate:"required"`
	Validator    validator.Validator        `validate:"required"`
	JWT          jwt.JWT                    `validate:"required"`
	Enforcer     *casbin.Enforcer           `validate:"required"`
	Verification *vUsecase.Usecase          `validate:"required"`
}

func New(ctx context.Context, dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	if dep.Config.GetBool("database.auto_migrate") {
		if err := repoDB.Migrate(ctx); err != nil {
			return fmt.Errorf("identity: migrate: %w", err)
		}
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:        repoDB,
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Instrument),
		Verifier:      dep.Verification,
		Validator:     dep.Validator,
		UID:           dep.UID,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		TokenTTL:      dep.Config.GetMinute("jwt.ttl_minutes"),
		Instrument:    dep.Instrument,
		Enforcer:      dep.Enforcer,
		Goroutine:     dep.Goroutine,
	})

	var mws []router.Middleware
	if n := dep.Config.GetInt("modules.verification.throttle_per_minute"); n > 0 {
		mws = append(mws, router.Throttle(n))
	}
	inbound.RegisterHTTPEndpoint(dep.Router, uc, mws...)

	return nil
}
