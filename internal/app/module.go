package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/goverify/internal/identity"
	"github.com/shandysiswandi/goverify/internal/verification"
)

func (a *App) initModules() {
	verifier, err := verification.New(a.ctx, verification.Dependency{
		Config:     a.config,
		Instrument: a.ins,
		Validator:  a.validator,
		Clock:      a.clock,
		Router:     a.router,
		CacheConn:  a.cacheConn,
		MongoDB:    a.mongoDB,
		Mail:       a.mail,
		SMS:        a.sms,
		WhatsApp:   a.whatsapp,
		Scheduler:  a.scheduler,
	})
	if err != nil {
		slog.Error("failed to init module verification", "error", err)
		os.Exit(1)
	}
	slog.Info("module verification ready",
		"store", a.config.GetString("modules.verification.store"),
		"limiter", a.config.GetString("modules.verification.limiter"),
		"channels", channelsOf(a.config),
	)

	if a.config.GetBool("modules.identity.enabled") {
		if err := identity.New(a.ctx, identity.Dependency{
			DBConn:       a.dbConn,
			Messaging:    a.messaging,
			Goroutine:    a.goroutine,
			Router:       a.router,
			Config:       a.config,
			Instrument:   a.ins,
			UID:          a.uid,
			Clock:        a.clock,
			Validator:    a.validator,
			JWT:          a.jwt,
			Enforcer:     a.enforcer,
			Verification: verifier,
		}); err != nil {
			slog.Error("failed to init module identity", "error", err)
			os.Exit(1)
		}
	}
}
