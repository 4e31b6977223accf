package inbound

import (
	"context"
	"time"

	"github.com/shandysiswandi/goverify/internal/pkg/router"
	"github.com/shandysiswandi/goverify/internal/verification/usecase"
)

type uc interface {
	RequestCode(ctx context.Context, in usecase.RequestCodeInput) error
	Verify(ctx context.Context, in usecase.VerifyInput) (bool, error)
	CodeTTL() time.Duration
}

// RegisterHTTPEndpoint mounts the verification routes. mws are applied to the
// code request route only, typically a per-IP throttle.
func RegisterHTTPEndpoint(r *router.Router, uc uc, mws ...router.Middleware) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/verification/request", end.Request, mws...)
	r.POST("/api/v1/verification/submit", end.Submit)
}
