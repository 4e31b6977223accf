package limiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/goverify/internal/pkg/clock"
	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
)

const redisKeyPrefix = "verification:cooldown:"

// Redis reserves a send with SET NX and a cooldown long expiry, which is
// atomic across every instance sharing the server. The value is the
// reservation time in unix milliseconds.
type Redis struct {
	client   redis.UniversalClient
	cooldown time.Duration
	clock    clock.Clocker
	ins      instrument.Instrumentation
}

func NewRedis(client redis.UniversalClient, cooldown time.Duration, clk clock.Clocker, ins instrument.Instrumentation) *Redis {
	return &Redis{client: client, cooldown: cooldown, clock: clk, ins: ins}
}

func (r *Redis) TryReserve(ctx context.Context, identifier string) (bool, error) {
	ctx, span := r.ins.Tracer("verification.outbound.limiter").Start(ctx, "Redis.TryReserve")
	defer span.End()

	ok, err := r.client.SetNX(ctx, redisKeyPrefix+identifier, r.clock.Now().UnixMilli(), r.cooldown).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	return ok, nil
}
