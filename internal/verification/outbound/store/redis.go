package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"github.com/shandysiswandi/goverify/internal/verification/entity"
)

const redisKeyPrefix = "verification:challenge:"

type redisChallenge struct {
	CodeHash string    `json:"code_hash"`
	IssuedAt time.Time `json:"issued_at"`
	Channel  int8      `json:"channel"`
}

// Redis stores challenges as JSON strings that expire after ttl.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
	ins    instrument.Instrumentation
}

// NewRedis creates a Redis store. ttl is the key lifetime and should match the code ttl.
func NewRedis(client redis.UniversalClient, ttl time.Duration, ins instrument.Instrumentation) *Redis {
	return &Redis{client: client, ttl: ttl, ins: ins}
}

func (r *Redis) key(identifier string) string {
	return redisKeyPrefix + identifier
}

func (r *Redis) Put(ctx context.Context, c entity.Challenge) (err error) {
	ctx, span := startSpan(r.ins, ctx, "Redis.Put")
	defer func() { endSpan(span, err) }()

	body, err := json.Marshal(redisChallenge{
		CodeHash: c.CodeHash,
		IssuedAt: c.IssuedAt,
		Channel:  int8(c.Channel),
	})
	if err != nil {
		return fmt.Errorf("store: encode challenge: %w", err)
	}

	return r.client.Set(ctx, r.key(c.Identifier), body, r.ttl).Err()
}

func (r *Redis) Take(ctx context.Context, identifier string) (_ *entity.Challenge, err error) {
	ctx, span := startSpan(r.ins, ctx, "Redis.Take")
	defer func() { endSpan(span, err) }()

	raw, err := r.client.GetDel(ctx, r.key(identifier)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, entity.ErrChallengeNotFound
	}
	if err != nil {
		return nil, err
	}

	var rc redisChallenge
	if err := json.Unmarshal(raw, &rc); err != nil {
		return nil, fmt.Errorf("store: decode challenge: %w", err)
	}

	return &entity.Challenge{
		Identifier: identifier,
		CodeHash:   rc.CodeHash,
		IssuedAt:   rc.IssuedAt,
		Channel:    entity.Channel(rc.Channel),
	}, nil
}
