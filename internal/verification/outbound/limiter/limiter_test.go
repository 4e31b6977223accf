package limiter

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/goverify/internal/pkg/clock"
	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestMemory_TryReserve(t *testing.T) {
	// Arrange
	ctx := context.Background()
	clk := clock.NewFrozen(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	m := NewMemory(60*time.Second, clk)

	// Act & Assert
	if ok, _ := m.TryReserve(ctx, "a@example.com"); !ok {
		t.Fatal("first reservation must pass")
	}

	clk.Advance(30 * time.Second)
	if ok, _ := m.TryReserve(ctx, "a@example.com"); ok {
		t.Fatal("reservation inside cooldown must fail")
	}
	if ok, _ := m.TryReserve(ctx, "b@example.com"); !ok {
		t.Fatal("identifiers must not share a cooldown")
	}

	// The rejection at +30s must not have moved the window.
	clk.Advance(30 * time.Second)
	if ok, _ := m.TryReserve(ctx, "a@example.com"); !ok {
		t.Fatal("reservation after cooldown must pass")
	}
}

func TestMemory_Concurrent(t *testing.T) {
	m := NewMemory(time.Minute, clock.NewFrozen(time.Now()))

	var (
		wg  sync.WaitGroup
		won atomic.Int32
	)
	for range 32 {
		wg.Go(func() {
			if ok, _ := m.TryReserve(context.Background(), "a@example.com"); ok {
				won.Add(1)
			}
		})
	}
	wg.Wait()

	if won.Load() != 1 {
		t.Fatalf("%d reservations passed, want 1", won.Load())
	}
}

func TestMemory_Sweep(t *testing.T) {
	clk := clock.NewFrozen(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	m := NewMemory(time.Minute, clk)
	_, _ = m.TryReserve(context.Background(), "old")
	clk.Advance(45 * time.Second)
	_, _ = m.TryReserve(context.Background(), "new")
	clk.Advance(15 * time.Second)

	if n := m.Sweep(); n != 1 {
		t.Fatalf("Sweep() = %d, want 1", n)
	}
	if ok, _ := m.TryReserve(context.Background(), "new"); ok {
		t.Fatal("sweep must keep identifiers still cooling down")
	}
}

func TestRedis_TryReserve(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	uri, err := ctr.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("redis uri: %v", err)
	}
	opt, err := redis.ParseURL(uri)
	if err != nil {
		t.Fatalf("parse redis uri: %v", err)
	}
	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	reservedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r := NewRedis(client, 500*time.Millisecond, clock.NewFrozen(reservedAt), instrument.NewNoop())

	if ok, err := r.TryReserve(ctx, "a@example.com"); err != nil || !ok {
		t.Fatalf("first TryReserve() = %v, %v", ok, err)
	}
	stored, err := client.Get(ctx, redisKeyPrefix+"a@example.com").Int64()
	if err != nil || stored != reservedAt.UnixMilli() {
		t.Fatalf("stored reservation = %d, %v; want %d", stored, err, reservedAt.UnixMilli())
	}
	if ok, err := r.TryReserve(ctx, "a@example.com"); err != nil || ok {
		t.Fatalf("second TryReserve() = %v, %v; want false", ok, err)
	}

	time.Sleep(700 * time.Millisecond)
	if ok, err := r.TryReserve(ctx, "a@example.com"); err != nil || !ok {
		t.Fatalf("TryReserve() after cooldown = %v, %v", ok, err)
	}
}
