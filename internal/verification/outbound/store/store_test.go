package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/goverify/internal/verification/entity"
)

type challengeStore interface {
	Put(ctx context.Context, c entity.Challenge) error
	Take(ctx context.Context, identifier string) (*entity.Challenge, error)
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s challengeStore) {
	t.Helper()
	ctx := context.Background()
	issued := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("take missing", func(t *testing.T) {
		if _, err := s.Take(ctx, "missing@example.com"); !errors.Is(err, entity.ErrChallengeNotFound) {
			t.Fatalf("Take() error = %v, want ErrChallengeNotFound", err)
		}
	})

	t.Run("put then take once", func(t *testing.T) {
		// Arrange
		in := entity.Challenge{Identifier: "user@example.com", CodeHash: "h1", IssuedAt: issued, Channel: entity.ChannelEmail}
		if err := s.Put(ctx, in); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		// Act
		got, err := s.Take(ctx, in.Identifier)

		// Assert
		if err != nil {
			t.Fatalf("Take() error = %v", err)
		}
		if got.Identifier != in.Identifier || got.CodeHash != in.CodeHash || got.Channel != in.Channel || !got.IssuedAt.Equal(in.IssuedAt) {
			t.Fatalf("Take() = %+v, want %+v", got, in)
		}
		if _, err := s.Take(ctx, in.Identifier); !errors.Is(err, entity.ErrChallengeNotFound) {
			t.Fatalf("second Take() error = %v, want ErrChallengeNotFound", err)
		}
	})

	t.Run("put replaces", func(t *testing.T) {
		id := "+15551234567"
		_ = s.Put(ctx, entity.Challenge{Identifier: id, CodeHash: "old", IssuedAt: issued, Channel: entity.ChannelSMS})
		_ = s.Put(ctx, entity.Challenge{Identifier: id, CodeHash: "new", IssuedAt: issued.Add(time.Minute), Channel: entity.ChannelWhatsApp})

		got, err := s.Take(ctx, id)
		if err != nil {
			t.Fatalf("Take() error = %v", err)
		}
		if got.CodeHash != "new" || got.Channel != entity.ChannelWhatsApp {
			t.Fatalf("Take() = %+v, want the latest challenge", got)
		}
	})

	t.Run("concurrent take", func(t *testing.T) {
		id := "race@example.com"
		if err := s.Put(ctx, entity.Challenge{Identifier: id, CodeHash: "h", IssuedAt: issued, Channel: entity.ChannelEmail}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		var (
			wg  sync.WaitGroup
			won atomic.Int32
		)
		for range 16 {
			wg.Go(func() {
				if _, err := s.Take(ctx, id); err == nil {
					won.Add(1)
				}
			})
		}
		wg.Wait()

		if won.Load() != 1 {
			t.Fatalf("%d takers got the challenge, want exactly 1", won.Load())
		}
	})
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemory_Sweep(t *testing.T) {
	// Arrange
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	_ = m.Put(ctx, entity.Challenge{Identifier: "a@example.com", IssuedAt: base})
	_ = m.Put(ctx, entity.Challenge{Identifier: "b@example.com", IssuedAt: base.Add(10 * time.Minute)})

	// Act
	removed := m.Sweep(base.Add(5 * time.Minute))

	// Assert
	if removed != 1 || m.Len() != 1 {
		t.Fatalf("Sweep() removed %d, left %d; want 1 and 1", removed, m.Len())
	}
	if _, err := m.Take(ctx, "b@example.com"); err != nil {
		t.Fatalf("fresh challenge swept: %v", err)
	}
}

func TestMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMemory()
	if err := m.Put(ctx, entity.Challenge{Identifier: "x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Put() error = %v", err)
	}
	if _, err := m.Take(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Take() error = %v", err)
	}
}

func challengeFor(identifier string) entity.Challenge {
	return entity.Challenge{
		Identifier: identifier,
		CodeHash:   "hash",
		IssuedAt:   time.Now().UTC().Truncate(time.Millisecond),
		Channel:    entity.ChannelEmail,
	}
}
