// Package limiter enforces a per-identifier cooldown between code sends.
//
// TryReserve returns true and records the send time when the cooldown has
// elapsed. A rejected reservation leaves the recorded time untouched, so
// retrying early never extends the wait.
package limiter

import (
	"context"
	"sync"
	"time"

	"github.com/shandysiswandi/goverify/internal/pkg/clock"
)

// Memory tracks the last send per identifier in process.
type Memory struct {
	mu       sync.Mutex
	last     map[string]time.Time
	cooldown time.Duration
	clock    clock.Clocker
}

func NewMemory(cooldown time.Duration, clk clock.Clocker) *Memory {
	return &Memory{last: make(map[string]time.Time), cooldown: cooldown, clock: clk}
}

func (m *Memory) TryReserve(ctx context.Context, identifier string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if last, ok := m.last[identifier]; ok && now.Sub(last) < m.cooldown {
		return false, nil
	}
	m.last[identifier] = now

	return true, nil
}

// Sweep forgets identifiers whose cooldown has elapsed and returns how many were removed.
func (m *Memory) Sweep() int {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for k, last := range m.last {
		if now.Sub(last) >= m.cooldown {
			delete(m.last, k)
			n++
		}
	}

	return n
}
