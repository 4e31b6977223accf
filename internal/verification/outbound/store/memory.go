package store

import (
	"context"
	"sync"
	"time"

	"github.com/shandysiswandi/goverify/internal/verification/entity"
)

// Memory keeps challenges in process. It suits a single instance deployment.
type Memory struct {
	mu    sync.Mutex
	items map[string]entity.Challenge
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]entity.Challenge)}
}

func (m *Memory) Put(ctx context.Context, c entity.Challenge) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	m.items[c.Identifier] = c
	m.mu.Unlock()

	return nil
}

func (m *Memory) Take(ctx context.Context, identifier string) (*entity.Challenge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.items[identifier]
	if !ok {
		return nil, entity.ErrChallengeNotFound
	}
	delete(m.items, identifier)

	return &c, nil
}

// Sweep drops challenges issued before cutoff and returns how many were removed.
func (m *Memory) Sweep(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for k, c := range m.items {
		if c.IssuedAt.Before(cutoff) {
			delete(m.items, k)
			n++
		}
	}

	return n
}

// Len returns the number of live challenges.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.items)
}
