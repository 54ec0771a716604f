package persist

import (
	"context"
	"slices"
	"sync"

	"github.com/phanxgames/tether"
)

// Memory keeps the list in process.
type Memory struct {
	mu    sync.Mutex
	tips  []tether.StoredTip
	saved bool
	saves int
}

// NewMemory creates an empty memory backend.
func NewMemory() *Memory { return &Memory{} }

// Load implements Backend.
func (m *Memory) Load(ctx context.Context) ([]tether.StoredTip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return nil, ErrNotFound
	}
	return slices.Clone(m.tips), nil
}

// Save implements Backend.
func (m *Memory) Save(ctx context.Context, tips []tether.StoredTip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tips = slices.Clone(tips)
	m.saved = true
	m.saves++
	return nil
}

// Saves returns the number of Save calls.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Close implements Backend.
func (m *Memory) Close() error { return nil }
