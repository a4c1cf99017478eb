package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultIdleTTL = 4 * time.Hour

// Manager owns one Cart per visitor session. Carts live in memory only;
// an idle session's cart is dropped by the sweeper, which matches the
// browser-session lifetime of the order flow.
type Manager struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*entry
	idleTTL time.Duration
}

type entry struct {
	cart     *Cart
	lastSeen time.Time
}

func NewManager() *Manager {
	return &Manager{
		entries: make(map[uuid.UUID]*entry),
		idleTTL: defaultIdleTTL,
	}
}

// Cart returns the session's cart, creating it on first use.
func (m *Manager) Cart(sessionID uuid.UUID) *Cart {
	now := time.Now()

	m.mu.RLock()
	e, ok := m.entries[sessionID]
	m.mu.RUnlock()
	if ok {
		m.mu.Lock()
		e.lastSeen = now
		m.mu.Unlock()
		return e.cart
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[sessionID]; ok {
		e.lastSeen = now
		return e.cart
	}
	e = &entry{cart: New(), lastSeen: now}
	m.entries[sessionID] = e
	return e.cart
}

// Sweep drops carts idle longer than the TTL and reports how many.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.entries {
		if now.Sub(e.lastSeen) > m.idleTTL {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on an interval until the context is cancelled.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				m.Sweep(now)
			}
		}
	}()
}

// Len reports the number of live session carts.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
