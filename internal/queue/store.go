package queue

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/pruebavolte/salvadorex-queue/internal/models"
)

// TenantState is everything a single tenant's queue owns. Entries stay in
// insertion order and are never reordered or compacted; status changes
// happen in place. DailyCounters maps a calendar-day key to the last ticket
// number issued on that day.
type TenantState struct {
	Entries       []*models.QueueEntry
	DailyCounters map[string]int
	Stats         models.TenantStats
}

// Store owns one TenantState per tenant and serializes access to it.
// WithTenant runs fn while holding the tenant's exclusive lock, creating
// the state lazily on first access. Different tenants proceed concurrently.
type Store interface {
	WithTenant(tenantID string, fn func(state *TenantState) error) error
}

type tenantSlot struct {
	mu    sync.Mutex
	state *TenantState
}

type MemStore struct {
	mu      sync.RWMutex
	tenants map[string]*tenantSlot
	log     *zerolog.Logger
}

// NewMemStore initializes a new in-memory Store.
func NewMemStore(log *zerolog.Logger) *MemStore {
	return &MemStore{
		mu:      sync.RWMutex{},
		tenants: make(map[string]*tenantSlot),
		log:     log,
	}
}

// WithTenant acquires the tenant's lock and runs fn against its mutable
// state. Mutations for one tenant are strictly serialized; fn must not
// block on I/O while the lock is held.
func (ms *MemStore) WithTenant(tenantID string, fn func(state *TenantState) error) error {
	slot := ms.slotFor(tenantID)

	slot.mu.Lock()
	defer slot.mu.Unlock()

	return fn(slot.state)
}

// slotFor resolves the tenant's slot, creating it on first access. The
// double-checked locking guards the creation race on the tenant map.
func (ms *MemStore) slotFor(tenantID string) *tenantSlot {
	ms.mu.RLock()
	slot, ok := ms.tenants[tenantID]
	ms.mu.RUnlock()

	if ok {
		return slot
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if slot, ok = ms.tenants[tenantID]; ok {
		return slot
	}

	slot = &tenantSlot{
		mu: sync.Mutex{},
		state: &TenantState{
			Entries:       make([]*models.QueueEntry, 0),
			DailyCounters: make(map[string]int),
			Stats:         models.TenantStats{},
		},
	}
	ms.tenants[tenantID] = slot

	ms.log.Debug().Str("tenantID", tenantID).Msg("tenant queue state created")

	return slot
}
