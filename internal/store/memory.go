package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/conciliar/balancete/backend/internal/balancete"
)

// MemoryStore implements the Store interface with in-memory storage. It
// mirrors the Firestore layout (periods keyed per user) and fans out full
// snapshots to watchers on every mutation.
type MemoryStore struct {
	mu sync.RWMutex

	// userID -> period key -> period
	periods map[string]map[string]*balancete.Period
	// userID -> subscriber id -> snapshot channel
	watchers map[string]map[string]chan []*balancete.Period
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		periods:  make(map[string]map[string]*balancete.Period),
		watchers: make(map[string]map[string]chan []*balancete.Period),
	}
}

func clonePeriod(p *balancete.Period) *balancete.Period {
	out := *p
	out.Contas = make([]balancete.Account, len(p.Contas))
	copy(out.Contas, p.Contas)
	return &out
}

// snapshotLocked builds the sorted period list for one user. Callers hold mu.
func (m *MemoryStore) snapshotLocked(userID string) []*balancete.Period {
	var periods []*balancete.Period
	for _, p := range m.periods[userID] {
		periods = append(periods, clonePeriod(p))
	}
	balancete.SortPeriodsDesc(periods)
	return periods
}

// notifyLocked pushes the current snapshot to every watcher of userID.
// Watcher channels hold one pending snapshot; a stale one is dropped first so
// a slow consumer only ever sees the latest state.
func (m *MemoryStore) notifyLocked(userID string) {
	for _, ch := range m.watchers[userID] {
		snapshot := m.snapshotLocked(userID)
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}

func (m *MemoryStore) CreatePeriod(ctx context.Context, userID string, period *balancete.Period) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.periods[userID] == nil {
		m.periods[userID] = make(map[string]*balancete.Period)
	}
	m.periods[userID][period.Key()] = clonePeriod(period)
	m.notifyLocked(userID)
	return nil
}

func (m *MemoryStore) GetPeriod(ctx context.Context, userID, key string) (*balancete.Period, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	period, ok := m.periods[userID][key]
	if !ok {
		return nil, ErrPeriodNotFound
	}
	return clonePeriod(period), nil
}

func (m *MemoryStore) UpdatePeriod(ctx context.Context, userID string, period *balancete.Period) error {
	return m.CreatePeriod(ctx, userID, period)
}

func (m *MemoryStore) DeletePeriod(ctx context.Context, userID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.periods[userID], key)
	m.notifyLocked(userID)
	return nil
}

func (m *MemoryStore) ListPeriods(ctx context.Context, userID string) ([]*balancete.Period, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.snapshotLocked(userID), nil
}

func (m *MemoryStore) WatchPeriods(ctx context.Context, userID string) (<-chan []*balancete.Period, error) {
	m.mu.Lock()
	id := uuid.New().String()
	ch := make(chan []*balancete.Period, 1)
	if m.watchers[userID] == nil {
		m.watchers[userID] = make(map[string]chan []*balancete.Period)
	}
	m.watchers[userID][id] = ch
	ch <- m.snapshotLocked(userID)
	m.mu.Unlock()

	out := make(chan []*balancete.Period, 1)
	go func() {
		defer func() {
			m.mu.Lock()
			delete(m.watchers[userID], id)
			m.mu.Unlock()
			close(out)
		}()
		for {
			select {
			case snapshot := <-ch:
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
