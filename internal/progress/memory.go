package progress

import (
	"context"
	"sync"
	"time"

	"github.com/ayoubbkt/airecruitaipme/internal/models"
)

type memoryEntry struct {
	total     int
	processed int
	failed    int
	status    string
	report    *models.BatchReport
	expiresAt time.Time
}

// MemoryStore is an in-process Store with expiring entries
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a store whose entries expire after ttl
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// get returns a live entry, dropping it if expired. Callers hold mu.
func (m *MemoryStore) get(id string) (*memoryEntry, bool) {
	e, ok := m.entries[id]
	if !ok {
		return nil, false
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, id)
		return nil, false
	}
	return e, true
}

func (m *MemoryStore) Start(ctx context.Context, id string, total int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	m.entries[id] = &memoryEntry{
		total:     total,
		status:    models.StatusProcessing,
		expiresAt: m.now().Add(m.ttl),
	}
	return nil
}

func (m *MemoryStore) Increment(ctx context.Context, id string, failed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.get(id)
	if !ok {
		return ErrNotFound
	}
	e.processed++
	if failed {
		e.failed++
	}
	e.expiresAt = m.now().Add(m.ttl)
	return nil
}

func (m *MemoryStore) Complete(ctx context.Context, report models.BatchReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.get(report.ID)
	if !ok {
		return ErrNotFound
	}
	e.status = models.StatusCompleted
	e.report = &report
	e.expiresAt = m.now().Add(m.ttl)
	return nil
}

func (m *MemoryStore) Status(ctx context.Context, id string) (models.BatchStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.get(id)
	if !ok {
		return models.BatchStatus{}, ErrNotFound
	}
	return newStatus(id, e.total, e.processed, e.failed, e.status), nil
}

func (m *MemoryStore) Report(ctx context.Context, id string) (models.BatchReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.get(id)
	if !ok || e.report == nil {
		return models.BatchReport{}, ErrNotFound
	}
	return *e.report, nil
}

// sweep drops expired entries. Callers hold mu.
func (m *MemoryStore) sweep() {
	now := m.now()
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, id)
		}
	}
}

func (m *MemoryStore) Close() error { return nil }
