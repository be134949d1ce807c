package goal

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryLedger is an in-memory LedgerRepository used by tests and
// local development. Records keep insertion order per user.
type MemoryLedger struct {
	mu      sync.Mutex
	records []*GoalRecord
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

func (m *MemoryLedger) Create(ctx context.Context, rec *GoalRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.records {
		if existing.UserID == rec.UserID && existing.Name == rec.Name {
			return ErrDuplicateGoalName
		}
	}
	stored := *rec
	m.records = append(m.records, &stored)
	return nil
}

func (m *MemoryLedger) Upsert(ctx context.Context, rec *GoalRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for n, existing := range m.records {
		if existing.UserID == rec.UserID && existing.Name == rec.Name {
			updated := *rec
			updated.ID = existing.ID
			updated.CreatedAt = existing.CreatedAt
			m.records[n] = &updated
			return nil
		}
	}
	stored := *rec
	m.records = append(m.records, &stored)
	return nil
}

func (m *MemoryLedger) FindByName(ctx context.Context, userID uuid.UUID, name string) (*GoalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.records {
		if rec.UserID == userID && rec.Name == name {
			found := *rec
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MemoryLedger) ListByUser(ctx context.Context, userID uuid.UUID) ([]*GoalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*GoalRecord
	for _, rec := range m.records {
		if rec.UserID == userID {
			found := *rec
			out = append(out, &found)
		}
	}
	return out, nil
}

func (m *MemoryLedger) DeleteByName(ctx context.Context, userID uuid.UUID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for n, rec := range m.records {
		if rec.UserID == userID && rec.Name == name {
			m.records = append(m.records[:n], m.records[n+1:]...)
			return nil
		}
	}
	return nil
}

var _ LedgerRepository = (*MemoryLedger)(nil)

// MemoryIndex is an in-memory NameIndex counterpart to MemoryLedger.
type MemoryIndex struct {
	mu    sync.Mutex
	lists map[uuid.UUID]map[Bucket][]string
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{lists: make(map[uuid.UUID]map[Bucket][]string)}
}

func (m *MemoryIndex) userLists(userID uuid.UUID) map[Bucket][]string {
	if m.lists[userID] == nil {
		m.lists[userID] = make(map[Bucket][]string)
	}
	return m.lists[userID]
}

func remove(names []string, name string) []string {
	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

func (m *MemoryIndex) Append(ctx context.Context, userID uuid.UUID, bucket Bucket, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lists := m.userLists(userID)
	lists[bucket] = append(remove(lists[bucket], name), name)
	return nil
}

func (m *MemoryIndex) Move(ctx context.Context, userID uuid.UUID, from, to Bucket, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lists := m.userLists(userID)
	lists[from] = remove(lists[from], name)
	lists[to] = append(remove(lists[to], name), name)
	return nil
}

func (m *MemoryIndex) RemoveAll(ctx context.Context, userID uuid.UUID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lists := m.userLists(userID)
	for _, bucket := range Buckets() {
		lists[bucket] = remove(lists[bucket], name)
	}
	return nil
}

func (m *MemoryIndex) Names(ctx context.Context, userID uuid.UUID, bucket Bucket) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := m.userLists(userID)[bucket]
	out := make([]string, len(names))
	copy(out, names)
	return out, nil
}

func (m *MemoryIndex) All(ctx context.Context, userID uuid.UUID) (map[Bucket][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[Bucket][]string, len(Buckets()))
	for _, bucket := range Buckets() {
		names := m.userLists(userID)[bucket]
		copied := make([]string, len(names))
		copy(copied, names)
		out[bucket] = copied
	}
	return out, nil
}

func (m *MemoryIndex) Rebuild(ctx context.Context, userID uuid.UUID, entries map[Bucket][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lists := make(map[Bucket][]string, len(Buckets()))
	for _, bucket := range Buckets() {
		names := make([]string, len(entries[bucket]))
		copy(names, entries[bucket])
		lists[bucket] = names
	}
	m.lists[userID] = lists
	return nil
}

var _ NameIndex = (*MemoryIndex)(nil)
