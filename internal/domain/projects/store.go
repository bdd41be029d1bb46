package projects

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	// ErrNotFound is returned when no snapshot is stored under a name.
	ErrNotFound = errors.New("project not found")

	// ErrBlankName is returned for an empty project name.
	ErrBlankName = errors.New("project name must not be blank")

	// ErrInvalidSnapshot is returned when a raw snapshot is not JSON.
	ErrInvalidSnapshot = errors.New("project snapshot is not valid JSON")
)

// ProjectStore is the key-value collaborator holding opaque snapshots by name
type ProjectStore interface {
	Save(ctx context.Context, name string, snapshot []byte) error
	LoadAll(ctx context.Context) (map[string][]byte, error)
	Delete(ctx context.Context, name string) error
}

// Getter is implemented by stores that can read a single snapshot directly
type Getter interface {
	Get(ctx context.Context, name string) ([]byte, error)
}

// MemoryStore keeps snapshots in memory
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string][]byte)}
}

// Save stores a copy of snapshot under name
func (m *MemoryStore) Save(_ context.Context, name string, snapshot []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[name] = append([]byte(nil), snapshot...)
	return nil
}

// Get returns the snapshot stored under name
func (m *MemoryStore) Get(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.snapshots[name]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// LoadAll returns copies of every snapshot
func (m *MemoryStore) LoadAll(_ context.Context) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]byte, len(m.snapshots))
	for name, data := range m.snapshots {
		out[name] = append([]byte(nil), data...)
	}
	return out, nil
}

// Delete removes a snapshot. Missing names are ignored.
func (m *MemoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, name)
	return nil
}

// sortedNames returns the keys of all in name order
func sortedNames(all map[string][]byte) []string {
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
