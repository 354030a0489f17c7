package store

import "sync"

// Manager hands out the one DraftStore per session. Stores are built lazily
// on first access and kept for the life of the process; their persisted
// state outlives them in durable storage.
type Manager struct {
	mu       sync.Mutex
	durable  Storage
	volatile Storage
	stores   map[string]*DraftStore
}

func NewManager(durable, volatile Storage) *Manager {
	return &Manager{
		durable:  durable,
		volatile: volatile,
		stores:   make(map[string]*DraftStore),
	}
}

func (m *Manager) ForSession(session string) *DraftStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[session]; ok {
		return s
	}
	s := NewDraftStore(session, m.durable, m.volatile)
	m.stores[session] = s
	return s
}
