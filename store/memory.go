// memory.go - In-Memory Backend
//
// Implementiert kvcache.Backend ohne Datenbank. Wird verwendet, wenn
// PLAUDER_NOSAVE gesetzt ist, und in Tests. Ueberlebt den Prozess nicht.
package store

import (
	"sync"
	"time"

	"github.com/7blacky7/plauderkasten/kvcache"
)

// entryKey ist ein Struct statt eines zusammengesetzten Strings, damit
// Session-IDs jedes Zeichen enthalten duerfen
type entryKey struct {
	session string
	layer   int
}

// Memory ist ein fluechtiges Backend fuer Cache-Entries und Chat-Verlauf
type Memory struct {
	mu      sync.Mutex
	entries map[entryKey]*kvcache.Entry
	epochs  map[string]string
	msgs    map[string][]Message
	nextID  int64
}

// NewMemory erstellt ein leeres In-Memory-Backend
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[entryKey]*kvcache.Entry),
		epochs:  make(map[string]string),
		msgs:    make(map[string][]Message),
	}
}

// GetEntry implementiert kvcache.Backend
func (m *Memory) GetEntry(session string, layer int) (*kvcache.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[entryKey{session, layer}]
	if !ok {
		return nil, nil
	}
	return e.Clone(), nil
}

// PutEntry implementiert kvcache.Backend
func (m *Memory) PutEntry(session string, layer int, e *kvcache.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[entryKey{session, layer}] = e.Clone()
	return nil
}

// Epoch implementiert kvcache.Backend
func (m *Memory) Epoch(session string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.epochs[session], nil
}

// SetEpoch implementiert kvcache.Backend
func (m *Memory) SetEpoch(session, epoch string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.epochs[session] = epoch
	return nil
}

// ClearSession implementiert kvcache.Backend
func (m *Memory) ClearSession(session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.entries {
		if k.session == session {
			delete(m.entries, k)
		}
	}
	delete(m.epochs, session)
	return nil
}

// AppendMessage haengt eine Chat-Nachricht an den Verlauf an
func (m *Memory) AppendMessage(session, role, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.msgs[session] = append(m.msgs[session], Message{
		ID:        m.nextID,
		Session:   session,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

// Messages gibt den Chat-Verlauf einer Session zurueck
func (m *Memory) Messages(session string) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Message(nil), m.msgs[session]...), nil
}

// Sessions gibt alle Sessions mit Cache-Entries zurueck
func (m *Memory) Sessions() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]struct{})
	var sessions []string
	for k := range m.entries {
		if _, ok := seen[k.session]; !ok {
			seen[k.session] = struct{}{}
			sessions = append(sessions, k.session)
		}
	}
	return sessions, nil
}
