// store_core.go - Oeffentliche Store-API
// Enthält: Store struct, New, Close; implementiert kvcache.Backend
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/7blacky7/plauderkasten/kvcache"
)

// Store ist der Persistenz-Kollaborateur: KV-Cache-Entries, Epoch-Vermerke
// und Chat-Verlauf in einer SQLite-Datenbank.
type Store struct {
	db  *database
	f16 bool
}

// Message ist eine persistierte Chat-Nachricht
type Message struct {
	ID        int64     `json:"id"`
	Session   string    `json:"session"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// New oeffnet (oder erstellt) die Datenbank unter path.
// f16 waehlt die kompakte float16-Kodierung fuer Cache-Vektoren.
func New(path string, f16 bool) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := newDatabase(path)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, f16: f16}, nil
}

// Close schliesst die Datenbank
func (s *Store) Close() error {
	return s.db.Close()
}

// GetEntry implementiert kvcache.Backend
func (s *Store) GetEntry(session string, layer int) (*kvcache.Entry, error) {
	return s.db.getEntry(session, layer)
}

// PutEntry implementiert kvcache.Backend
func (s *Store) PutEntry(session string, layer int, e *kvcache.Entry) error {
	return s.db.putEntry(session, layer, e, s.f16)
}

// Epoch implementiert kvcache.Backend
func (s *Store) Epoch(session string) (string, error) {
	return s.db.getEpoch(session)
}

// SetEpoch implementiert kvcache.Backend
func (s *Store) SetEpoch(session, epoch string) error {
	return s.db.setEpoch(session, epoch)
}

// ClearSession implementiert kvcache.Backend
func (s *Store) ClearSession(session string) error {
	return s.db.clearSession(session)
}

// AppendMessage haengt eine Chat-Nachricht an den Verlauf an
func (s *Store) AppendMessage(session, role, content string) error {
	return s.db.appendMessage(session, role, content)
}

// Messages gibt den Chat-Verlauf einer Session in Einfuege-Reihenfolge zurueck
func (s *Store) Messages(session string) ([]Message, error) {
	return s.db.getMessages(session)
}

// Sessions gibt alle Session-IDs mit persistierten Cache-Entries zurueck
func (s *Store) Sessions() ([]string, error) {
	return s.db.getSessions()
}
