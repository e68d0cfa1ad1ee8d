// constructors.go - Konstruktion und Laden des Caches
// Hauptfunktionen: New, load
package kvcache

import (
	"fmt"
	"log/slog"
	"sync"
)

// saveQueueDepth begrenzt die Anzahl ausstehender Persistierungs-Jobs.
// Ein voller Queue laesst den Decode-Pfad nie blockieren, der Schreibvorgang
// wird stattdessen verworfen (at most once, best effort).
const saveQueueDepth = 64

// Cache ist die Key/Value-Historie einer Session ueber alle Layer.
// Genau eine Generierung mutiert den Cache gleichzeitig; der Handle wird
// explizit in jeden Decoder-Schritt gereicht statt als globaler Zustand.
type Cache struct {
	session string
	epoch   string
	window  int

	entries []*Entry
	backend Backend

	// saveMu schuetzt closed gegen das Rennen zwischen Save (Decode-Pfad)
	// und Close (Shutdown); Save auf einem geschlossenen Cache wird wie
	// ein voller Queue behandelt und verworfen
	saveMu sync.Mutex
	closed bool
	saves  chan saveJob
	done   chan struct{}
}

// New erstellt den Cache-Handle einer Session und laedt die persistierten
// Entries. epoch ist der Fingerprint der aktuellen Gewichte: stimmt er nicht
// mit dem persistierten ueberein, wird der alte Cache verworfen, denn seine
// Keys/Values wurden unter inzwischen verworfenen Gewichten berechnet.
// window > 0 begrenzt die Historie pro Layer (Sliding Window), 0 waechst
// unbegrenzt wie im urspruenglichen Widget.
func New(backend Backend, session string, layers int, epoch string, window int) *Cache {
	c := &Cache{
		session: session,
		epoch:   epoch,
		window:  window,
		entries: make([]*Entry, layers),
		backend: backend,
		saves:   make(chan saveJob, saveQueueDepth),
		done:    make(chan struct{}),
	}

	for l := range c.entries {
		c.entries[l] = &Entry{}
	}

	c.load()

	go c.runSaver()

	return c
}

// load uebernimmt persistierte Entries ins Memory.
// Fehler degradieren immer zu einem leeren Cache.
func (c *Cache) load() {
	if c.backend == nil {
		return
	}

	stored, err := c.backend.Epoch(c.session)
	if err != nil {
		slog.Warn("kv cache load failed, starting empty", "session", c.session, "error", err)
		return
	}

	if stored != "" && stored != c.epoch {
		// Gewichte werden pro Prozessstart neu gewuerfelt; ein Cache aus
		// einer anderen Epoche passt nicht zu den aktuellen Gewichten
		slog.Warn("kv cache weight epoch mismatch, discarding persisted cache",
			"session", c.session, "stored", stored, "current", c.epoch)
		if err := c.backend.ClearSession(c.session); err != nil {
			slog.Debug("kv cache clear failed", "session", c.session, "error", err)
		}
		c.markEpoch()
		return
	}

	if stored == "" {
		c.markEpoch()
	}

	for l := range c.entries {
		e, err := c.backend.GetEntry(c.session, l)
		if err != nil {
			slog.Warn("kv cache layer load failed, starting empty", "session", c.session, "layer", l, "error", err)
			continue
		}
		if e == nil {
			continue
		}

		if err := e.Check(); err != nil {
			dropped := e.repair()
			slog.Warn("kv cache entry repaired", "session", c.session, "layer", l, "dropped", dropped)
		}

		e.truncate(c.window)
		c.entries[l] = e
	}
}

func (c *Cache) markEpoch() {
	if err := c.backend.SetEpoch(c.session, c.epoch); err != nil {
		slog.Debug("kv cache epoch write failed", "session", c.session, "error", err)
	}
}

// Session gibt die Session-ID des Handles zurueck
func (c *Cache) Session() string {
	return c.session
}

// Layers gibt die Anzahl der Layer zurueck
func (c *Cache) Layers() int {
	return len(c.entries)
}

// Len gibt die Anzahl gecachter Positionen eines Layers zurueck
func (c *Cache) Len(layer int) int {
	return c.entries[layer].Len()
}

// Entry gibt die Historie eines Layers zum Lesen zurueck.
// Der Decoder iteriert darueber fuer die Attention-Scores; mutiert wird
// ausschliesslich ueber Append.
func (c *Cache) Entry(layer int) *Entry {
	return c.entries[layer]
}

// Append haengt genau ein Key/Value-Paar an einen Layer an.
// Muss pro Layer genau einmal pro Decoder-Schritt aufgerufen werden.
func (c *Cache) Append(layer int, key, value []float64) error {
	e := c.entries[layer]
	if err := e.Check(); err != nil {
		return fmt.Errorf("layer %d: %w", layer, err)
	}

	e.Append(key, value)
	e.truncate(c.window)
	return nil
}

// Bytes schaetzt den Speicherverbrauch aller Entries
func (c *Cache) Bytes() uint64 {
	var n uint64
	for _, e := range c.entries {
		for _, k := range e.Keys {
			n += uint64(len(k)) * 8
		}
		for _, v := range e.Values {
			n += uint64(len(v)) * 8
		}
	}
	return n
}

// Reset verwirft die Historie im Speicher und im Backend
func (c *Cache) Reset() error {
	for l := range c.entries {
		c.entries[l] = &Entry{}
	}

	if c.backend == nil {
		return nil
	}

	if err := c.backend.ClearSession(c.session); err != nil {
		return fmt.Errorf("clear session %q: %w", c.session, err)
	}
	c.markEpoch()
	return nil
}
