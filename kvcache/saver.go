// saver.go - Asynchrone Persistierung (fire and forget)
//
// Der Decoder stoesst nach jedem Layer-Schritt einen Save an, wartet aber
// nie darauf. Vertrag: at most once, best effort. Innerhalb eines Prozesses
// ist der Memory-Cache die Wahrheit; das Backend wird nur einmal pro
// Session-Start gelesen.
package kvcache

import "log/slog"

type saveJob struct {
	layer int
	entry *Entry
}

// Save persistiert den Entry eines Layers asynchron.
// Blockiert nie: ist der Queue voll oder der Cache bereits geschlossen,
// wird der Schreibvorgang verworfen.
func (c *Cache) Save(layer int) {
	if c.backend == nil {
		return
	}

	job := saveJob{layer: layer, entry: c.entries[layer].Clone()}

	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	if c.closed {
		slog.Debug("kv cache closed, dropping write", "session", c.session, "layer", layer)
		return
	}

	select {
	case c.saves <- job:
	default:
		slog.Debug("kv cache save queue full, dropping write", "session", c.session, "layer", layer)
	}
}

// runSaver verarbeitet Save-Jobs bis Close aufgerufen wird.
// Backend-Fehler sind nie fatal und werden nur geloggt.
func (c *Cache) runSaver() {
	defer close(c.done)

	for job := range c.saves {
		if err := c.backend.PutEntry(c.session, job.layer, job.entry); err != nil {
			slog.Debug("kv cache save failed", "session", c.session, "layer", job.layer, "error", err)
		}
	}
}

// Close stoppt den Saver und wartet, bis ausstehende Jobs geschrieben sind.
// Weitere Close-Aufrufe und spaete Saves sind No-ops.
func (c *Cache) Close() {
	c.saveMu.Lock()
	if c.closed {
		c.saveMu.Unlock()
		return
	}
	c.closed = true
	c.saveMu.Unlock()

	close(c.saves)
	<-c.done
}
