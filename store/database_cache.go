// database_cache.go - KV-Cache CRUD Operationen
// Enthält: getEntry, putEntry, getEpoch, setEpoch, clearSession
package store

import (
	"database/sql"
	"fmt"

	"github.com/7blacky7/plauderkasten/kvcache"
)

// getEntry liest den persistierten Entry eines Layers, nil wenn keiner existiert.
// Das Encoding (float64 oder float16) steht im Blob-Header.
func (db *database) getEntry(session string, layer int) (*kvcache.Entry, error) {
	var blob []byte
	err := db.conn.QueryRow(
		"SELECT entry FROM cache_entries WHERE session = ? AND layer = ?",
		session, layer,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query cache entry: %w", err)
	}

	e, err := decodeEntry(blob)
	if err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return e, nil
}

// putEntry persistiert den Entry eines Layers (Upsert)
func (db *database) putEntry(session string, layer int, e *kvcache.Entry, f16 bool) error {
	blob, err := encodeEntry(e, f16)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	_, err = db.conn.Exec(`
		INSERT INTO cache_entries (session, layer, entry) VALUES (?, ?, ?)
		ON CONFLICT (session, layer) DO UPDATE SET entry = excluded.entry`,
		session, layer, blob,
	)
	if err != nil {
		return fmt.Errorf("save cache entry: %w", err)
	}
	return nil
}

// getEpoch liest den Gewichts-Fingerprint einer Session ("" = keiner)
func (db *database) getEpoch(session string) (string, error) {
	var epoch string
	err := db.conn.QueryRow("SELECT epoch FROM cache_epochs WHERE session = ?", session).Scan(&epoch)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query epoch: %w", err)
	}
	return epoch, nil
}

// setEpoch vermerkt den Gewichts-Fingerprint einer Session (Upsert)
func (db *database) setEpoch(session, epoch string) error {
	_, err := db.conn.Exec(`
		INSERT INTO cache_epochs (session, epoch) VALUES (?, ?)
		ON CONFLICT (session) DO UPDATE SET epoch = excluded.epoch`,
		session, epoch,
	)
	if err != nil {
		return fmt.Errorf("save epoch: %w", err)
	}
	return nil
}

// clearSession verwirft alle Cache-Entries und den Epoch-Vermerk einer Session
func (db *database) clearSession(session string) error {
	if _, err := db.conn.Exec("DELETE FROM cache_entries WHERE session = ?", session); err != nil {
		return fmt.Errorf("clear cache entries: %w", err)
	}
	if _, err := db.conn.Exec("DELETE FROM cache_epochs WHERE session = ?", session); err != nil {
		return fmt.Errorf("clear epoch: %w", err)
	}
	return nil
}
