// backend.go - Persistenz-Vertrag des KV-Caches
//
// Ein Backend bildet (Session, Layer) auf serialisierte Entries ab.
// Abwesenheit und Fehler sind gleichwertig mit einem leeren Cache und
// duerfen niemals eine Generierung abbrechen.
package kvcache

// Backend ist der Persistenz-Kollaborateur des Caches.
// Implementierungen liegen im Package store (SQLite und In-Memory).
type Backend interface {
	// GetEntry gibt den persistierten Entry zurueck, nil wenn keiner existiert
	GetEntry(session string, layer int) (*Entry, error)

	// PutEntry persistiert einen Entry (best effort)
	PutEntry(session string, layer int, e *Entry) error

	// Epoch gibt den Gewichts-Fingerprint zurueck, unter dem die
	// persistierten Entries berechnet wurden ("" = keiner)
	Epoch(session string) (string, error)

	// SetEpoch vermerkt den Gewichts-Fingerprint der Session
	SetEpoch(session, epoch string) error

	// ClearSession verwirft alle Entries und den Epoch-Vermerk einer Session
	ClearSession(session string) error
}
