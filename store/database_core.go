// database_core.go - Kern-Datenbank-Funktionen
// Enthält: database struct, newDatabase, Close, init
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite-Treiber registrieren
)

// currentSchemaVersion definiert die aktuelle Datenbank-Schema-Version.
// Wird bei Schema-Änderungen erhöht, die Migrationen erfordern.
const currentSchemaVersion = 1

// database umhüllt die SQLite-Verbindung.
// SQLite verwaltet sein eigenes Locking für konkurrierende Zugriffe:
// - Mehrere Leser können gleichzeitig auf die Datenbank zugreifen
// - Schreiber werden serialisiert (nur ein Schreiber gleichzeitig)
// - WAL-Modus erlaubt Lesern, Schreiber nicht zu blockieren
// Der Saver des KV-Caches ist damit ohne Application-Level-Locks sicher.
type database struct {
	conn *sql.DB
}

// newDatabase erstellt eine neue Datenbankverbindung
func newDatabase(dbPath string) (*database, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Verbindung testen
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &database{conn: conn}

	// Schema initialisieren
	if err := db.init(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	return db, nil
}

// Close schließt die Datenbankverbindung
func (db *database) Close() error {
	_, _ = db.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE);")
	return db.conn.Close()
}

// init legt das Schema an, falls es noch nicht existiert
func (db *database) init() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS cache_epochs (
			session TEXT PRIMARY KEY,
			epoch   TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS cache_entries (
			session TEXT    NOT NULL,
			layer   INTEGER NOT NULL,
			entry   BLOB    NOT NULL,
			PRIMARY KEY (session, layer)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			session    TEXT NOT NULL,
			role       TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session, id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	var version int
	err := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		_, err = db.conn.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion)
	}
	if err != nil {
		return fmt.Errorf("schema version: %w", err)
	}

	return nil
}
