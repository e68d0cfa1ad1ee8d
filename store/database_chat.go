// database_chat.go - Chat-Verlauf CRUD Operationen
// Enthält: appendMessage, getMessages, getSessions
package store

import "fmt"

// appendMessage haengt eine Nachricht an den Verlauf einer Session an
func (db *database) appendMessage(session, role, content string) error {
	_, err := db.conn.Exec(
		"INSERT INTO messages (session, role, content) VALUES (?, ?, ?)",
		session, role, content,
	)
	if err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

// getMessages gibt alle Nachrichten einer Session in Einfuege-Reihenfolge zurueck
func (db *database) getMessages(session string) ([]Message, error) {
	rows, err := db.conn.Query(
		"SELECT id, session, role, content, created_at FROM messages WHERE session = ? ORDER BY id",
		session,
	)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Session, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return msgs, nil
}

// getSessions gibt alle Sessions mit persistierten Cache-Entries zurueck
func (db *database) getSessions() ([]string, error) {
	rows, err := db.conn.Query("SELECT DISTINCT session FROM cache_entries ORDER BY session")
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}
