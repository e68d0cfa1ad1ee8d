// types.go - Core API Types (Requests, Responses, Errors, Metriken)
// Enthaelt: StatusError, ChatRequest/ChatResponse, StatusResponse,
// ResetRequest, HistoryResponse, Metrics
package api

import (
	"fmt"
	"time"
)

// StatusError is an error with an HTTP status code and message.
type StatusError struct {
	StatusCode   int
	Status       string
	ErrorMessage string `json:"error"`
}

func (e StatusError) Error() string {
	switch {
	case e.Status != "" && e.ErrorMessage != "":
		return fmt.Sprintf("%s: %s", e.Status, e.ErrorMessage)
	case e.Status != "":
		return e.Status
	case e.ErrorMessage != "":
		return e.ErrorMessage
	default:
		// this should not happen
		return "something went wrong, please see the plauderkasten server logs for details"
	}
}

// ChatRequest ist der Request-Body fuer /api/chat.
// Eine leere Session laesst den Server eine neue Session-ID vergeben.
type ChatRequest struct {
	Session string `json:"session,omitempty"`
	Message string `json:"message"`

	// Stream=false sammelt die Antwort in einer einzigen Response
	Stream *bool `json:"stream,omitempty"`
}

// Metrics enthaelt Performance-Metriken fuer Anfragen
type Metrics struct {
	TotalDuration time.Duration `json:"total_duration,omitempty"`
	EvalCount     int           `json:"eval_count,omitempty"`
	EvalDuration  time.Duration `json:"eval_duration,omitempty"`
}

// ChatResponse ist ein NDJSON-Fragment (oder die gesammelte Antwort)
// von /api/chat
type ChatResponse struct {
	Session   string    `json:"session"`
	CreatedAt time.Time `json:"created_at"`
	Message   string    `json:"message"`

	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason,omitempty"`

	Metrics
}

// ModelInfo beschreibt die Modell-Dimensionen und die Gewichts-Epoche
type ModelInfo struct {
	Layers    int    `json:"layers"`
	Dim       int    `json:"dim"`
	VocabSize int    `json:"vocab_size"`
	MaxTokens int    `json:"max_tokens"`
	Epoch     string `json:"epoch"`
}

// LayerStatus ist der Fuellstand eines Layer-Caches
type LayerStatus struct {
	Layer     int `json:"layer"`
	Positions int `json:"positions"`
}

// SessionStatus ist der Cache-Zustand einer Session
type SessionStatus struct {
	Session string        `json:"session"`
	Layers  []LayerStatus `json:"layers"`
	Bytes   uint64        `json:"bytes"`
}

// StatusResponse ist die Antwort von /api/status
type StatusResponse struct {
	Model    ModelInfo       `json:"model"`
	Scope    string          `json:"scope"`
	Sessions []SessionStatus `json:"sessions"`
}

// ResetRequest ist der Request-Body fuer /api/reset.
// Eine leere Session setzt alle Sessions zurueck.
type ResetRequest struct {
	Session string `json:"session,omitempty"`
}

// Message ist eine Nachricht des persistierten Chat-Verlaufs
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryResponse ist die Antwort von /api/history
type HistoryResponse struct {
	Session  string    `json:"session"`
	Messages []Message `json:"messages"`
}
