// routes_chat.go - Chat-Handler
//
// POST /api/chat nimmt eine Nachricht entgegen und streamt die Antwort
// token-weise als NDJSON. Mit "stream": false wird die Antwort gesammelt
// und als einzelnes JSON-Objekt geliefert.
package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/7blacky7/plauderkasten/api"
	"github.com/7blacky7/plauderkasten/envconfig"
)

// ChatHandler verarbeitet eine Chat-Nachricht
func (s *Server) ChatHandler(c *gin.Context) {
	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); errors.Is(err, io.EOF) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing request body"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Message == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	id, sess := s.reg.acquire(req.Session)

	ch := make(chan any)
	go func() {
		defer close(ch)

		// Genau eine Generierung pro Session; konkurrierende Anfragen
		// derselben Session warten hier
		sess.mu.Lock()
		defer sess.mu.Unlock()

		if err := s.reg.backend.AppendMessage(id, "user", req.Message); err != nil {
			slog.Warn("persisting user message failed", "session", id, "error", err)
		}

		maxTokens := s.reg.weights.Config.MaxTokens
		delay := envconfig.TokenDelay()
		start := time.Now()
		var evalCount int

		ctx := c.Request.Context()
		full, err := sess.decoder.RespondStream(ctx, req.Message, func(fragment string) error {
			evalCount++

			// Bei abgebrochener Verbindung liest niemand mehr vom Channel
			select {
			case ch <- api.ChatResponse{
				Session:   id,
				CreatedAt: time.Now().UTC(),
				Message:   fragment,
			}:
			case <-ctx.Done():
				return ctx.Err()
			}

			// kuenstliche Tipp-Verzoegerung des Widgets
			if delay > 0 {
				time.Sleep(delay)
			}
			return nil
		})
		if err != nil {
			slog.Error("chat generation failed", "session", id, "error", err)
			select {
			case ch <- gin.H{"error": err.Error()}:
			case <-ctx.Done():
			}
			return
		}

		if err := s.reg.backend.AppendMessage(id, "assistant", full); err != nil {
			slog.Warn("persisting assistant message failed", "session", id, "error", err)
		}

		doneReason := "stop"
		if evalCount >= maxTokens {
			doneReason = "length"
		}

		select {
		case ch <- api.ChatResponse{
			Session:    id,
			CreatedAt:  time.Now().UTC(),
			Done:       true,
			DoneReason: doneReason,
			Metrics: api.Metrics{
				TotalDuration: time.Since(start),
				EvalCount:     evalCount,
				EvalDuration:  time.Since(start),
			},
		}:
		case <-ctx.Done():
		}
	}()

	if req.Stream != nil && !*req.Stream {
		waitForChat(c, ch)
		return
	}

	streamResponse(c, ch)
}
