// routes_misc.go - Status-, Reset- und History-Handler plus Stream-Funktionen
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/7blacky7/plauderkasten/api"
)

// StatusHandler gibt die Modell-Dimensionen und den Cache-Fuellstand
// aller geladenen Sessions zurueck
func (s *Server) StatusHandler(c *gin.Context) {
	cfg := s.reg.weights.Config

	c.JSON(http.StatusOK, api.StatusResponse{
		Model: api.ModelInfo{
			Layers:    cfg.Layers,
			Dim:       cfg.Dim,
			VocabSize: cfg.VocabSize,
			MaxTokens: cfg.MaxTokens,
			Epoch:     s.reg.weights.Epoch,
		},
		Scope:    s.reg.scope,
		Sessions: s.reg.status(),
	})
}

// ResetHandler verwirft den Cache einer Session (oder aller Sessions)
func (s *Server) ResetHandler(c *gin.Context) {
	var req api.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.reg.reset(req.Session); err != nil {
		slog.Error("reset failed", "session", req.Session, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// HistoryHandler gibt den persistierten Chat-Verlauf einer Session zurueck
func (s *Server) HistoryHandler(c *gin.Context) {
	session := c.Query("session")
	if session == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "session is required"})
		return
	}

	msgs, err := s.reg.backend.Messages(session)
	if err != nil {
		slog.Error("loading history failed", "session", session, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := api.HistoryResponse{Session: session, Messages: make([]api.Message, 0, len(msgs))}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, api.Message{
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// waitForChat sammelt eine gestreamte Antwort zu einer einzelnen Response
func waitForChat(c *gin.Context, ch chan any) {
	c.Header("Content-Type", "application/json")

	var final api.ChatResponse
	var collected string
	for resp := range ch {
		switch r := resp.(type) {
		case api.ChatResponse:
			collected += r.Message
			if r.Done {
				final = r
			}
		case gin.H:
			status, ok := r["status"].(int)
			if !ok {
				status = http.StatusInternalServerError
			}
			errorMsg, ok := r["error"].(string)
			if !ok {
				errorMsg = "unknown error"
			}
			c.JSON(status, gin.H{"error": errorMsg})
			return
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown message type"})
			return
		}
	}

	final.Message = collected
	c.JSON(http.StatusOK, final)
}

// streamResponse streamt ndjson Responses
func streamResponse(c *gin.Context, ch chan any) {
	c.Header("Content-Type", "application/x-ndjson")
	c.Stream(func(w io.Writer) bool {
		val, ok := <-ch
		if !ok {
			return false
		}

		if h, ok := val.(gin.H); ok {
			if e, ok := h["error"].(string); ok {
				status, ok := h["status"].(int)
				if !ok {
					status = http.StatusInternalServerError
				}

				if !c.Writer.Written() {
					c.Header("Content-Type", "application/json")
					c.JSON(status, gin.H{"error": e})
				} else {
					if err := json.NewEncoder(c.Writer).Encode(gin.H{"error": e}); err != nil {
						slog.Error("streamResponse failed to encode json error", "error", err)
					}
				}

				return false
			}
		}

		bts, err := json.Marshal(val)
		if err != nil {
			slog.Info(fmt.Sprintf("streamResponse: json.Marshal failed with %s", err))
			return false
		}

		bts = append(bts, '\n')
		if _, err := w.Write(bts); err != nil {
			slog.Info(fmt.Sprintf("streamResponse: w.Write failed with %s", err))
			return false
		}

		return true
	})
}
