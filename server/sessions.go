// sessions.go - Session-Registry
//
// Verwaltet pro Session einen Decoder mit eigenem Cache-Handle. Genau eine
// Generierung pro Session laeuft gleichzeitig (session.mu); verschiedene
// Sessions dekodieren parallel. Im Scope "process" teilen sich alle Anfragen
// eine einzige Session wie im urspruenglichen Widget.
package server

import (
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/7blacky7/plauderkasten/api"
	"github.com/7blacky7/plauderkasten/envconfig"
	"github.com/7blacky7/plauderkasten/kvcache"
	"github.com/7blacky7/plauderkasten/model"
)

// processSession ist die eine geteilte Session im Scope "process"
const processSession = "global"

type session struct {
	mu      sync.Mutex
	decoder *model.Decoder
}

type registry struct {
	weights *model.Weights
	backend chatBackend
	scope   string
	window  int

	mu       sync.Mutex
	sessions map[string]*session
}

func newRegistry(w *model.Weights, backend chatBackend, scope string, window int) *registry {
	return &registry{
		weights:  w,
		backend:  backend,
		scope:    scope,
		window:   window,
		sessions: make(map[string]*session),
	}
}

// acquire gibt die Session zu id zurueck und legt sie bei Bedarf an.
// Eine leere id erhaelt eine frische UUID; im Scope "process" landen alle
// Anfragen in derselben Session.
func (r *registry) acquire(id string) (string, *session) {
	if r.scope == envconfig.ScopeProcess {
		id = processSession
	} else if id == "" {
		id = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		cache := kvcache.New(r.backend, id, r.weights.Config.Layers, r.weights.Epoch, r.window)
		sess = &session{decoder: model.NewDecoder(r.weights, cache)}
		r.sessions[id] = sess
		slog.Debug("session created", "session", id, "cached", cache.Len(0))
	}

	return id, sess
}

// reset verwirft den Cache einer Session, oder aller Sessions bei leerer id.
// Persistierte Entries nicht-geladener Sessions werden mit geraeumt.
func (r *registry) reset(id string) error {
	if id != "" {
		return r.resetOne(id)
	}

	r.mu.Lock()
	ids := make(map[string]struct{}, len(r.sessions))
	for sid := range r.sessions {
		ids[sid] = struct{}{}
	}
	r.mu.Unlock()

	if persisted, err := r.backend.Sessions(); err == nil {
		for _, sid := range persisted {
			ids[sid] = struct{}{}
		}
	} else {
		slog.Warn("listing persisted sessions failed", "error", err)
	}

	for sid := range ids {
		if err := r.resetOne(sid); err != nil {
			return err
		}
	}
	return nil
}

func (r *registry) resetOne(id string) error {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	r.mu.Unlock()

	if !ok {
		// nie geladen, nur die persistierten Entries raeumen
		return r.backend.ClearSession(id)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.decoder.Cache().Reset()
}

// status gibt den Cache-Fuellstand aller geladenen Sessions zurueck
func (r *registry) status() []api.SessionStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	statuses := make([]api.SessionStatus, 0, len(r.sessions))
	for id, sess := range r.sessions {
		sess.mu.Lock()
		cache := sess.decoder.Cache()
		st := api.SessionStatus{Session: id, Bytes: cache.Bytes()}
		for l := 0; l < cache.Layers(); l++ {
			st.Layers = append(st.Layers, api.LayerStatus{Layer: l, Positions: cache.Len(l)})
		}
		sess.mu.Unlock()
		statuses = append(statuses, st)
	}

	slices.SortFunc(statuses, func(a, b api.SessionStatus) int {
		return strings.Compare(a.Session, b.Session)
	})
	return statuses
}

// close wartet die Save-Queues aller Sessions ab
func (r *registry) close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, sess := range r.sessions {
		sess.mu.Lock()
		sess.decoder.Cache().Close()
		sess.mu.Unlock()
		delete(r.sessions, id)
	}
}
