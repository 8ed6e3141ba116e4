package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/ragso"
	"github.com/aretw0/ragso/internal/logging"
	"github.com/aretw0/ragso/pkg/domain"
	"github.com/aretw0/ragso/pkg/runner"
	"github.com/aretw0/ragso/pkg/session"
	"github.com/go-chi/chi/v5"
)

// Engine is the part of ragso.Engine the server needs.
type Engine interface {
	NewSession(id string) *domain.Session
	Apply(ctx context.Context, sess *domain.Session, ev domain.Event) (*domain.Session, error)
	QuickReplies() []string
	QuickReply(n int) (string, error)
}

var _ Engine = (*ragso.Engine)(nil)

// Server exposes conversations over JSON and streams their diffs over SSE.
type Server struct {
	Engine   Engine
	Sessions *session.Manager
	Streams  *StreamManager
	Logger   *slog.Logger
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, sessions *session.Manager, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		Streams:  NewStreamManager(logger),
		Logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/quick-replies", s.GetQuickReplies)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/events", s.PostEvent)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "ragso-http",
		"version": strings.TrimSpace(ragso.Version),
	})
}

// GetQuickReplies handles GET /quick-replies.
func (s *Server) GetQuickReplies(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.QuickReplies())
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

type createSessionRequest struct {
	ID string `json:"id"`
}

// CreateSession handles POST /sessions. The body is optional; without an id
// a random one is assigned. An existing id is returned as-is.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			s.Logger.Warn("CreateSession: invalid request body", "error", err)
			return
		}
	}
	id := s.Engine.NewSession(body.ID).ID

	sess, err := s.Sessions.LoadOrStart(r.Context(), id)
	if err != nil {
		s.writeError(w, "CreateSession", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, sess)
}

// GetSession handles GET /sessions/{sessionID}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, "GetSession", err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

// DeleteSession handles DELETE /sessions/{sessionID}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostEvent handles POST /sessions/{sessionID}/events. It applies one event
// and answers with the diff between the session before and after.
func (s *Server) PostEvent(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var body EventRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("PostEvent: invalid request body", "error", err)
		return
	}
	ev, err := body.ToDomain(s.Engine)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSelection) {
			s.writeError(w, "PostEvent", err)
			return
		}
		http.Error(w, fmt.Sprintf("Invalid event: %v", err), http.StatusBadRequest)
		s.Logger.Warn("PostEvent: invalid event", "error", err, "type", body.Type)
		return
	}

	if ev.Kind == domain.EventUtterance {
		clean, err := runner.SanitizeUtterance(ev.Text)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
			s.Logger.Warn("PostEvent: input rejected", "error", err, "size", len(ev.Text))
			return
		}
		ev.Text = clean
	}

	before, after, err := s.Sessions.Advance(r.Context(), sessionID, func(ctx context.Context, sess *domain.Session) (*domain.Session, error) {
		return s.Engine.Apply(ctx, sess, ev)
	})
	if err != nil {
		s.writeError(w, "PostEvent", err)
		return
	}

	diff := domain.Diff(before, after)
	if diff == nil {
		diff = &domain.SessionDiff{SessionID: sessionID}
	} else if bytes, err := json.Marshal(diff); err == nil {
		s.Streams.Broadcast(sessionID, string(bytes))
	}
	s.writeJSON(w, http.StatusOK, diff)
}

// SubscribeEvents handles GET /sessions/{sessionID}/events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	s.Logger.Info("SSE: subscribing to session updates", "session_id", sessionID)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidSelection):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrTurnPending):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	code := statusFor(err)
	if code >= 500 {
		s.Logger.Error(op+" failed", "error", err)
	} else {
		s.Logger.Debug(op+" rejected", "error", err, "status", code)
	}
	s.writeJSON(w, code, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}
