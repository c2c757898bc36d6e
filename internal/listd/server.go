package listd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/five82/copylist/internal/copylist"
	"github.com/five82/copylist/internal/logging"
	"github.com/five82/copylist/internal/metrics"
)

const (
	maxBodyBytes    = 64 * 1024
	writeWait       = 5 * time.Second
	pingInterval    = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Options configure a Server.
type Options struct {
	Store         *Store       // nil creates an empty store
	Broadcaster   *Broadcaster // nil creates a new broadcaster
	Logger        *zap.Logger  // nil disables logging
	EnableMetrics bool
}

// Server exposes the copy list over HTTP and pushes list_updated over websockets.
type Server struct {
	store    *Store
	hub      *Broadcaster
	logger   *zap.Logger
	metrics  bool
	upgrader websocket.Upgrader
}

// NewServer builds a Server.
func NewServer(opts Options) *Server {
	store := opts.Store
	if store == nil {
		store = &Store{}
	}
	hub := opts.Broadcaster
	if hub == nil {
		hub = NewBroadcaster()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.SetListEntries(store.Len())
	return &Server{
		store:   store,
		hub:     hub,
		logger:  logger,
		metrics: opts.EnableMetrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     sameHostOrigin,
		},
	}
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/copylist", s.handleList)
	mux.HandleFunc("POST /api/copylist", s.handleAdd)
	mux.HandleFunc("POST /api/copylist/remove", s.handleRemove)
	mux.HandleFunc("POST /api/copylist/clear", s.handleClear)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	if s.metrics {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	var observe logging.RequestObserver
	if s.metrics {
		observe = metrics.RecordHTTPRequest
	}
	return logging.Middleware(s.logger, observe)(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("copylistd listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.hub.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	// Hijacked websocket connections are not tracked by Shutdown; closing
	// the hub ends their writer loops.
	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("copylistd stopped")
	return nil
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, copylist.ListResponse{Paths: s.store.List()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, copylist.HealthResponse{Status: "ok", Entries: s.store.Len()})
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePath(w, r)
	if !ok {
		return
	}
	if err := s.store.Add(req.Path); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Info("added to copy list", zap.String("path", req.Path))
	s.changed("add")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePath(w, r)
	if !ok {
		return
	}
	removed := s.store.Remove(req.Path)
	s.logger.Info("removed from copy list", zap.String("path", req.Path), zap.Int("removed", removed))
	s.changed("remove")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClear(w http.ResponseWriter, _ *http.Request) {
	dropped := s.store.Clear()
	s.logger.Info("cleared copy list", zap.Int("dropped", dropped))
	s.changed("clear")
	w.WriteHeader(http.StatusNoContent)
}

// changed records a successful mutation and notifies subscribers.
func (s *Server) changed(op string) {
	metrics.RecordMutation(op)
	metrics.SetListEntries(s.store.Len())
	s.hub.Publish(copylist.Notification{Topic: copylist.TopicListUpdated})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	topic := strings.TrimSpace(r.URL.Query().Get("topic"))
	if topic == "" {
		topic = copylist.TopicListUpdated
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	ch := s.hub.Subscribe()
	defer s.hub.Unsubscribe(ch)
	s.logger.Debug("subscriber connected", zap.String("topic", topic), zap.String("remote", r.RemoteAddr))

	// Reading is required to process close and pong frames.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-gone:
			s.logger.Debug("subscriber disconnected", zap.String("remote", r.RemoteAddr))
			return
		case note, ok := <-ch:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}
			if note.Topic != topic {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(note); err != nil {
				s.logger.Debug("notification write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (s *Server) decodePath(w http.ResponseWriter, r *http.Request) (copylist.PathRequest, bool) {
	var req copylist.PathRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decode request: %v", err), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// sameHostOrigin accepts non-browser clients (no Origin header) and
// browsers on the same host.
func sameHostOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return strings.HasSuffix(origin, "://"+r.Host)
}
