// Package httpapi exposes a dispatcher over HTTP: one chat endpoint, a
// health check, and a websocket channel pushing map instructions to
// subscribed clients.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/opengeos/geoagent/pkg/agent"
	"github.com/opengeos/geoagent/pkg/llm"
	"github.com/opengeos/geoagent/pkg/metrics"
	"github.com/opengeos/geoagent/pkg/redact"
)

type Config struct {
	ServerAddr     string   `mapstructure:"server_addr"`
	ChatPath       string   `mapstructure:"chat_path"`
	HealthPath     string   `mapstructure:"health_path"`
	WebsocketPath  string   `mapstructure:"ws_path"`
	Title          string   `mapstructure:"title"`
	AllowAnyOrigin bool     `mapstructure:"allow_any_origin"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (c Config) withDefaults() Config {
	if c.ServerAddr == "" {
		c.ServerAddr = ":8000"
	}
	if c.ChatPath == "" {
		c.ChatPath = "/chat"
	}
	if c.HealthPath == "" {
		c.HealthPath = "/"
	}
	if c.WebsocketPath == "" {
		c.WebsocketPath = "/ws"
	}
	if c.Title == "" {
		c.Title = "Agent"
	}
	if !c.AllowAnyOrigin && len(c.AllowedOrigins) == 0 {
		c.AllowAnyOrigin = true
	}
	return c
}

// chatRequest is the wire format of POST /chat. Field names are part of the
// public contract and must not change.
type chatRequest struct {
	Query   string        `json:"query"`
	History []llm.Message `json:"history"`
}

// Server is the HTTP facade over one Dispatcher.
type Server struct {
	cfg        Config
	dispatcher *agent.Dispatcher
	hub        *Hub
	server     *http.Server
	upgrader   websocket.Upgrader
	log        *slog.Logger
	obs        metrics.Observer

	draining atomic.Bool
}

func New(cfg Config, dispatcher *agent.Dispatcher, log *slog.Logger, obs metrics.Observer) *Server {
	cfg = cfg.withDefaults()
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		hub:        NewHub(log),
		log:        log,
		obs:        metrics.OrNoop(obs),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
	s.upgrader.CheckOrigin = s.checkOrigin
	return s
}

// Hub exposes the websocket fan-out, mainly for tests and embedders.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the routed handler; exposed so tests can drive the server
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.ChatPath, s.handleChat)
	mux.HandleFunc(s.cfg.WebsocketPath, s.handleWS)
	mux.HandleFunc(s.cfg.HealthPath, s.handleHealth)
	return mux
}

// Start runs the HTTP server until ctx is done or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.server = &http.Server{
		Addr:              s.cfg.ServerAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("http transport listening",
		"addr", s.cfg.ServerAddr,
		"chat_path", s.cfg.ChatPath,
		"ws_path", s.cfg.WebsocketPath)
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Stop()
	}
}

// Drain stops accepting chats while existing connections wind down.
func (s *Server) Drain() error {
	s.draining.Store(true)
	s.hub.CloseAll()
	return nil
}

// Stop drains and shuts the listener down.
func (s *Server) Stop() error {
	_ = s.Drain()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if s.draining.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "server is draining"})
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	traceID := uuid.NewString()
	started := time.Now()
	s.log.Info("chat request",
		"trace_id", traceID,
		"query", redact.Coordinates(req.Query),
		"history_len", len(req.History))

	result := s.dispatcher.Ask(r.Context(), req.Query, req.History)

	outcome := "ok"
	if result.IsError() {
		outcome = "error"
	}
	s.obs.RecordEvent(metrics.Event{
		Name:  "chat_request",
		Time:  time.Now(),
		Value: float64(time.Since(started).Milliseconds()),
		Tags:  map[string]string{"outcome": outcome},
	})

	// Map instructions also go to any subscribed mapping clients.
	if result.IsAction() {
		s.hub.Broadcast(result)
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != s.cfg.HealthPath {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": s.cfg.Title + " is running.",
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.draining.Load() {
		http.Error(w, "server is draining", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	s.hub.add(conn)
	s.log.Info("map client subscribed", "remote", conn.RemoteAddr().String())
	go s.readLoop(conn)
}

// readLoop discards inbound frames; the channel is push-only. Reading is
// still required to process control frames and notice disconnects.
func (s *Server) readLoop(conn *websocket.Conn) {
	defer s.hub.remove(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if s.cfg.AllowAnyOrigin {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range s.cfg.AllowedOrigins {
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
