// Package web implements the HTTP surface of the FarmProof server: the
// REST API, the SSE event stream that keeps every connected portal tab
// in sync, and the websocket diagnostics feeds.
package web

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/arif-itm/FarmProof/internal/api"
	"github.com/arif-itm/FarmProof/internal/bus"
	"github.com/arif-itm/FarmProof/internal/codec"
	"github.com/arif-itm/FarmProof/internal/config"
	"github.com/arif-itm/FarmProof/internal/docs"
	"github.com/arif-itm/FarmProof/internal/logger"
	"github.com/arif-itm/FarmProof/internal/store"
	"github.com/arif-itm/FarmProof/internal/weather"
)

// Server is the FarmProof HTTP server.
type Server struct {
	store      *store.Store
	notifier   *bus.Local
	logger     *logger.Logger
	apiService *api.Service
	broker     *sseBroker
	port       int
	heartbeat  time.Duration
}

// NewServer wires the server against an existing store and its local
// notifier. The notifier must be the same instance the store publishes
// to, or the SSE stream will sit silent.
func NewServer(cfg *config.Config, st *store.Store, notifier *bus.Local, ws *weather.Service) *Server {
	lg := logger.New(cfg.LogBuffer)
	ds := docs.NewService(cfg.DocsDir)
	broker := newSSEBroker()

	s := &Server{
		store:     st,
		notifier:  notifier,
		logger:    lg,
		broker:    broker,
		port:      cfg.Port,
		heartbeat: time.Duration(cfg.HeartbeatSeconds) * time.Second,
	}
	s.apiService = api.NewService(st, ws, ds, lg, broker.count)

	s.logger.Info("FarmProof server initialized")

	// Relay every store broadcast onto the SSE wire.
	go s.watchUpdates()

	return s
}

// Logger returns the server's activity logger.
func (s *Server) Logger() *logger.Logger {
	return s.logger
}

// Start runs the server in the background and returns its error channel.
func (s *Server) Start() <-chan error {
	log.Printf("API server listening on http://localhost:%d", s.port)

	r := mux.NewRouter()

	// State sync surface
	r.HandleFunc("/api/db", s.apiService.HandleGetDB).Methods(http.MethodGet)
	r.HandleFunc("/api/db", s.apiService.HandleWriteDB).Methods(http.MethodPost)
	r.HandleFunc("/api/reset", s.apiService.HandleReset).Methods(http.MethodPost)
	r.HandleFunc("/api/events", s.handleEvents).Methods(http.MethodGet)
	r.HandleFunc("/api/status", s.apiService.HandleStatus).Methods(http.MethodGet)

	// Mutation API surface
	r.HandleFunc("/api/farmers", s.apiService.HandleFarmers).Methods(http.MethodGet)
	r.HandleFunc("/api/farmers", s.apiService.HandleRegisterFarmer).Methods(http.MethodPost)
	r.HandleFunc("/api/payouts", s.apiService.HandlePayout).Methods(http.MethodPost)
	r.HandleFunc("/api/ledger", s.apiService.HandleLedger).Methods(http.MethodGet)
	r.HandleFunc("/api/thresholds", s.apiService.HandleSetThresholds).Methods(http.MethodPut)
	r.HandleFunc("/api/flood", s.apiService.HandleFlood).Methods(http.MethodPost)
	r.HandleFunc("/api/oracle/evaluate", s.apiService.HandleEvaluate).Methods(http.MethodPost)
	r.HandleFunc("/api/weather", s.apiService.HandleWeather).Methods(http.MethodGet)

	// Operational surface
	r.HandleFunc("/api/health", s.apiService.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/version", s.apiService.HandleVersion).Methods(http.MethodGet)
	r.HandleFunc("/api/docs", s.apiService.HandleDocsList).Methods(http.MethodGet)
	r.HandleFunc("/api/docs/{name}", s.apiService.HandleDoc).Methods(http.MethodGet)

	// WebSocket routes
	r.HandleFunc("/ws/activity", s.handleActivityWS)
	r.HandleFunc("/ws/diagnostics", s.handleDiagnosticsWS)

	// Dev portals run on a different origin.
	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(r)

	addr := fmt.Sprintf(":%d", s.port)
	errCh := make(chan error, 1)

	go func() {
		err := http.ListenAndServe(addr, handler)
		errCh <- err
		close(errCh)
	}()

	return errCh
}

// watchUpdates forwards every published event to all SSE clients.
func (s *Server) watchUpdates() {
	events, cancel := s.notifier.Subscribe()
	defer cancel()

	for ev := range events {
		data, err := codec.EncodeEvent(ev)
		if err != nil {
			log.Printf("Error encoding %s event for SSE: %v", ev.Type, err)
			continue
		}
		s.broker.broadcast([]byte(fmt.Sprintf("data: %s\n\n", data)))
	}
}

// handleEvents establishes an SSE connection and streams every state
// broadcast until the client goes away. Heartbeat comments keep idle
// connections from being reaped by proxies.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable proxy buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	clientChan := make(chan []byte, 10)
	s.broker.register(clientChan)
	defer s.broker.unregister(clientChan)

	s.logger.Info(fmt.Sprintf("SSE client connected (total: %d)", s.broker.count()))
	defer func() {
		s.logger.Info("SSE client disconnected")
	}()

	flusher.Flush()

	keepAlive := time.NewTicker(s.heartbeat)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case data := <-clientChan:
			if _, err := w.Write(data); err != nil {
				return
			}
			flusher.Flush()
		case <-keepAlive.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
