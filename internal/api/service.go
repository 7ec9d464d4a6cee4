// Package api implements the JSON endpoint handlers for the FarmProof
// server. Transport plumbing (router, SSE broker, websockets) lives in
// internal/web; handlers here only speak to the store, the oracle, and
// the weather service.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/arif-itm/FarmProof/internal/docs"
	"github.com/arif-itm/FarmProof/internal/logger"
	"github.com/arif-itm/FarmProof/internal/store"
	"github.com/arif-itm/FarmProof/internal/weather"
)

// Service handles API requests.
type Service struct {
	store       *store.Store
	weather     *weather.Service
	docs        *docs.Service
	logger      *logger.Logger
	clientCount func() int
}

// NewService creates an API service. clientCount reports live SSE
// subscribers for the status endpoint; nil means zero.
func NewService(st *store.Store, ws *weather.Service, ds *docs.Service, lg *logger.Logger, clientCount func() int) *Service {
	if clientCount == nil {
		clientCount = func() int { return 0 }
	}
	return &Service{
		store:       st,
		weather:     ws,
		docs:        ds,
		logger:      lg,
		clientCount: clientCount,
	}
}

// writeJSON writes a JSON response
func (s *Service) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func (s *Service) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
