package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/arif-itm/FarmProof/internal/codec"
)

// @Title: Get Database
// @Route: GET /api/db
// @Description: Returns the current persisted Domain State verbatim
// @Response: DomainState document
func (s *Service) HandleGetDB(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Snapshot())
}

// @Title: Write Database
// @Route: POST /api/db
// @Description: Accepts {state, eventType, payload}, persists the state, and relays the event to every subscriber
// @Response: {"ok": true, "eventType": "..."}
func (s *Service) HandleWriteDB(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 20<<20))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "unreadable request body")
		return
	}

	ev, err := codec.DecodeEvent(body)
	if err != nil {
		if errors.Is(err, codec.ErrMissingState) {
			s.writeError(w, http.StatusBadRequest, "missing state")
			return
		}
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.store.ReplaceState(*ev.State, ev.Type, ev.Payload)

	// Silent autosaves ack a null tag, mirroring what the writer sent.
	var ackTag interface{}
	if ev.Type != "" {
		ackTag = ev.Type
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "eventType": ackTag})
}

// @Title: Reset
// @Route: POST /api/reset
// @Description: Wipes state back to defaults and broadcasts a reset event
// @Response: {"ok": true}
func (s *Service) HandleReset(w http.ResponseWriter, r *http.Request) {
	s.store.ResetAll()
	s.logger.Info("State reset to defaults")
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// @Title: Get Status
// @Route: GET /api/status
// @Description: Returns subscriber count and summary counters for health checking
// @Response: {"ok": true, "clients": n, "farmers": n, "ledger": n, "pool": n}
func (s *Service) HandleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"clients": s.clientCount(),
		"farmers": len(snap.Farmers),
		"ledger":  len(snap.Ledger),
		"pool":    snap.PoolBalance,
	})
}
