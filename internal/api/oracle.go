package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/arif-itm/FarmProof/internal/oracle"
	"github.com/arif-itm/FarmProof/internal/store"
	"github.com/arif-itm/FarmProof/internal/types"
)

// @Title: Get Weather
// @Route: GET /api/weather
// @Description: Returns the latest upstream weather reading with its provenance tag
// @Response: {"rainfall72h": ..., "source": "live" | "fallback", ...}
func (s *Service) HandleWeather(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.weather.Fetch(r.Context()))
}

// @Title: Evaluate Reading
// @Route: POST /api/oracle/evaluate
// @Description: Evaluates a sensor reading against the current thresholds; pure, no state change
// @Response: Verdict with per-index exceeded flags and allExceeded
func (s *Service) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var reading oracle.Reading
	if err := json.NewDecoder(r.Body).Decode(&reading); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	verdict := oracle.Evaluate(reading, s.store.Snapshot().Thresholds)
	s.writeJSON(w, http.StatusOK, verdict)
}

// @Title: Simulate Flood
// @Route: POST /api/flood
// @Description: Toggles the simulated flood; on activation records the oracle reading and sweeps auto-payouts when all thresholds are exceeded
// @Response: {"active": bool, "reading": ..., "verdict": ..., "payouts": n}
func (s *Service) HandleFlood(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !req.Active {
		s.store.SetFloodSimulated(false)
		s.logger.Info("Flood simulation cleared")
		s.writeJSON(w, http.StatusOK, map[string]interface{}{"active": false})
		return
	}

	reading := oracle.Simulate(true, s.weather.Fetch(r.Context()))
	verdict := oracle.Evaluate(reading, s.store.Snapshot().Thresholds)

	s.store.SetFloodSimulated(true)
	s.store.AppendLedgerEntry(types.EntryOracle, "Oracle Engine",
		fmt.Sprintf("FLOOD: RF=%.1fmm NDVI=%.1f%% River=%.2fm – All thresholds exceeded",
			reading.Rainfall, reading.NDVI, reading.River), 0)

	payouts := 0
	if verdict.AllExceeded {
		for _, f := range s.store.UnpaidFarmers() {
			if _, err := s.store.SettlePayout(f.ID); err != nil {
				// A concurrent settlement is fine; anything else is not.
				if !errors.Is(err, store.ErrAlreadyPaid) {
					s.logger.Error(fmt.Sprintf("Payout failed for %s: %v", f.Name, err))
				}
				continue
			}
			payouts++
		}
		s.logger.Info(fmt.Sprintf("Flood trigger fired: %d payouts settled", payouts))
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"active":  true,
		"reading": reading,
		"verdict": verdict,
		"payouts": payouts,
	})
}
