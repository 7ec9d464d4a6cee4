package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/arif-itm/FarmProof/internal/store"
	"github.com/arif-itm/FarmProof/internal/types"
)

// @Title: List Farmers
// @Route: GET /api/farmers
// @Description: Returns all registrants in registration order
// @Response: [Farmer, ...]
func (s *Service) HandleFarmers(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Snapshot().Farmers)
}

// @Title: Register Farmer
// @Route: POST /api/farmers
// @Description: Registers a new farmer, locks the premium into the pool, and records registration and premium ledger entries
// @Response: Farmer object with assigned id, address, and tier terms
func (s *Service) HandleRegisterFarmer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string     `json:"name"`
		Wallet  string     `json:"wallet"`
		Crop    string     `json:"crop"`
		Area    float64    `json:"area"`
		Unit    string     `json:"unit"`
		Lat     float64    `json:"lat"`
		Lon     float64    `json:"lon"`
		Planted string     `json:"planted"`
		Tier    types.Tier `json:"tier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	farmer, err := s.store.RegisterFarmer(types.Farmer{
		Name:    req.Name,
		Wallet:  req.Wallet,
		Crop:    req.Crop,
		Area:    req.Area,
		Unit:    req.Unit,
		Lat:     req.Lat,
		Lon:     req.Lon,
		Planted: req.Planted,
		Tier:    req.Tier,
	})
	if err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			s.writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	s.store.AppendLedgerEntry(types.EntryRegistration, farmer.Name,
		fmt.Sprintf("Registered %s · %.1f %s · %s tier", farmer.Crop, farmer.Area, farmer.Unit, farmer.Tier), 0)
	s.store.AppendLedgerEntry(types.EntryPremium, farmer.Name,
		fmt.Sprintf("Premium paid ৳%d · Locked in contract pool", farmer.Premium), farmer.Premium)

	s.logger.Info(fmt.Sprintf("Registered farmer %s (%s tier, coverage ৳%d)", farmer.Name, farmer.Tier, farmer.Coverage))
	s.writeJSON(w, http.StatusOK, farmer)
}

// @Title: Settle Payout
// @Route: POST /api/payouts
// @Description: Settles the payout for one farmer; refuses to settle twice
// @Response: Farmer object with payout fields set
func (s *Service) HandlePayout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FarmerID string `json:"farmerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FarmerID == "" {
		s.writeError(w, http.StatusBadRequest, "farmerId is required")
		return
	}

	farmer, err := s.store.SettlePayout(req.FarmerID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			s.writeError(w, http.StatusNotFound, "farmer not found")
		case errors.Is(err, store.ErrAlreadyPaid):
			s.writeError(w, http.StatusConflict, "farmer is already paid")
		default:
			s.writeError(w, http.StatusInternalServerError, "payout failed")
		}
		return
	}

	s.logger.Info(fmt.Sprintf("Payout ৳%d settled for %s", farmer.Coverage, farmer.Name))
	s.writeJSON(w, http.StatusOK, farmer)
}

// @Title: Filter Ledger
// @Route: GET /api/ledger?type=&q=
// @Description: Returns ledger entries newest-first, optionally filtered by category and case-insensitive substring
// @Response: [LedgerEntry, ...]
func (s *Service) HandleLedger(w http.ResponseWriter, r *http.Request) {
	category := types.EntryType(r.URL.Query().Get("type"))
	query := r.URL.Query().Get("q")
	s.writeJSON(w, http.StatusOK, s.store.FilterLedger(category, query))
}

// @Title: Set Thresholds
// @Route: PUT /api/thresholds
// @Description: Replaces the oracle trigger thresholds and records an admin ledger entry
// @Response: Thresholds object
func (s *Service) HandleSetThresholds(w http.ResponseWriter, r *http.Request) {
	var t types.Thresholds
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.store.SetThresholds(t)
	s.store.AppendLedgerEntry(types.EntryAdmin, "Admin",
		fmt.Sprintf("Thresholds updated · RF>%.0fmm NDVI>%.0f%% River>%.1fm", t.Rainfall, t.NDVI, t.River), 0)

	s.logger.Info("Trigger thresholds updated")
	s.writeJSON(w, http.StatusOK, t)
}
