// Package types defines the core domain models for FarmProof.
// It contains the synchronized DomainState record, the Farmer and
// LedgerEntry models, coverage tiers, and the event taxonomy used by the
// change notifier. Every surface of the application reads and writes this
// state exclusively through the store's mutation API.
package types

import (
	"math/rand/v2"
	"time"
)

// Version is the current version of the FarmProof core
const Version = "0.3.0"

// BuildTime is set at build time via -ldflags
var BuildTime = "dev"

// Tier identifies one of the three fixed coverage tiers a farmer can buy
type Tier string

const (
	TierBasic    Tier = "basic"
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

// TierTerms holds the fixed coverage and premium amounts for a tier.
// Amounts are integer taka.
type TierTerms struct {
	Coverage int64 `json:"coverage"`
	Premium  int64 `json:"premium"`
}

// Tiers maps each tier to its fixed terms. Unknown tiers fall back to
// standard, matching the registration form behavior.
var Tiers = map[Tier]TierTerms{
	TierBasic:    {Coverage: 25_000, Premium: 800},
	TierStandard: {Coverage: 50_000, Premium: 1_500},
	TierPremium:  {Coverage: 100_000, Premium: 2_800},
}

// TermsFor returns the terms for a tier, defaulting to standard.
func TermsFor(t Tier) TierTerms {
	if terms, ok := Tiers[t]; ok {
		return terms
	}
	return Tiers[TierStandard]
}

// EntryType categorizes a ledger entry
type EntryType string

const (
	EntryRegistration EntryType = "registration"
	EntryPremium      EntryType = "premium"
	EntryOracle       EntryType = "oracle"
	EntryPayout       EntryType = "payout"
	EntryAdmin        EntryType = "admin"
)

// Farmer represents one insured party's policy record.
type Farmer struct {
	ID           string    `json:"id"`                    // Unique identifier (UUID)
	Name         string    `json:"name"`                  // Required: display name
	Wallet       string    `json:"wallet"`                // Required: contact handle (phone number in the field deployment)
	Crop         string    `json:"crop"`                  // Declared crop/asset type
	Area         float64   `json:"area"`                  // Declared quantity, must be positive
	Unit         string    `json:"unit"`                  // Unit for Area (bigha, katha, ...)
	Lat          float64   `json:"lat"`                   // Plot latitude
	Lon          float64   `json:"lon"`                   // Plot longitude
	Planted      string    `json:"planted,omitempty"`     // Declared planting date (free-form)
	Tier         Tier      `json:"tier"`                  // Coverage tier
	Coverage     int64     `json:"coverage"`              // Fixed coverage amount derived from Tier
	Premium      int64     `json:"premium"`               // Fixed premium amount derived from Tier
	Address      string    `json:"address"`               // Derived settlement address (0x + 40 hex)
	RegisteredAt time.Time `json:"registeredAt"`          // Creation timestamp
	Paid         bool      `json:"paid"`                  // True once a payout has settled
	PayoutTx     string    `json:"payoutTx,omitempty"`    // Payout transaction reference, set with Paid
	PayoutBlock  int64     `json:"payoutBlock,omitempty"` // Block the payout landed in, set with Paid
}

// LedgerEntry is one immutable, append-only audit record. Entries are
// never mutated or removed except by a full state reset.
type LedgerEntry struct {
	Block     int64     `json:"block"`            // Block number at creation time
	Timestamp time.Time `json:"timestamp"`        // Creation timestamp
	Type      EntryType `json:"type"`             // Entry category
	Actor     string    `json:"actor"`            // Free-text actor label
	Data      string    `json:"data"`             // Free-text description
	TxHash    string    `json:"txHash"`           // Pseudo-random transaction reference (0x + 64 hex)
	Amount    int64     `json:"amount,omitempty"` // Optional amount for premium/payout entries
}

// Thresholds holds the named numeric trigger levels for the three
// oracle indices.
type Thresholds struct {
	Rainfall float64 `json:"rainfall"` // 72h cumulative precipitation, mm
	NDVI     float64 `json:"ndvi"`     // Vegetation stress index, %
	River    float64 `json:"river"`    // River gauge level, m
}

// DomainState is the single synchronized record of registrants, ledger,
// counters, and configuration. It is owned by exactly one store per
// process; replicas obtained over the wire are read-only and replaced
// wholesale on every incoming update.
type DomainState struct {
	Farmers        []Farmer      `json:"farmers"`
	Ledger         []LedgerEntry `json:"ledger"` // Newest-first
	BlockNumber    int64         `json:"blockNumber"`
	PoolBalance    int64         `json:"poolBalance"`
	TotalCoverage  int64         `json:"totalCoverage"`
	PayoutCount    int           `json:"payoutCount"`
	PayoutTotal    int64         `json:"payoutTotal"`
	Thresholds     Thresholds    `json:"thresholds"`
	FloodSimulated bool          `json:"floodSimulated"`
}

// DefaultState returns the documented default Domain State. The block
// counter starts at a realistic mainnet-looking height; thresholds match
// the Sunamganj pilot calibration.
func DefaultState() DomainState {
	return DomainState{
		Farmers:        []Farmer{},
		Ledger:         []LedgerEntry{},
		BlockNumber:    19_400_000,
		PoolBalance:    0,
		TotalCoverage:  0,
		PayoutCount:    0,
		PayoutTotal:    0,
		Thresholds:     Thresholds{Rainfall: 200, NDVI: 40, River: 8.5},
		FloodSimulated: false,
	}
}

// Clone returns a deep copy of the state. Mutation API callers receive
// clones so they can never reach back into the store's owned copy.
func (s DomainState) Clone() DomainState {
	out := s
	out.Farmers = make([]Farmer, len(s.Farmers))
	copy(out.Farmers, s.Farmers)
	out.Ledger = make([]LedgerEntry, len(s.Ledger))
	copy(out.Ledger, s.Ledger)
	return out
}

const hexChars = "0123456789abcdef"

// NewTxHash mints a 0x-prefixed 64-digit pseudo-random transaction
// reference in the shape produced by the settlement chain.
func NewTxHash() string {
	return randomHex(64)
}

// NewAddress mints a 0x-prefixed 40-digit settlement address.
func NewAddress() string {
	return randomHex(40)
}

func randomHex(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = hexChars[rand.IntN(len(hexChars))]
	}
	return "0x" + string(b)
}
