// Package store owns the Domain State and exposes the only sanctioned
// mutation API. Every mutation is synchronous against the in-memory
// copy, then persisted to durable backing and broadcast through the
// change notifier as fire-and-forget side effects.
package store

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arif-itm/FarmProof/internal/backing"
	"github.com/arif-itm/FarmProof/internal/bus"
	"github.com/arif-itm/FarmProof/internal/types"
)

const minWalletLen = 6

// ErrAlreadyPaid is returned when a payout is attempted for a farmer
// whose claim has already settled. The state is left untouched.
var ErrAlreadyPaid = errors.New("farmer is already paid")

// ErrNotFound is returned by SettlePayout for an unknown farmer ID.
var ErrNotFound = errors.New("farmer not found")

// ValidationError reports a registration rejected for malformed input.
// The mutation has no side effects when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Store holds the Domain State. Exactly one Store owns the writable
// copy per process; everything else sees read-only snapshots.
type Store struct {
	mu       sync.Mutex
	state    types.DomainState
	backing  backing.Backing
	notifier bus.Notifier
}

// New creates a Store seeded from the backing's persisted snapshot.
// A missing or corrupt snapshot seeds the documented defaults.
func New(b backing.Backing, n bus.Notifier) (*Store, error) {
	state, err := b.Load()
	if err != nil {
		return nil, fmt.Errorf("load initial state: %w", err)
	}
	return &Store{state: state, backing: b, notifier: n}, nil
}

// Snapshot returns a deep copy of the current Domain State.
func (s *Store) Snapshot() types.DomainState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// RegisterFarmer validates and appends a new registrant, locking the
// premium into the pool and adding the coverage to the running total.
// The returned Farmer carries the assigned ID, settlement address, and
// tier-derived amounts.
func (s *Store) RegisterFarmer(f types.Farmer) (types.Farmer, error) {
	if strings.TrimSpace(f.Name) == "" {
		return types.Farmer{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len(strings.TrimSpace(f.Wallet)) < minWalletLen {
		return types.Farmer{}, &ValidationError{Field: "wallet", Reason: fmt.Sprintf("must be at least %d characters", minWalletLen)}
	}
	if f.Area <= 0 {
		return types.Farmer{}, &ValidationError{Field: "area", Reason: "must be positive"}
	}

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Address == "" {
		f.Address = types.NewAddress()
	}
	terms := types.TermsFor(f.Tier)
	f.Coverage = terms.Coverage
	f.Premium = terms.Premium
	f.RegisteredAt = time.Now().UTC()
	f.Paid = false
	f.PayoutTx = ""
	f.PayoutBlock = 0

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Farmers = append(s.state.Farmers, f)
	s.state.PoolBalance += f.Premium
	s.state.TotalCoverage += f.Coverage

	s.commit(types.EventRegistration, types.RegistrationPayload{
		FarmerID: f.ID,
		Name:     f.Name,
		Coverage: f.Coverage,
		Premium:  f.Premium,
	})
	return f, nil
}

// AppendLedgerEntry records an audit entry: the block counter advances
// by a pseudo-random amount in [1,4], a fresh transaction reference is
// generated, and the entry is prepended newest-first. It is a logging
// primitive and never fails.
func (s *Store) AppendLedgerEntry(entryType types.EntryType, actor, data string, amount int64) types.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.BlockNumber += rand.Int64N(4) + 1
	entry := types.LedgerEntry{
		Block:     s.state.BlockNumber,
		Timestamp: time.Now().UTC(),
		Type:      entryType,
		Actor:     actor,
		Data:      data,
		TxHash:    types.NewTxHash(),
		Amount:    amount,
	}
	s.state.Ledger = append([]types.LedgerEntry{entry}, s.state.Ledger...)

	s.commit(types.EventUpdate, nil)
	return entry
}

// MarkPaid settles a payout for one farmer: the paid flag is set, the
// pool decremented by amount (floored at zero), and the payout counters
// advanced. An unknown farmer ID is a silent no-op. A farmer already
// paid returns ErrAlreadyPaid with no state change, so a payout can
// never settle twice.
func (s *Store) MarkPaid(farmerID, payoutTx string, block, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.state.Farmers {
		if s.state.Farmers[i].ID == farmerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	if s.state.Farmers[idx].Paid {
		return ErrAlreadyPaid
	}

	s.state.Farmers[idx].Paid = true
	s.state.Farmers[idx].PayoutTx = payoutTx
	s.state.Farmers[idx].PayoutBlock = block
	s.state.PoolBalance -= amount
	if s.state.PoolBalance < 0 {
		s.state.PoolBalance = 0
	}
	s.state.PayoutCount++
	s.state.PayoutTotal += amount

	s.commit(types.EventPayout, types.PayoutPayload{
		FarmerID: farmerID,
		Tx:       payoutTx,
		Block:    block,
		Amount:   amount,
	})
	return nil
}

// SettlePayout executes the full payout flow for one farmer as a
// single atomic mutation: a fresh payout transaction, a block advance,
// the paid flag and counters, and a newest-first payout ledger entry.
// The whole settlement lands in one broadcast.
func (s *Store) SettlePayout(farmerID string) (types.Farmer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.state.Farmers {
		if s.state.Farmers[i].ID == farmerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return types.Farmer{}, ErrNotFound
	}
	if s.state.Farmers[idx].Paid {
		return types.Farmer{}, ErrAlreadyPaid
	}

	s.state.BlockNumber += rand.Int64N(4) + 1
	block := s.state.BlockNumber
	tx := types.NewTxHash()
	amount := s.state.Farmers[idx].Coverage

	s.state.Farmers[idx].Paid = true
	s.state.Farmers[idx].PayoutTx = tx
	s.state.Farmers[idx].PayoutBlock = block
	s.state.PoolBalance -= amount
	if s.state.PoolBalance < 0 {
		s.state.PoolBalance = 0
	}
	s.state.PayoutCount++
	s.state.PayoutTotal += amount

	f := s.state.Farmers[idx]
	entry := types.LedgerEntry{
		Block:     block,
		Timestamp: time.Now().UTC(),
		Type:      types.EntryPayout,
		Actor:     "InsurancePool.sol",
		Data:      fmt.Sprintf("Payout ৳%d → %s (%s)", amount, f.Name, f.Wallet),
		TxHash:    types.NewTxHash(),
		Amount:    amount,
	}
	s.state.Ledger = append([]types.LedgerEntry{entry}, s.state.Ledger...)

	s.commit(types.EventPayout, types.PayoutPayload{
		FarmerID: farmerID,
		Tx:       tx,
		Block:    block,
		Amount:   amount,
	})
	return f, nil
}

// SetThresholds replaces the trigger thresholds wholesale.
func (s *Store) SetThresholds(t types.Thresholds) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Thresholds = t
	s.commit(types.EventThresholds, types.ThresholdsPayload{Thresholds: t})
}

// SetFloodSimulated toggles the simulated extreme-event flag.
func (s *Store) SetFloodSimulated(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.FloodSimulated = active
	s.commit(types.EventFlood, types.FloodPayload{Active: active})
}

// ResetAll restores the documented default Domain State, clearing the
// farmer roll and the ledger.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = types.DefaultState()
	s.commit(types.EventReset, nil)
}

// ReplaceState swaps in a full replacement state pushed by a replica
// over the write endpoint, then persists and re-broadcasts it under the
// given event tag. The replacement is total; no merging happens.
// An empty event type is the silent-autosave path: the state is swapped
// and persisted but nothing is broadcast.
func (s *Store) ReplaceState(state types.DomainState, evType types.EventType, payload types.Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state.Clone()
	if evType == "" {
		if err := s.backing.Save(s.state.Clone()); err != nil {
			log.Printf("Warning: failed to persist replaced state: %v", err)
		}
		return
	}
	s.commit(evType, payload)
}

// commit persists the current state and broadcasts it. Callers hold the
// mutex. A durable-write failure is logged and the in-memory mutation
// stands; the copies reconverge on the next successful save.
func (s *Store) commit(evType types.EventType, payload types.Payload) {
	snapshot := s.state.Clone()
	if err := s.backing.Save(snapshot); err != nil {
		log.Printf("Warning: failed to persist state after %s: %v", evType, err)
	}
	s.notifier.Publish(types.Event{Type: evType, Payload: payload, State: &snapshot})
}
