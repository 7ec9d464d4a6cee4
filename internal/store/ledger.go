package store

import (
	"strings"

	"github.com/arif-itm/FarmProof/internal/types"
)

// FilterLedger returns ledger entries matching a category and a
// free-text query. Category "all" or "" matches every entry. The query
// is a case-insensitive substring match across the transaction hash,
// type, actor, and description, mirroring the audit-table search box.
func (s *Store) FilterLedger(category types.EntryType, query string) []types.LedgerEntry {
	s.mu.Lock()
	ledger := make([]types.LedgerEntry, len(s.state.Ledger))
	copy(ledger, s.state.Ledger)
	s.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))

	out := ledger[:0]
	for _, e := range ledger {
		if category != "" && category != "all" && e.Type != category {
			continue
		}
		if q != "" && !entryMatches(e, q) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func entryMatches(e types.LedgerEntry, q string) bool {
	haystack := strings.ToLower(strings.Join([]string{
		e.TxHash, string(e.Type), e.Actor, e.Data,
	}, " "))
	return strings.Contains(haystack, q)
}

// Farmer returns the registrant with the given ID, if present.
func (s *Store) Farmer(id string) (types.Farmer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.state.Farmers {
		if f.ID == id {
			return f, true
		}
	}
	return types.Farmer{}, false
}

// UnpaidFarmers returns every registrant without a settled payout, in
// registration order. The payout sweep walks this list.
func (s *Store) UnpaidFarmers() []types.Farmer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Farmer
	for _, f := range s.state.Farmers {
		if !f.Paid {
			out = append(out, f)
		}
	}
	return out
}
