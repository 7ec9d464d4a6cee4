package store

import (
	"testing"

	"github.com/arif-itm/FarmProof/internal/types"
)

func seedLedger(t *testing.T, st *Store) {
	t.Helper()
	st.AppendLedgerEntry(types.EntryRegistration, "FarmRegistry.sol", "Farmer registered: Rahima Khatun", 0)
	st.AppendLedgerEntry(types.EntryPremium, "InsurancePool.sol", "Premium received ৳1500", 1500)
	st.AppendLedgerEntry(types.EntryOracle, "Oracle Engine", "FLOOD: RF=237.5mm", 0)
	st.AppendLedgerEntry(types.EntryPayout, "InsurancePool.sol", "Payout ৳50000 → Rahima Khatun", 50000)
}

func TestFilterLedgerByCategory(t *testing.T) {
	st, _, _ := setupStore(t)
	seedLedger(t, st)

	all := st.FilterLedger("all", "")
	if len(all) != 4 {
		t.Fatalf("Expected 4 entries for 'all', got %d", len(all))
	}
	// Newest first: the payout entry was appended last.
	if all[0].Type != types.EntryPayout {
		t.Errorf("Expected payout at head, got %s", all[0].Type)
	}

	if got := st.FilterLedger("", ""); len(got) != 4 {
		t.Errorf("Expected empty category to mean all, got %d", len(got))
	}

	oracle := st.FilterLedger(types.EntryOracle, "")
	if len(oracle) != 1 || oracle[0].Actor != "Oracle Engine" {
		t.Errorf("Oracle filter wrong: %+v", oracle)
	}
}

func TestFilterLedgerByQuery(t *testing.T) {
	st, _, _ := setupStore(t)
	seedLedger(t, st)

	// Case-insensitive substring across tx hash, type, actor, and data.
	if got := st.FilterLedger("all", "rahima"); len(got) != 2 {
		t.Errorf("Expected 2 matches for 'rahima', got %d", len(got))
	}
	if got := st.FilterLedger("all", "POOL.SOL"); len(got) != 2 {
		t.Errorf("Expected 2 matches for actor substring, got %d", len(got))
	}
	if got := st.FilterLedger(types.EntryPayout, "rahima"); len(got) != 1 {
		t.Errorf("Expected category and query to intersect, got %d", len(got))
	}
	if got := st.FilterLedger("all", "no such thing"); len(got) != 0 {
		t.Errorf("Expected no matches, got %d", len(got))
	}

	// Tx hashes are searchable too.
	head := st.Snapshot().Ledger[0]
	if got := st.FilterLedger("all", head.TxHash[2:10]); len(got) == 0 {
		t.Error("Expected tx hash substring to match")
	}
}

func TestUnpaidFarmers(t *testing.T) {
	st, _, _ := setupStore(t)
	f1 := registerSample(t, st, "Rahima Khatun", types.TierBasic)
	registerSample(t, st, "Abdul Karim", types.TierBasic)

	if _, err := st.SettlePayout(f1.ID); err != nil {
		t.Fatalf("SettlePayout failed: %v", err)
	}

	unpaid := st.UnpaidFarmers()
	if len(unpaid) != 1 || unpaid[0].Name != "Abdul Karim" {
		t.Errorf("Expected only the unsettled farmer, got %+v", unpaid)
	}

	if f, ok := st.Farmer(f1.ID); !ok || !f.Paid {
		t.Errorf("Farmer lookup wrong: %+v ok=%v", f, ok)
	}
	if _, ok := st.Farmer("missing"); ok {
		t.Error("Expected lookup miss for unknown ID")
	}
}
