package types

import (
	"strings"
	"testing"
)

func TestTermsFor(t *testing.T) {
	tests := []struct {
		tier     Tier
		coverage int64
		premium  int64
	}{
		{TierBasic, 25000, 800},
		{TierStandard, 50000, 1500},
		{TierPremium, 100000, 2800},
		{Tier("unknown"), 50000, 1500}, // unknown tiers fall back to standard
	}

	for _, tt := range tests {
		terms := TermsFor(tt.tier)
		if terms.Coverage != tt.coverage {
			t.Errorf("Tier %s: expected coverage %d, got %d", tt.tier, tt.coverage, terms.Coverage)
		}
		if terms.Premium != tt.premium {
			t.Errorf("Tier %s: expected premium %d, got %d", tt.tier, tt.premium, terms.Premium)
		}
	}
}

func TestDefaultState(t *testing.T) {
	s := DefaultState()

	if s.BlockNumber != 19_400_000 {
		t.Errorf("Expected block 19400000, got %d", s.BlockNumber)
	}
	if s.Farmers == nil || len(s.Farmers) != 0 {
		t.Errorf("Expected empty non-nil farmers, got %v", s.Farmers)
	}
	if s.Ledger == nil || len(s.Ledger) != 0 {
		t.Errorf("Expected empty non-nil ledger, got %v", s.Ledger)
	}
	if s.Thresholds.Rainfall != 200 || s.Thresholds.NDVI != 40 || s.Thresholds.River != 8.5 {
		t.Errorf("Unexpected default thresholds: %+v", s.Thresholds)
	}
	if s.PoolBalance != 0 || s.FloodSimulated {
		t.Errorf("Expected zeroed pool and no flood, got pool=%d flood=%v", s.PoolBalance, s.FloodSimulated)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := DefaultState()
	s.Farmers = append(s.Farmers, Farmer{ID: "f1", Name: "Rahima"})
	s.Ledger = append(s.Ledger, LedgerEntry{TxHash: "0xabc"})

	c := s.Clone()
	c.Farmers[0].Name = "changed"
	c.Ledger[0].TxHash = "0xdef"

	if s.Farmers[0].Name != "Rahima" {
		t.Errorf("Clone shares farmer backing array: %s", s.Farmers[0].Name)
	}
	if s.Ledger[0].TxHash != "0xabc" {
		t.Errorf("Clone shares ledger backing array: %s", s.Ledger[0].TxHash)
	}
}

func TestNewTxHash(t *testing.T) {
	h := NewTxHash()
	if !strings.HasPrefix(h, "0x") || len(h) != 66 {
		t.Errorf("Expected 0x-prefixed 64-digit hash, got %q (len %d)", h, len(h))
	}
	if NewTxHash() == h {
		t.Error("Expected consecutive hashes to differ")
	}

	a := NewAddress()
	if !strings.HasPrefix(a, "0x") || len(a) != 42 {
		t.Errorf("Expected 0x-prefixed 40-digit address, got %q (len %d)", a, len(a))
	}
}
