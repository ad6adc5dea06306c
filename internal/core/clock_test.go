package core

import (
	"context"
	"testing"
	"time"
)

// bareStore satisfies PersistentStore without exposing a clock or an engine.
type bareStore struct{}

func (bareStore) RunInTransaction(context.Context, func(Transaction) error) (Result, error) {
	return Result{}, nil
}
func (bareStore) View(context.Context, func(TransactionView) error) error { return nil }
func (bareStore) GetPlatformConfig() (PlatformConfig, bool)               { return PlatformConfig{}, false }
func (bareStore) GetProperty(string) (Property, bool)                     { return Property{}, false }
func (bareStore) ListProperties() []Property                              { return nil }
func (bareStore) GetPosition(string, string) (OwnershipPosition, bool) {
	return OwnershipPosition{}, false
}
func (bareStore) ListPositions() []OwnershipPosition        { return nil }
func (bareStore) GetProposal(string) (Proposal, bool)       { return Proposal{}, false }
func (bareStore) ListProposals() []Proposal                 { return nil }
func (bareStore) GetVote(string, string) (VoteRecord, bool) { return VoteRecord{}, false }
func (bareStore) ListVotes() []VoteRecord                   { return nil }
func (bareStore) GetKycRecord(string) (KycRecord, bool)     { return KycRecord{}, false }
func (bareStore) ListKycRecords() []KycRecord               { return nil }
func (bareStore) GetListing(string) (MarketListing, bool)   { return MarketListing{}, false }
func (bareStore) ListListings() []MarketListing             { return nil }

// clockedStore additionally exposes and accepts a time provider, like the
// real backends do.
type clockedStore struct {
	bareStore
	nowFn  func() time.Time
	pushed func() time.Time
}

func (s *clockedStore) NowFunc() func() time.Time      { return s.nowFn }
func (s *clockedStore) SetNowFunc(fn func() time.Time) { s.pushed = fn }

func TestClockFuncNormalizesUTC(t *testing.T) {
	var unset ClockFunc
	got := unset.Now()
	if got.Location() != time.UTC {
		t.Fatalf("nil clock returned %v time", got.Location())
	}
	if d := time.Since(got); d < 0 || d > time.Minute {
		t.Fatalf("nil clock drifted: %v", d)
	}

	zoned := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	got = ClockFunc(func() time.Time { return zoned }).Now()
	if got.Location() != time.UTC {
		t.Fatalf("pinned clock returned %v time", got.Location())
	}
	if !got.Equal(zoned) || got.Hour() != 10 {
		t.Fatalf("pinned clock returned %v, want %v", got, zoned.UTC())
	}
}

func TestExtractRulesEngine(t *testing.T) {
	engine := NewDefaultRulesEngine()
	if got := extractRulesEngine(NewMemoryStore(engine)); got != engine {
		t.Fatalf("engine not adopted from the store")
	}
	if got := extractRulesEngine(bareStore{}); got != nil {
		t.Fatalf("expected nil engine for a bare store, got %v", got)
	}
}

func TestSelectNowFuncPrefersExplicitClock(t *testing.T) {
	pinned := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	store := &clockedStore{nowFn: func() time.Time { return pinned.Add(48 * time.Hour) }}

	fn := selectNowFunc(store, ClockFunc(func() time.Time { return pinned }))
	if got := fn(); !got.Equal(pinned) || got.Location() != time.UTC {
		t.Fatalf("explicit clock not selected: %v", got)
	}
	if store.pushed == nil {
		t.Fatalf("explicit clock was not pushed into the store")
	}
	if got := store.pushed(); !got.Equal(pinned) {
		t.Fatalf("store clock diverges from the service clock: %v", got)
	}
}

func TestSelectNowFuncAdoptsStoreClock(t *testing.T) {
	pinned := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	store := &clockedStore{nowFn: func() time.Time { return pinned }}

	fn := selectNowFunc(store, nil)
	if got := fn(); !got.Equal(pinned) || got.Location() != time.UTC {
		t.Fatalf("store clock not adopted: %v", got)
	}
	if store.pushed != nil {
		t.Fatalf("nothing should be pushed without an explicit clock")
	}
}

func TestSelectNowFuncFallsBackToWallClock(t *testing.T) {
	for name, store := range map[string]PersistentStore{
		"nil provider": &clockedStore{},
		"bare store":   bareStore{},
	} {
		fn := selectNowFunc(store, nil)
		got := fn()
		if got.Location() != time.UTC {
			t.Fatalf("%s: fallback returned %v time", name, got.Location())
		}
		if d := time.Since(got); d < 0 || d > time.Minute {
			t.Fatalf("%s: fallback drifted: %v", name, d)
		}
	}
}
