package core_test

import (
	"context"
	"testing"
	"time"

	"landledger/internal/core"
	"landledger/pkg/domain"
)

// Scenario actors. The platform authority, a property owner, and three
// shareholders.
const (
	authority = "authority-1"
	landlord  = "landlord-1"
	alice     = "alice"
	bob       = "bob"
	carol     = "carol"
)

var scenarioStart = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// newTestService builds a service over a fresh in-memory store with a
// controllable clock. Writing through the returned pointer moves time for
// every subsequent transaction.
func newTestService(t *testing.T, opts ...core.Option) (*core.Service, *time.Time) {
	t.Helper()
	now := scenarioStart
	clock := core.ClockFunc(func() time.Time { return now })
	svc := core.NewInMemoryService(nil, append([]core.Option{core.WithClock(clock)}, opts...)...)
	return svc, &now
}

// initPlatform initializes the platform with a 5% fee and a governance
// threshold of 100 shares.
func initPlatform(t *testing.T, svc *core.Service) core.PlatformConfig {
	t.Helper()
	cfg, _, err := svc.InitializePlatform(context.Background(), authority, 500, 100)
	if err != nil {
		t.Fatalf("initialize platform: %v", err)
	}
	return cfg
}

// registerProperty registers a 1000-share property owned by landlord.
func registerProperty(t *testing.T, svc *core.Service, id string, kycRequired bool) core.Property {
	t.Helper()
	prop, _, err := svc.RegisterProperty(context.Background(), landlord, core.RegisterPropertyParams{
		ID:               id,
		TotalShares:      1000,
		SharePrice:       50,
		Address:          "12 Harbour Road",
		Category:         domain.PropertyResidential,
		LegalDocHash:     "deed-" + id,
		InitialValuation: 1_000_000,
		KycRequired:      kycRequired,
		ExpectedYieldBps: 800,
	})
	if err != nil {
		t.Fatalf("register property %s: %v", id, err)
	}
	return prop
}

// issueShares issues shares to a holder on the authority's say-so.
func issueShares(t *testing.T, svc *core.Service, propertyID, holder string, amount uint64) core.OwnershipPosition {
	t.Helper()
	pos, _, err := svc.IssueShares(context.Background(), authority, propertyID, holder, amount)
	if err != nil {
		t.Fatalf("issue %d shares of %s to %s: %v", amount, propertyID, holder, err)
	}
	return pos
}

// assertCode fails unless err carries the given domain code.
func assertCode(t *testing.T, err error, code domain.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if got := domain.CodeOf(err); got != code {
		t.Fatalf("expected code %s, got %s (%v)", code, got, err)
	}
}
