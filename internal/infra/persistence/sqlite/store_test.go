package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"landledger/pkg/domain"
)

func TestStatePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	store, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	_, err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreatePlatformConfig(domain.PlatformConfig{AuthorityID: "authority", FeeBps: 500}); err != nil {
			return err
		}
		if _, err := tx.CreateProperty(domain.Property{Base: domain.Base{ID: "prop-1"}, TotalShares: 1000, SharePrice: 50, State: domain.PropertyActive}); err != nil {
			return err
		}
		_, err := tx.CreatePosition(domain.OwnershipPosition{PropertyID: "prop-1", HolderID: "alice", SharesOwned: 400})
		return err
	})
	if err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	cfg, ok := reopened.GetPlatformConfig()
	if !ok || cfg.AuthorityID != "authority" || cfg.FeeBps != 500 {
		t.Fatalf("platform config not restored: %+v ok=%v", cfg, ok)
	}
	prop, ok := reopened.GetProperty("prop-1")
	if !ok || prop.TotalShares != 1000 || prop.State != domain.PropertyActive {
		t.Fatalf("property not restored: %+v ok=%v", prop, ok)
	}
	pos, ok := reopened.GetPosition("prop-1", "alice")
	if !ok || pos.SharesOwned != 400 {
		t.Fatalf("position not restored: %+v ok=%v", pos, ok)
	}
}

func TestFailedTransactionNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	store, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	_, err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreateProperty(domain.Property{Base: domain.Base{ID: "prop-1"}, TotalShares: 10}); err != nil {
			return err
		}
		_, err := tx.CreateProperty(domain.Property{Base: domain.Base{ID: "prop-1"}})
		return err
	})
	if err == nil {
		t.Fatal("duplicate create should abort the transaction")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path, domain.NewRulesEngine())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if _, ok := reopened.GetProperty("prop-1"); ok {
		t.Fatal("aborted transaction must not reach sqlite")
	}
}

func TestEmptyDatabaseLoadsClean(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "empty.db"), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer func() { _ = store.Close() }()
	if _, ok := store.GetPlatformConfig(); ok {
		t.Fatal("fresh database should have no platform config")
	}
	if got := len(store.ListProperties()); got != 0 {
		t.Fatalf("fresh database should list no properties, got %d", got)
	}
	if store.Path() == "" {
		t.Fatal("path accessor should echo configured path")
	}
}
