package core

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"landledger/internal/infra/persistence/postgres"
	"landledger/internal/infra/persistence/postgres/testutil"
	"landledger/internal/infra/persistence/sqlite"
)

func TestOpenStorageMemory(t *testing.T) {
	store, err := OpenStorage(StorageOptions{Driver: StorageMemory}, NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
}

func TestOpenStorageDefaultsToSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := OpenStorage(StorageOptions{SQLitePath: path}, NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	fileStore, ok := store.(*sqlite.Store)
	if !ok {
		t.Fatalf("expected sqlite store, got %T", store)
	}
	t.Cleanup(func() { _ = fileStore.Close() })
	if fileStore.Path() != path {
		t.Fatalf("store opened %s, want %s", fileStore.Path(), path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

func TestOpenStorageUnknownDriver(t *testing.T) {
	_, err := OpenStorage(StorageOptions{Driver: "etcd"}, nil)
	if err == nil || !strings.Contains(err.Error(), "unknown storage driver") {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
}

func TestOpenPersistentStoreEnvDriver(t *testing.T) {
	t.Setenv("LANDLEDGER_STORAGE_DRIVER", "memory")

	store, err := OpenPersistentStore(NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}
}

func TestOpenPersistentStoreEnvSQLitePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("LANDLEDGER_STORAGE_DRIVER", "sqlite")
	t.Setenv("LANDLEDGER_STORAGE_SQLITE_PATH", path)

	store, err := OpenPersistentStore(NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	fileStore, ok := store.(*sqlite.Store)
	if !ok {
		t.Fatalf("expected sqlite store, got %T", store)
	}
	t.Cleanup(func() { _ = fileStore.Close() })
	if fileStore.Path() != path {
		t.Fatalf("store opened %s, want %s", fileStore.Path(), path)
	}
}

func TestOpenPersistentStoreEnvPostgresDSN(t *testing.T) {
	var openedDSN string
	restore := postgres.OverrideSQLOpen(func(_, dsn string) (*sql.DB, error) {
		openedDSN = dsn
		db, _ := testutil.NewStubDB()
		return db, nil
	})
	defer restore()

	t.Setenv("LANDLEDGER_STORAGE_DRIVER", "postgres")
	t.Setenv("LANDLEDGER_STORAGE_POSTGRES_DSN", "postgres://stub:5432/landledger")

	store, err := OpenPersistentStore(NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	pgStore, ok := store.(*postgres.Store)
	if !ok {
		t.Fatalf("expected postgres store, got %T", store)
	}
	t.Cleanup(func() { _ = pgStore.Close() })
	if openedDSN != "postgres://stub:5432/landledger" {
		t.Fatalf("DSN not passed through: %q", openedDSN)
	}
}
