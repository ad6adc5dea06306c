package core

import (
	"fmt"
	"os"

	"landledger/internal/infra/persistence/postgres"
	"landledger/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// StorageOptions holds explicit storage construction parameters.
type StorageOptions struct {
	Driver      StorageDriver
	SQLitePath  string // sqlite file path, driver default when empty
	PostgresDSN string // required when Driver is postgres
}

// OpenStorage constructs a PersistentStore from explicit options.
func OpenStorage(opts StorageOptions, engine *RulesEngine) (PersistentStore, error) {
	driver := opts.Driver
	if driver == "" {
		driver = StorageSQLite
	}
	switch driver {
	case StorageMemory:
		return NewMemoryStore(engine), nil
	case StorageSQLite:
		return sqlite.NewStore(opts.SQLitePath, engine)
	case StoragePostgres:
		return postgres.NewStore(opts.PostgresDSN, engine)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// OpenPersistentStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	LANDLEDGER_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	LANDLEDGER_STORAGE_SQLITE_PATH: path to sqlite file (default ./landledger.db)
//	LANDLEDGER_STORAGE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenPersistentStore(engine *RulesEngine) (PersistentStore, error) {
	return OpenStorage(StorageOptions{
		Driver:      StorageDriver(os.Getenv("LANDLEDGER_STORAGE_DRIVER")),
		SQLitePath:  os.Getenv("LANDLEDGER_STORAGE_SQLITE_PATH"),
		PostgresDSN: os.Getenv("LANDLEDGER_STORAGE_POSTGRES_DSN"),
	}, engine)
}
