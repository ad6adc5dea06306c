// Package sqlite provides a SQLite-backed persistent store. Transactions run
// against the in-memory implementation; the full state is snapshotted to a
// single table as JSON buckets after every successful commit.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"landledger/internal/infra/persistence/memory"
	"landledger/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

// Store persists the in-memory state to a single SQLite table as JSON blobs.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore constructs a snapshotting SQLite-backed persistent store.
func NewStore(path string, engine *domain.RulesEngine) (*Store, error) {
	if path == "" {
		path = "landledger.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	mem := memory.NewStore(engine)
	s := &Store{Store: mem, db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

var sqliteBuckets = []string{"platform", "properties", "positions", "proposals", "votes", "kyc", "listings"}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var loaded bool
	snapshot := memory.Snapshot{}
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		if len(payload) == 0 {
			continue
		}
		loaded = true
		switch bucket {
		case "platform":
			if err := json.Unmarshal(payload, &snapshot.Platform); err != nil {
				return fmt.Errorf("decode platform: %w", err)
			}
		case "properties":
			if err := json.Unmarshal(payload, &snapshot.Properties); err != nil {
				return fmt.Errorf("decode properties: %w", err)
			}
		case "positions":
			if err := json.Unmarshal(payload, &snapshot.Positions); err != nil {
				return fmt.Errorf("decode positions: %w", err)
			}
		case "proposals":
			if err := json.Unmarshal(payload, &snapshot.Proposals); err != nil {
				return fmt.Errorf("decode proposals: %w", err)
			}
		case "votes":
			if err := json.Unmarshal(payload, &snapshot.Votes); err != nil {
				return fmt.Errorf("decode votes: %w", err)
			}
		case "kyc":
			if err := json.Unmarshal(payload, &snapshot.Kyc); err != nil {
				return fmt.Errorf("decode kyc: %w", err)
			}
		case "listings":
			if err := json.Unmarshal(payload, &snapshot.Listings); err != nil {
				return fmt.Errorf("decode listings: %w", err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	if !loaded {
		return nil
	}
	s.ImportState(snapshot)
	return nil
}

func (s *Store) persist() (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range sqliteBuckets {
		var data []byte
		switch bucket {
		case "platform":
			data, err = json.Marshal(snapshot.Platform)
		case "properties":
			data, err = json.Marshal(snapshot.Properties)
		case "positions":
			data, err = json.Marshal(snapshot.Positions)
		case "proposals":
			data, err = json.Marshal(snapshot.Proposals)
		case "votes":
			data, err = json.Marshal(snapshot.Votes)
		case "kyc":
			data, err = json.Marshal(snapshot.Kyc)
		case "listings":
			data, err = json.Marshal(snapshot.Listings)
		}
		if err != nil {
			retErr = err
			return retErr
		}
		if _, err = tx.Exec(`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, data); err != nil {
			retErr = fmt.Errorf("upsert %s: %w", bucket, err)
			return retErr
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

// RunInTransaction applies the provided function within a transaction, then
// snapshots state to SQLite if successful.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if pErr := s.persist(); pErr != nil {
		return res, pErr
	}
	return res, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
