// Package sqlite implements the SQLite store for courtside: the
// row-per-entry action log and the match registry.
//
// See docs/ARCHITECTURE § Store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/courtside/pkg/types"
)

// DBFile is the database file name inside the data directory.
const DBFile = "courtside.db"

var _ types.Store = (*Backend)(nil)

// Backend implements types.Store on an embedded SQLite database.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens (or creates) DataDir/courtside.db and applies the schema.
// Existing rows are kept so a later process can resume a match.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	dsn := filepath.Join(dataDir, DBFile) + "?_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	// One connection serializes writers; transactions never wait on each other.
	db.SetMaxOpenConns(1)

	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Append implements types.ActionWriter outside an explicit transaction.
func (b *Backend) Append(ctx context.Context, matchID string, entry types.LogEntry) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return 0, types.ErrStoreDetached
	}
	return (&actionWriter{q: b.db}).Append(ctx, matchID, entry)
}

// DeleteMostRecent implements types.ActionWriter outside an explicit
// transaction.
func (b *Backend) DeleteMostRecent(ctx context.Context, matchID string) (types.LogEntry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.LogEntry{}, types.ErrStoreDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return types.LogEntry{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	entry, err := (&actionWriter{q: tx}).DeleteMostRecent(ctx, matchID)
	if err != nil {
		return types.LogEntry{}, err
	}
	if err := tx.Commit(); err != nil {
		return types.LogEntry{}, fmt.Errorf("committing delete: %w", err)
	}
	return entry, nil
}

// QueryAll returns the rows of matchID, most-recent-first.
func (b *Backend) QueryAll(ctx context.Context, matchID string) ([]types.LogEntry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return queryActions(ctx, b.db, matchID)
}

// InTx runs fn against a writer bound to one SQL transaction. The
// transaction commits only when fn returns nil.
func (b *Backend) InTx(ctx context.Context, fn func(types.ActionWriter) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&actionWriter{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// CreateMatch registers a match.
func (b *Backend) CreateMatch(ctx context.Context, m types.Match) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrStoreDetached
	}
	return insertMatch(ctx, b.db, m)
}

// GetMatch returns the registry row for id.
func (b *Backend) GetMatch(ctx context.Context, id string) (types.Match, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.Match{}, types.ErrStoreDetached
	}
	return getMatch(ctx, b.db, id)
}

// LatestMatch returns the most recently created match.
func (b *Backend) LatestMatch(ctx context.Context) (types.Match, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.Match{}, types.ErrStoreDetached
	}
	return latestMatch(ctx, b.db)
}

// ListMatches returns every match, newest first.
func (b *Backend) ListMatches(ctx context.Context) ([]types.Match, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return listMatches(ctx, b.db)
}
