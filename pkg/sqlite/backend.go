// Package sqlite provides the public API for the SQLite match store.
// This package exposes the factory function and the JSONL export while
// keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/courtside/internal/sqlite"
	"github.com/mesh-intelligence/courtside/pkg/types"
)

// DBFile is the database file name inside the data directory.
const DBFile = sqlite.DBFile

// ActionRecord is one line of a JSONL export.
type ActionRecord = sqlite.ActionRecord

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".courtside-db",
//	})
//	defer store.Detach()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}

// WriteActionsJSONL exports rows (most-recent-first, as returned by
// QueryAll) to path, oldest first.
func WriteActionsJSONL(path, matchID string, rows []types.LogEntry) error {
	return sqlite.WriteActionsJSONL(path, matchID, rows)
}

// ReadActionsJSONL reads a file written by WriteActionsJSONL.
func ReadActionsJSONL(path string) ([]ActionRecord, error) {
	return sqlite.ReadActionsJSONL(path)
}
