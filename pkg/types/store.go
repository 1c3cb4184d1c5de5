package types

import (
	"context"
	"errors"
	"time"
)

// ActionWriter appends and removes rows of a match's action log.
type ActionWriter interface {
	// Append stores entry under matchID and returns its record id.
	Append(ctx context.Context, matchID string, entry LogEntry) (int64, error)

	// DeleteMostRecent removes the highest-id row of matchID and returns it.
	// Returns ErrNotFound if the match has no rows.
	DeleteMostRecent(ctx context.Context, matchID string) (LogEntry, error)
}

// ActionLog is the durable, row-per-entry action log.
type ActionLog interface {
	ActionWriter

	// QueryAll returns every row of matchID, most-recent-first.
	QueryAll(ctx context.Context, matchID string) ([]LogEntry, error)

	// InTx runs fn inside one transaction. The transaction commits when fn
	// returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(ActionWriter) error) error
}

// Match is a row of the match registry.
type Match struct {
	ID        string    `json:"id"`
	HomeName  string    `json:"homeName"`
	AwayName  string    `json:"awayName"`
	CreatedAt time.Time `json:"createdAt"`
}

// MatchRegistry records which matches exist so a later process can resume
// one.
type MatchRegistry interface {
	CreateMatch(ctx context.Context, m Match) error

	// GetMatch returns ErrMatchNotFound if id is unknown.
	GetMatch(ctx context.Context, id string) (Match, error)

	// LatestMatch returns the most recently created match, or ErrMatchNotFound
	// when none exist.
	LatestMatch(ctx context.Context) (Match, error)

	// ListMatches returns every match, newest first.
	ListMatches(ctx context.Context) ([]Match, error)
}

// Store is a backend that holds both the action log and the match registry.
// Callers attach, use it, and detach when done.
type Store interface {
	ActionLog
	MatchRegistry

	// Attach opens the backend described by config. Creates DataDir if it
	// does not exist. Returns ErrAlreadyAttached when called twice.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent. After Detach, every
	// other method returns ErrStoreDetached.
	Detach() error
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Lookup errors.
var (
	ErrNotFound      = errors.New("entry not found")
	ErrMatchNotFound = errors.New("match not found")
	ErrNoMatch       = errors.New("no match in progress")
)
