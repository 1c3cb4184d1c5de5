package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/courtside/pkg/types"
)

// querier is the subset of *sql.DB and *sql.Tx the table helpers use.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const actionColumns = "id, set_num, timestamp, score_before, position, player_name, action_code, boundary"

var _ types.ActionWriter = (*actionWriter)(nil)

// actionWriter appends and deletes action rows through q.
type actionWriter struct {
	q querier
}

// Append inserts entry and returns the new row id. entry.ID is ignored.
func (w *actionWriter) Append(ctx context.Context, matchID string, entry types.LogEntry) (int64, error) {
	if matchID == "" {
		return 0, fmt.Errorf("%w: empty match id", types.ErrMatchNotFound)
	}
	res, err := w.q.ExecContext(ctx,
		`INSERT INTO actions (match_id, set_num, timestamp, score_before, position, player_name, action_code, boundary)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		matchID,
		entry.SetNumber,
		entry.Timestamp.UTC().Format(timeLayout),
		entry.ScoreBefore,
		entry.Position,
		entry.Player,
		string(entry.Code),
		string(entry.Boundary),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting action: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading action id: %w", err)
	}
	return id, nil
}

// DeleteMostRecent removes the highest-id row of matchID and returns it.
func (w *actionWriter) DeleteMostRecent(ctx context.Context, matchID string) (types.LogEntry, error) {
	row := w.q.QueryRowContext(ctx,
		"SELECT "+actionColumns+" FROM actions WHERE match_id = ? ORDER BY id DESC LIMIT 1",
		matchID,
	)
	entry, err := hydrateAction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.LogEntry{}, types.ErrNotFound
		}
		return types.LogEntry{}, fmt.Errorf("reading most recent action: %w", err)
	}

	if _, err := w.q.ExecContext(ctx, "DELETE FROM actions WHERE id = ?", entry.ID); err != nil {
		return types.LogEntry{}, fmt.Errorf("deleting action %d: %w", entry.ID, err)
	}
	return entry, nil
}

// queryActions returns every row of matchID, most-recent-first.
func queryActions(ctx context.Context, q querier, matchID string) ([]types.LogEntry, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+actionColumns+" FROM actions WHERE match_id = ? ORDER BY id DESC",
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying actions: %w", err)
	}
	defer rows.Close()

	var out []types.LogEntry
	for rows.Next() {
		entry, err := hydrateAction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning action: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating actions: %w", err)
	}
	return out, nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// hydrateAction converts a row selected with actionColumns to a LogEntry.
func hydrateAction(s scanner) (types.LogEntry, error) {
	var (
		entry    types.LogEntry
		ts       string
		code     string
		boundary string
	)
	if err := s.Scan(&entry.ID, &entry.SetNumber, &ts, &entry.ScoreBefore,
		&entry.Position, &entry.Player, &code, &boundary); err != nil {
		return types.LogEntry{}, err
	}
	t, err := time.Parse(timeLayout, ts)
	if err != nil {
		return types.LogEntry{}, fmt.Errorf("parsing timestamp %q: %w", ts, err)
	}
	entry.Timestamp = t
	entry.Code = types.ActionCode(code)
	entry.Boundary = types.Boundary(boundary)
	return entry, nil
}
