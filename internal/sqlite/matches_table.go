package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/courtside/pkg/types"
)

const matchColumns = "match_id, home_name, away_name, created_at"

func insertMatch(ctx context.Context, q querier, m types.Match) error {
	if m.ID == "" {
		return fmt.Errorf("%w: empty match id", types.ErrMatchNotFound)
	}
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := q.ExecContext(ctx,
		"INSERT INTO matches ("+matchColumns+") VALUES (?, ?, ?, ?)",
		m.ID, m.HomeName, m.AwayName, createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting match %s: %w", m.ID, err)
	}
	return nil
}

func getMatch(ctx context.Context, q querier, id string) (types.Match, error) {
	row := q.QueryRowContext(ctx, "SELECT "+matchColumns+" FROM matches WHERE match_id = ?", id)
	m, err := hydrateMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Match{}, fmt.Errorf("%w: %s", types.ErrMatchNotFound, id)
	}
	if err != nil {
		return types.Match{}, fmt.Errorf("getting match %s: %w", id, err)
	}
	return m, nil
}

func latestMatch(ctx context.Context, q querier) (types.Match, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+matchColumns+" FROM matches ORDER BY created_at DESC, rowid DESC LIMIT 1")
	m, err := hydrateMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Match{}, types.ErrMatchNotFound
	}
	if err != nil {
		return types.Match{}, fmt.Errorf("getting latest match: %w", err)
	}
	return m, nil
}

func listMatches(ctx context.Context, q querier) ([]types.Match, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+matchColumns+" FROM matches ORDER BY created_at DESC, rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	var out []types.Match
	for rows.Next() {
		m, err := hydrateMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating matches: %w", err)
	}
	return out, nil
}

func hydrateMatch(s scanner) (types.Match, error) {
	var (
		m  types.Match
		ts string
	)
	if err := s.Scan(&m.ID, &m.HomeName, &m.AwayName, &ts); err != nil {
		return types.Match{}, err
	}
	t, err := time.Parse(timeLayout, ts)
	if err != nil {
		return types.Match{}, fmt.Errorf("parsing created_at %q: %w", ts, err)
	}
	m.CreatedAt = t
	return m, nil
}
