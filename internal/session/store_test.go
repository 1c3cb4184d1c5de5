package session

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/mesh-intelligence/courtside/pkg/types"
)

var errStoreDown = errors.New("disk on fire")

// memStore is an in-memory Store with failure injection. Rows are kept in
// append order; InTx restores the previous rows when fn fails.
type memStore struct {
	mu      sync.Mutex
	matches []types.Match
	rows    map[string][]types.LogEntry
	nextID  int64

	failCreate bool
	failAppend bool
	// failAppendAfter fails the n-th append inside a transaction (1-based).
	failAppendAfter int
	failDelete      bool
	failQuery       bool
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{rows: make(map[string][]types.LogEntry)}
}

type memWriter struct {
	s       *memStore
	appends int
}

func (w *memWriter) Append(_ context.Context, matchID string, e types.LogEntry) (int64, error) {
	w.appends++
	if w.s.failAppend || (w.s.failAppendAfter > 0 && w.appends >= w.s.failAppendAfter) {
		return 0, errStoreDown
	}
	w.s.nextID++
	e.ID = w.s.nextID
	w.s.rows[matchID] = append(w.s.rows[matchID], e)
	return e.ID, nil
}

func (w *memWriter) DeleteMostRecent(_ context.Context, matchID string) (types.LogEntry, error) {
	if w.s.failDelete {
		return types.LogEntry{}, errStoreDown
	}
	rows := w.s.rows[matchID]
	if len(rows) == 0 {
		return types.LogEntry{}, types.ErrNotFound
	}
	last := rows[len(rows)-1]
	w.s.rows[matchID] = rows[:len(rows)-1]
	return last, nil
}

func (s *memStore) Append(ctx context.Context, matchID string, e types.LogEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memWriter{s: s}).Append(ctx, matchID, e)
}

func (s *memStore) DeleteMostRecent(ctx context.Context, matchID string) (types.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memWriter{s: s}).DeleteMostRecent(ctx, matchID)
}

func (s *memStore) QueryAll(_ context.Context, matchID string) ([]types.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failQuery {
		return nil, errStoreDown
	}
	rows := s.rows[matchID]
	out := make([]types.LogEntry, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		out = append(out, rows[i])
	}
	return out, nil
}

func (s *memStore) InTx(_ context.Context, fn func(types.ActionWriter) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := make(map[string][]types.LogEntry, len(s.rows))
	for k, v := range s.rows {
		saved[k] = append([]types.LogEntry(nil), v...)
	}
	if err := fn(&memWriter{s: s}); err != nil {
		s.rows = saved
		return err
	}
	return nil
}

func (s *memStore) CreateMatch(_ context.Context, m types.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate {
		return errStoreDown
	}
	s.matches = append(s.matches, m)
	return nil
}

func (s *memStore) GetMatch(_ context.Context, id string) (types.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.ID == id {
			return m, nil
		}
	}
	return types.Match{}, types.ErrMatchNotFound
}

func (s *memStore) LatestMatch(ctx context.Context) (types.Match, error) {
	all, _ := s.ListMatches(ctx)
	if len(all) == 0 {
		return types.Match{}, types.ErrMatchNotFound
	}
	return all[0], nil
}

func (s *memStore) ListMatches(context.Context) ([]types.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]types.Match(nil), s.matches...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
