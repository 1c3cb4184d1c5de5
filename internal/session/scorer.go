// Package session owns the live match: the operator's pending selection,
// the current MatchState, and the coupling between engine transitions and
// the store. A Scorer is the single writer for its match.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/courtside/internal/metrics"
	"github.com/mesh-intelligence/courtside/internal/scoring"
	"github.com/mesh-intelligence/courtside/pkg/types"
)

// Store is the persistence a Scorer needs.
type Store interface {
	types.ActionLog
	types.MatchRegistry
}

// Scorer serializes every operation on one live match.
type Scorer struct {
	mu sync.Mutex

	store   Store
	engine  *scoring.Engine
	roster  types.Roster
	teams   types.Teams
	metrics metrics.ScorerMetrics
	log     *logrus.Entry
	newID   func() (string, error)
	now     func() time.Time

	match types.Match
	state *types.MatchState
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithRoster sets the players the operator picks from.
func WithRoster(r types.Roster) Option {
	return func(s *Scorer) { s.roster = r }
}

// WithTeams sets the display names recorded for new matches.
func WithTeams(t types.Teams) Option {
	return func(s *Scorer) { s.teams = t }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m metrics.ScorerMetrics) Option {
	return func(s *Scorer) { s.metrics = m }
}

// WithLogger sets the base logger.
func WithLogger(l *logrus.Entry) Option {
	return func(s *Scorer) { s.log = l }
}

// WithIDGenerator replaces the UUID v7 match id generator.
func WithIDGenerator(f func() (string, error)) Option {
	return func(s *Scorer) { s.newID = f }
}

// WithEngine sets the scoring engine.
func WithEngine(e *scoring.Engine) Option {
	return func(s *Scorer) { s.engine = e }
}

// WithClock sets the clock used for match creation and action timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) { s.now = now }
}

// New creates a Scorer with no match loaded.
func New(store Store, opts ...Option) *Scorer {
	s := &Scorer{
		store:   store,
		roster:  types.DefaultRoster(),
		teams:   types.DefaultTeams(),
		metrics: metrics.NewNoop(),
		log:     logrus.NewEntry(logrus.StandardLogger()),
		newID:   newMatchID,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = scoring.New(scoring.WithClock(s.now))
	}
	return s
}

func newMatchID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating match id: %w", err)
	}
	return id.String(), nil
}

// Roster returns the configured roster.
func (s *Scorer) Roster() types.Roster {
	return s.roster
}

// Teams returns the display names used for new matches.
func (s *Scorer) Teams() types.Teams {
	return s.teams
}

// NewMatch registers a new match and makes it the live one. Any previous
// match stays in the store.
func (s *Scorer) NewMatch(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.newID()
	if err != nil {
		return Snapshot{}, err
	}
	m := types.Match{
		ID:        id,
		HomeName:  s.teams.Home,
		AwayName:  s.teams.Away,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateMatch(ctx, m); err != nil {
		s.metrics.StoreFailed("create_match")
		return Snapshot{}, fmt.Errorf("%w: %w", types.ErrPersistenceUnavailable, err)
	}

	state := types.NewMatchState(id)
	s.match = m
	s.state = &state
	s.metrics.ScoreChanged(state)
	s.logger().WithFields(logrus.Fields{"home": m.HomeName, "away": m.AwayName}).Info("new match")
	return s.snapshotLocked(), nil
}

// Resume loads matchID from the store and replays its rows.
func (s *Scorer) Resume(ctx context.Context, matchID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, types.ErrMatchNotFound) {
			return Snapshot{}, err
		}
		return Snapshot{}, fmt.Errorf("%w: %w", types.ErrPersistenceUnavailable, err)
	}
	return s.loadLocked(ctx, m)
}

// ResumeLatest loads the most recently created match. Returns ErrNoMatch
// when the store holds none.
func (s *Scorer) ResumeLatest(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.store.LatestMatch(ctx)
	if err != nil {
		if errors.Is(err, types.ErrMatchNotFound) {
			return Snapshot{}, types.ErrNoMatch
		}
		return Snapshot{}, fmt.Errorf("%w: %w", types.ErrPersistenceUnavailable, err)
	}
	return s.loadLocked(ctx, m)
}

func (s *Scorer) loadLocked(ctx context.Context, m types.Match) (Snapshot, error) {
	rows, err := s.store.QueryAll(ctx, m.ID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", types.ErrPersistenceUnavailable, err)
	}
	state, err := s.engine.Rebuild(m.ID, rows)
	if err != nil {
		return Snapshot{}, err
	}

	s.match = m
	s.state = &state
	s.metrics.ScoreChanged(state)
	s.logger().WithField("rows", len(rows)).Debug("match resumed")
	return s.snapshotLocked(), nil
}

// SelectZone starts a selection at zone, discarding any pending player.
func (s *Scorer) SelectZone(zone types.Zone) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpenMatchLocked(); err != nil {
		return Snapshot{}, err
	}
	if !zone.Valid() {
		return Snapshot{}, fmt.Errorf("%w: %d", types.ErrInvalidZone, zone)
	}
	s.state.Pending = &types.Selection{Zone: zone}
	return s.snapshotLocked(), nil
}

// SelectPlayer adds the player with shirt number to the pending selection.
// A zone must already be selected.
func (s *Scorer) SelectPlayer(number int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpenMatchLocked(); err != nil {
		return Snapshot{}, err
	}
	if s.state.Pending == nil {
		return Snapshot{}, fmt.Errorf("%w: select a zone first", types.ErrInvalidSelection)
	}
	p, err := s.roster.Lookup(number)
	if err != nil {
		return Snapshot{}, err
	}
	s.state.Pending.Player = p
	s.state.Pending.HasPlayer = true
	return s.snapshotLocked(), nil
}

// Cancel clears the pending selection.
func (s *Scorer) Cancel() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return Snapshot{}, types.ErrNoMatch
	}
	s.state.Pending = nil
	return s.snapshotLocked(), nil
}

// Confirm applies code for the pending zone and player. The new entries are
// written in one transaction and the live state only changes after commit.
func (s *Scorer) Confirm(ctx context.Context, code types.ActionCode) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpenMatchLocked(); err != nil {
		return Snapshot{}, err
	}
	sel := s.state.Pending
	if sel == nil || !sel.HasPlayer {
		return Snapshot{}, fmt.Errorf("%w: select a zone and a player first", types.ErrInvalidSelection)
	}
	return s.applyLocked(ctx, scoring.Action{
		Zone:   sel.Zone,
		Player: sel.Player.Label(),
		Code:   code,
	})
}

// Record selects zone and player and confirms code in one call.
func (s *Scorer) Record(ctx context.Context, zone types.Zone, number int, code types.ActionCode) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpenMatchLocked(); err != nil {
		return Snapshot{}, err
	}
	p, err := s.roster.Lookup(number)
	if err != nil {
		return Snapshot{}, err
	}
	return s.applyLocked(ctx, scoring.Action{
		Zone:   zone,
		Player: p.Label(),
		Code:   code,
	})
}

func (s *Scorer) applyLocked(ctx context.Context, a scoring.Action) (Snapshot, error) {
	next, appended, err := s.engine.Apply(*s.state, a)
	if err != nil {
		return Snapshot{}, err
	}

	ids := make([]int64, len(appended))
	start := time.Now()
	err = s.store.InTx(ctx, func(w types.ActionWriter) error {
		for i, e := range appended {
			id, err := w.Append(ctx, next.MatchID, e)
			if err != nil {
				return err
			}
			ids[i] = id
		}
		return nil
	})
	s.metrics.AddStoreElapsedTime("append", time.Since(start))
	if err != nil {
		s.metrics.StoreFailed("append")
		s.logger().WithError(err).WithField("code", a.Code).Warn("action not recorded")
		return Snapshot{}, fmt.Errorf("%w: %w", types.ErrPersistenceUnavailable, err)
	}

	n := len(appended)
	for i, id := range ids {
		next.Log[n-1-i].ID = id
	}
	next.Pending = nil
	s.state = &next

	s.metrics.ActionRecorded(a.Code)
	s.metrics.ScoreChanged(next)
	entry := s.logger().WithFields(logrus.Fields{
		"code":   a.Code,
		"pos":    a.Zone.Label(),
		"player": a.Player,
		"score":  next.Score(),
		"set":    next.CurrentSet,
	})
	switch {
	case n == 1:
		entry.Debug("action recorded")
	case next.IsOver():
		s.metrics.SetCompleted(next.Winner())
		entry.WithField("winner", next.Winner()).Info("match complete")
	default:
		winner := next.Log[0].WinnerTeam()
		s.metrics.SetCompleted(winner)
		entry.WithField("setWinner", winner).Info("set complete")
	}
	return s.snapshotLocked(), nil
}

// Undo reverses the most recent operator action together with any set or
// match markers it produced. One row is deleted per popped entry, inside a
// single transaction, and each deleted row must be the entry undo popped.
func (s *Scorer) Undo(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return Snapshot{}, types.ErrNoMatch
	}
	next, popped, err := s.engine.Undo(*s.state)
	if err != nil {
		return Snapshot{}, err
	}

	start := time.Now()
	err = s.store.InTx(ctx, func(w types.ActionWriter) error {
		for _, p := range popped {
			if !p.Persisted() {
				continue
			}
			deleted, err := w.DeleteMostRecent(ctx, next.MatchID)
			if errors.Is(err, types.ErrNotFound) {
				return fmt.Errorf("%w: row %d missing from store", types.ErrLogCorrupt, p.ID)
			}
			if err != nil {
				return err
			}
			if deleted.ID != p.ID || deleted.Code != p.Code {
				return fmt.Errorf("%w: deleted row %d (%s), expected %d (%s)",
					types.ErrLogCorrupt, deleted.ID, deleted.Code, p.ID, p.Code)
			}
		}
		return nil
	})
	s.metrics.AddStoreElapsedTime("delete", time.Since(start))
	if err != nil {
		s.metrics.StoreFailed("delete")
		s.logger().WithError(err).Warn("undo not recorded")
		if errors.Is(err, types.ErrLogCorrupt) {
			return Snapshot{}, err
		}
		return Snapshot{}, fmt.Errorf("%w: %w", types.ErrPersistenceUnavailable, err)
	}

	next.Pending = nil
	s.state = &next
	s.metrics.UndoPerformed(len(popped))
	s.metrics.ScoreChanged(next)
	s.logger().WithFields(logrus.Fields{
		"undone": popped[len(popped)-1].Code,
		"popped": len(popped),
		"score":  next.Score(),
		"set":    next.CurrentSet,
	}).Info("undo")
	return s.snapshotLocked(), nil
}

// Snapshot returns the view of the live match.
func (s *Scorer) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return Snapshot{}, types.ErrNoMatch
	}
	return s.snapshotLocked(), nil
}

// History returns the stored rows of the live match, most-recent-first.
func (s *Scorer) History(ctx context.Context) ([]types.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return nil, types.ErrNoMatch
	}
	rows, err := s.store.QueryAll(ctx, s.state.MatchID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrPersistenceUnavailable, err)
	}
	return rows, nil
}

func (s *Scorer) requireOpenMatchLocked() error {
	if s.state == nil {
		return types.ErrNoMatch
	}
	if s.state.IsOver() {
		return types.ErrMatchAlreadyOver
	}
	return nil
}

func (s *Scorer) logger() *logrus.Entry {
	if s.state == nil {
		return s.log
	}
	return s.log.WithField("matchID", s.state.MatchID)
}
