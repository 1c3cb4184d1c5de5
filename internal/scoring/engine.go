// Package scoring implements the match-state transitions: applying a
// confirmed action, undoing the most recent one, and rebuilding a state from
// stored rows. Functions here never touch storage; callers persist the
// returned entries.
package scoring

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/courtside/pkg/types"
)

// Action is an operator-confirmed event. Player is the label recorded in the
// log. A zero At is replaced by the engine clock.
type Action struct {
	Zone   types.Zone
	Player string
	Code   types.ActionCode
	At     time.Time
}

// Engine applies and reverses actions on MatchState values. An Engine has no
// mutable state and is safe for concurrent use.
type Engine struct {
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used to timestamp actions that carry no time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply returns the state after action a and the entries it appended, in
// append order: the action itself, then FIN_SET when the point closed a set,
// then FIN_MATCH when it closed the match. s is not modified.
func (e *Engine) Apply(s types.MatchState, a Action) (types.MatchState, []types.LogEntry, error) {
	if s.IsOver() {
		return s, nil, types.ErrMatchAlreadyOver
	}
	if !a.Zone.Valid() {
		return s, nil, fmt.Errorf("%w: %d", types.ErrInvalidZone, a.Zone)
	}
	if !a.Code.Valid() {
		return s, nil, fmt.Errorf("%w: %q", types.ErrInvalidActionCode, a.Code)
	}
	if a.Player == "" {
		return s, nil, fmt.Errorf("%w: empty label", types.ErrInvalidPlayer)
	}

	at := a.At
	if at.IsZero() {
		at = e.now()
	}
	at = at.UTC().Round(0)

	next := s.Clone()
	entry := types.LogEntry{
		Timestamp:   at,
		SetNumber:   next.CurrentSet,
		ScoreBefore: next.Score(),
		Position:    a.Zone.Label(),
		Player:      a.Player,
		Code:        a.Code,
	}

	switch a.Code.Effect() {
	case types.EffectPointHome:
		next.ScoreHome++
	case types.EffectPointAway:
		next.ScoreAway++
	}

	appended := []types.LogEntry{entry}
	if winner := setWinner(next.ScoreHome, next.ScoreAway); winner != types.TeamNone {
		marker := types.LogEntry{
			Timestamp:   at,
			SetNumber:   next.CurrentSet,
			ScoreBefore: next.Score(),
			Position:    types.MarkerPosition,
			Player:      string(winner),
			Code:        types.CodeSetEnd,
		}
		if winner == types.TeamHome {
			next.SetsHome++
		} else {
			next.SetsAway++
		}
		appended[0].Boundary = types.BoundarySet
		appended = append(appended, marker)

		if next.IsOver() {
			appended[0].Boundary = types.BoundaryMatch
			marker.Code = types.CodeMatchEnd
			appended = append(appended, marker)
		} else {
			next.CurrentSet++
			next.ScoreHome, next.ScoreAway = 0, 0
		}
	}

	next.Log = prepend(next.Log, appended)
	return next, appended, nil
}

// setWinner returns the side that has reached the set target with the
// required lead, or TeamNone.
func setWinner(home, away int) types.Team {
	switch {
	case home >= types.PointsToWinSet && home-away >= types.MinSetLead:
		return types.TeamHome
	case away >= types.PointsToWinSet && away-home >= types.MinSetLead:
		return types.TeamAway
	default:
		return types.TeamNone
	}
}

// prepend puts appended (oldest first) in front of log (newest first).
func prepend(log, appended []types.LogEntry) []types.LogEntry {
	out := make([]types.LogEntry, 0, len(log)+len(appended))
	for i := len(appended) - 1; i >= 0; i-- {
		out = append(out, appended[i])
	}
	return append(out, log...)
}
