package scoring

import (
	"math/rand"
	"testing"
	"time"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/courtside/pkg/types"
)

var testEpoch = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

// newTestEngine returns an engine whose clock advances one second per call.
func newTestEngine() *Engine {
	tick := 0
	return New(WithClock(func() time.Time {
		tick++
		return testEpoch.Add(time.Duration(tick) * time.Second)
	}))
}

func action(code types.ActionCode) Action {
	return Action{Zone: 4, Player: "D. Opposite", Code: code}
}

// play applies codes in order and fails the test on the first error.
func play(t *testing.T, e *Engine, s types.MatchState, codes ...types.ActionCode) types.MatchState {
	t.Helper()
	for _, c := range codes {
		var err error
		s, _, err = e.Apply(s, action(c))
		require.NoError(t, err, "apply %s at %s set %d", c, s.Score(), s.CurrentSet)
	}
	return s
}

func repeat(code types.ActionCode, n int) []types.ActionCode {
	out := make([]types.ActionCode, n)
	for i := range out {
		out[i] = code
	}
	return out
}

// toScore returns codes that take a fresh set to home-away without closing it
// early. away must stay below the set target when home is not.
func toScore(home, away int) []types.ActionCode {
	return append(repeat(types.CodeServeError, away), repeat(types.CodeAttackPoint, home)...)
}

// winSet returns codes that win a fresh set 25-23 for team.
func winSet(team types.Team) []types.ActionCode {
	if team == types.TeamHome {
		return toScore(25, 23)
	}
	return append(repeat(types.CodeAttackPoint, 23), repeat(types.CodeAttackError, 25)...)
}

func TestApplyFirstPoint(t *testing.T) {
	e := newTestEngine()
	s := types.NewMatchState("m1")

	next, appended, err := e.Apply(s, action(types.CodeAttackPoint))
	require.NoError(t, err)

	assert.Equal(t, "1-0", next.Score())
	require.Len(t, next.Log, 1)
	require.Len(t, appended, 1)
	assert.Equal(t, types.LogEntry{
		Timestamp:   testEpoch.Add(time.Second),
		SetNumber:   1,
		ScoreBefore: "0-0",
		Position:    "P4",
		Player:      "D. Opposite",
		Code:        types.CodeAttackPoint,
	}, appended[0])
	assert.Empty(t, s.Log, "input state must not change")
	assert.Equal(t, "0-0", s.Score())
}

func TestApplyPointRule(t *testing.T) {
	tests := []struct {
		code      types.ActionCode
		wantScore string
	}{
		{types.CodeServeAce, "1-0"},
		{types.CodeServeOK, "0-0"},
		{types.CodeServeError, "0-1"},
		{types.CodeReceptionPerfect, "0-0"},
		{types.CodeReceptionError, "0-1"},
		{types.CodePassOK, "0-0"},
		{types.CodePassError, "0-1"},
		{types.CodeAttackPoint, "1-0"},
		{types.CodeAttackBlocked, "0-0"},
		{types.CodeAttackError, "0-1"},
		{types.CodeBlockPoint, "1-0"},
		{types.CodeBlockTouch, "0-0"},
		{types.CodeBlockError, "0-1"},
	}

	e := newTestEngine()
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			next, appended, err := e.Apply(types.NewMatchState("m1"), action(tt.code))
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, next.Score())
			require.Len(t, appended, 1)
			assert.Equal(t, types.BoundaryNone, appended[0].Boundary)
		})
	}
}

func TestApplyRejectsInvalidInput(t *testing.T) {
	e := newTestEngine()
	s := types.NewMatchState("m1")

	tests := []struct {
		name    string
		action  Action
		wantErr error
	}{
		{"zone zero", Action{Zone: 0, Player: "x", Code: types.CodeServeAce}, types.ErrInvalidZone},
		{"zone seven", Action{Zone: 7, Player: "x", Code: types.CodeServeAce}, types.ErrInvalidZone},
		{"marker code", Action{Zone: 1, Player: "x", Code: types.CodeSetEnd}, types.ErrInvalidActionCode},
		{"unknown code", Action{Zone: 1, Player: "x", Code: "DIG_OK"}, types.ErrInvalidActionCode},
		{"no player", Action{Zone: 1, Code: types.CodeServeAce}, types.ErrInvalidPlayer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, appended, err := e.Apply(s, tt.action)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, appended)
			assert.Nil(t, deep.Equal(s, next))
		})
	}
}

func TestApplyUsesActionTimestamp(t *testing.T) {
	e := newTestEngine()
	at := time.Date(2025, 1, 2, 3, 4, 5, 6, time.FixedZone("CET", 3600))

	next, _, err := e.Apply(types.NewMatchState("m1"), Action{Zone: 1, Player: "p", Code: types.CodeServeOK, At: at})
	require.NoError(t, err)
	assert.True(t, next.Log[0].Timestamp.Equal(at))
	assert.Equal(t, time.UTC, next.Log[0].Timestamp.Location())
}

func TestApplyClosesSet(t *testing.T) {
	e := newTestEngine()
	s := play(t, e, types.NewMatchState("m1"), toScore(24, 23)...)
	require.Equal(t, "24-23", s.Score())

	next, appended, err := e.Apply(s, action(types.CodeAttackPoint))
	require.NoError(t, err)

	require.Len(t, appended, 2)
	assert.Equal(t, types.CodeAttackPoint, appended[0].Code)
	assert.Equal(t, types.BoundarySet, appended[0].Boundary)
	assert.Equal(t, "24-23", appended[0].ScoreBefore)

	fin := appended[1]
	assert.Equal(t, types.CodeSetEnd, fin.Code)
	assert.Equal(t, "25-23", fin.ScoreBefore)
	assert.Equal(t, types.MarkerPosition, fin.Position)
	assert.Equal(t, string(types.TeamHome), fin.Player)
	assert.Equal(t, 1, fin.SetNumber)

	assert.Equal(t, 2, next.CurrentSet)
	assert.Equal(t, "0-0", next.Score())
	assert.Equal(t, 1, next.SetsHome)
	assert.Equal(t, 0, next.SetsAway)
	assert.Equal(t, types.CodeSetEnd, next.Log[0].Code, "marker is the newest entry")
	assert.Equal(t, types.CodeAttackPoint, next.Log[1].Code)
	assert.Len(t, next.Log, 49)
}

func TestApplyRequiresTwoPointLead(t *testing.T) {
	e := newTestEngine()
	s := play(t, e, types.NewMatchState("m1"), toScore(24, 24)...)

	s = play(t, e, s, types.CodeAttackPoint)
	assert.Equal(t, "25-24", s.Score())
	assert.Equal(t, 1, s.CurrentSet)

	s = play(t, e, s, types.CodeAttackError)
	assert.Equal(t, "25-25", s.Score())

	s = play(t, e, s, types.CodeServeError, types.CodeServeError)
	assert.Equal(t, 2, s.CurrentSet)
	assert.Equal(t, 1, s.SetsAway)
	assert.Equal(t, "25-27", s.Log[0].ScoreBefore)
	assert.Equal(t, string(types.TeamAway), s.Log[0].Player)
}

func TestApplyClosesMatch(t *testing.T) {
	e := newTestEngine()
	s := types.NewMatchState("m1")
	s = play(t, e, s, winSet(types.TeamHome)...)
	s = play(t, e, s, winSet(types.TeamAway)...)
	s = play(t, e, s, winSet(types.TeamHome)...)
	s = play(t, e, s, winSet(types.TeamAway)...)
	require.Equal(t, 5, s.CurrentSet)

	s = play(t, e, s, toScore(24, 23)...)
	next, appended, err := e.Apply(s, action(types.CodeBlockPoint))
	require.NoError(t, err)

	require.Len(t, appended, 3)
	assert.Equal(t, types.BoundaryMatch, appended[0].Boundary)
	assert.Equal(t, types.CodeSetEnd, appended[1].Code)
	assert.Equal(t, types.CodeMatchEnd, appended[2].Code)
	for _, m := range appended[1:] {
		assert.Equal(t, "25-23", m.ScoreBefore)
		assert.Equal(t, string(types.TeamHome), m.Player)
		assert.Equal(t, 5, m.SetNumber)
	}

	assert.True(t, next.IsOver())
	assert.Equal(t, types.PhaseMatchComplete, next.Phase())
	assert.Equal(t, types.TeamHome, next.Winner())
	assert.Equal(t, 3, next.SetsHome)
	assert.Equal(t, 2, next.SetsAway)
	assert.Equal(t, 5, next.CurrentSet, "current set does not advance past the deciding set")
	assert.Equal(t, "25-23", next.Score(), "scores are frozen")
	assert.Equal(t, types.CodeMatchEnd, next.Log[0].Code)
	assert.Equal(t, types.CodeSetEnd, next.Log[1].Code)

	_, _, err = e.Apply(next, action(types.CodeServeOK))
	assert.ErrorIs(t, err, types.ErrMatchAlreadyOver)
}

func TestApplyThreeStraightSets(t *testing.T) {
	e := newTestEngine()
	s := types.NewMatchState("m1")
	for range 3 {
		s = play(t, e, s, winSet(types.TeamAway)...)
	}

	assert.Equal(t, types.TeamAway, s.Winner())
	assert.Equal(t, 3, s.CurrentSet)
	assert.Equal(t, "23-25", s.Score())

	_, _, err := e.Apply(s, action(types.CodeAttackPoint))
	assert.ErrorIs(t, err, types.ErrMatchAlreadyOver)
}

func TestApplyScoreDifferenceMatchesDeltas(t *testing.T) {
	e := newTestEngine()
	rng := rand.New(rand.NewSource(7))
	codes := operatorCodes()

	s := types.NewMatchState("m1")
	diff, set := 0, 1
	for i := 0; i < 2000 && !s.IsOver(); i++ {
		c := codes[rng.Intn(len(codes))]
		var err error
		s, _, err = e.Apply(s, action(c))
		require.NoError(t, err)

		if s.CurrentSet != set || s.IsOver() {
			set, diff = s.CurrentSet, 0
			if s.IsOver() {
				break
			}
			continue
		}
		switch c.Effect() {
		case types.EffectPointHome:
			diff++
		case types.EffectPointAway:
			diff--
		}
		require.Equal(t, diff, s.ScoreHome-s.ScoreAway, "after %d actions", i+1)
	}
}

func operatorCodes() []types.ActionCode {
	var out []types.ActionCode
	for _, c := range types.Categories() {
		for _, o := range c.Outcomes {
			out = append(out, o.Code)
		}
	}
	return out
}
