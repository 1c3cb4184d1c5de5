package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatchState(t *testing.T) {
	s := NewMatchState("m1")
	assert.Equal(t, "m1", s.MatchID)
	assert.Equal(t, 1, s.CurrentSet)
	assert.Equal(t, "0-0", s.Score())
	assert.False(t, s.IsOver())
	assert.Equal(t, PhaseInProgress, s.Phase())
	assert.Equal(t, TeamNone, s.Winner())
}

func TestMatchStateWinner(t *testing.T) {
	s := MatchState{SetsHome: 1, SetsAway: 3, CurrentSet: 4}
	assert.True(t, s.IsOver())
	assert.Equal(t, PhaseMatchComplete, s.Phase())
	assert.Equal(t, TeamAway, s.Winner())

	s = MatchState{SetsHome: 3, SetsAway: 2, CurrentSet: 5}
	assert.Equal(t, TeamHome, s.Winner())
}

func TestMatchStateClone(t *testing.T) {
	s := NewMatchState("m1")
	s.Log = []LogEntry{{ID: 1, Code: CodeServeAce}}
	s.Pending = &Selection{Zone: 3}

	c := s.Clone()
	c.Log[0].Code = CodeServeError
	c.Pending.Zone = 5

	assert.Equal(t, CodeServeAce, s.Log[0].Code)
	assert.Equal(t, Zone(3), s.Pending.Zone)

	assert.Nil(t, NewMatchState("m2").Clone().Log)
}

func TestScoreRoundTrip(t *testing.T) {
	h, a, err := ParseScore(FormatScore(25, 23))
	require.NoError(t, err)
	assert.Equal(t, 25, h)
	assert.Equal(t, 23, a)

	for _, bad := range []string{"", "25", "a-b", "-1-3", "3--1"} {
		_, _, err := ParseScore(bad)
		assert.ErrorIs(t, err, ErrInvalidScore, bad)
	}
}

func TestRosterLookup(t *testing.T) {
	r := DefaultRoster()
	require.NoError(t, r.Validate())
	require.Len(t, r, 12)

	p, err := r.Lookup(8)
	require.NoError(t, err)
	assert.Equal(t, "A. Libero", p.Label())

	p, err = r.Lookup(99)
	require.NoError(t, err)
	assert.Equal(t, "#99", p.Label())

	_, err = r.Lookup(0)
	assert.ErrorIs(t, err, ErrInvalidPlayer)
}

func TestRosterValidate(t *testing.T) {
	assert.ErrorIs(t, Roster{{Number: 1}, {Number: 1}}.Validate(), ErrInvalidPlayer)
	assert.ErrorIs(t, Roster{{Number: -2}}.Validate(), ErrInvalidPlayer)
	assert.NoError(t, Roster{}.Validate())
}

func TestLogEntryMarker(t *testing.T) {
	e := LogEntry{Position: MarkerPosition, Player: string(TeamAway), Code: CodeSetEnd}
	assert.True(t, e.IsMarker())
	assert.Equal(t, TeamAway, e.WinnerTeam())
	assert.False(t, e.Persisted())

	a := LogEntry{ID: 4, Player: "#7", Code: CodeAttackPoint}
	assert.False(t, a.IsMarker())
	assert.Equal(t, TeamNone, a.WinnerTeam())
	assert.True(t, a.Persisted())
}

func TestTeamsName(t *testing.T) {
	ts := Teams{Home: "Cannes", Away: "Tours"}
	assert.Equal(t, "Cannes", ts.Name(TeamHome))
	assert.Equal(t, "Tours", ts.Name(TeamAway))
	assert.Empty(t, ts.Name(TeamNone))
	assert.Equal(t, "HOME", DefaultTeams().Home)
}
