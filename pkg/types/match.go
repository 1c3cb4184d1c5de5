package types

import "errors"

// Scoring rules. They are fixed for every set including the decider.
const (
	PointsToWinSet = 25
	MinSetLead     = 2
	SetsToWinMatch = 3
)

// Phase is the lifecycle state of a match.
type Phase string

// Phases. SetComplete is transient inside Apply and is never observed on a
// returned state.
const (
	PhaseInProgress    Phase = "in_progress"
	PhaseSetComplete   Phase = "set_complete"
	PhaseMatchComplete Phase = "match_complete"
)

// Selection is the operator's pending zone and player choice. It is held in
// memory only.
type Selection struct {
	Zone   Zone   `json:"zone"`
	Player Player `json:"player"`
	// HasPlayer is false between the zone and the player pick.
	HasPlayer bool `json:"hasPlayer"`
}

// MatchState is the authoritative record of one match. Log is ordered
// most-recent-first.
type MatchState struct {
	MatchID    string     `json:"matchId"`
	ScoreHome  int        `json:"scoreHome"`
	ScoreAway  int        `json:"scoreAway"`
	SetsHome   int        `json:"setsHome"`
	SetsAway   int        `json:"setsAway"`
	CurrentSet int        `json:"currentSet"`
	Log        []LogEntry `json:"log"`
	Pending    *Selection `json:"pending,omitempty"`
}

// NewMatchState returns the state at the start of set 1.
func NewMatchState(matchID string) MatchState {
	return MatchState{MatchID: matchID, CurrentSet: 1}
}

// Score returns the current set score as "home-away".
func (s MatchState) Score() string {
	return FormatScore(s.ScoreHome, s.ScoreAway)
}

// IsOver reports whether either side has won the match.
func (s MatchState) IsOver() bool {
	return s.SetsHome >= SetsToWinMatch || s.SetsAway >= SetsToWinMatch
}

// Phase returns InProgress or MatchComplete.
func (s MatchState) Phase() Phase {
	if s.IsOver() {
		return PhaseMatchComplete
	}
	return PhaseInProgress
}

// Winner returns the team that won the match, or TeamNone.
func (s MatchState) Winner() Team {
	switch {
	case s.SetsHome >= SetsToWinMatch:
		return TeamHome
	case s.SetsAway >= SetsToWinMatch:
		return TeamAway
	default:
		return TeamNone
	}
}

// Clone returns a deep copy. The log slice and the pending selection are
// not shared with s.
func (s MatchState) Clone() MatchState {
	c := s
	if s.Log != nil {
		c.Log = make([]LogEntry, len(s.Log))
		copy(c.Log, s.Log)
	}
	if s.Pending != nil {
		p := *s.Pending
		c.Pending = &p
	}
	return c
}

// Scoring errors.
var (
	ErrMatchAlreadyOver       = errors.New("match is already over")
	ErrNothingToUndo          = errors.New("nothing to undo")
	ErrInvalidSelection       = errors.New("invalid selection")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

// Validation errors.
var (
	ErrInvalidZone       = errors.New("invalid zone")
	ErrInvalidActionCode = errors.New("invalid action code")
	ErrInvalidPlayer     = errors.New("invalid player")
	ErrInvalidScore      = errors.New("invalid score")
	ErrLogCorrupt        = errors.New("action log is inconsistent")
)
