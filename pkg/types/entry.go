package types

import "time"

// Boundary records which terminal markers an operator action produced.
type Boundary string

// Boundary values.
const (
	BoundaryNone  Boundary = ""
	BoundarySet   Boundary = "SET"
	BoundaryMatch Boundary = "MATCH"
)

// LogEntry is one row of the action log. Entries are immutable once
// appended; undo removes them whole.
type LogEntry struct {
	ID          int64      `json:"id,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
	SetNumber   int        `json:"set"`
	ScoreBefore string     `json:"score"`
	Position    string     `json:"pos"`
	Player      string     `json:"player"`
	Code        ActionCode `json:"action"`
	Boundary    Boundary   `json:"boundary,omitempty"`
}

// IsMarker reports whether the entry is a FIN_SET or FIN_MATCH marker.
func (e LogEntry) IsMarker() bool {
	return e.Code.IsTerminal()
}

// Persisted reports whether the entry has a store record id.
func (e LogEntry) Persisted() bool {
	return e.ID != 0
}

// WinnerTeam returns the team named by a marker entry.
func (e LogEntry) WinnerTeam() Team {
	if !e.IsMarker() {
		return TeamNone
	}
	return Team(e.Player)
}
