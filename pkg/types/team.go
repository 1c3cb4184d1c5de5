package types

// Team identifies a side of the net. Home is the tracked team whose players
// are on the roster.
type Team string

// Teams.
const (
	TeamNone Team = ""
	TeamHome Team = "HOME"
	TeamAway Team = "AWAY"
)

// Teams holds the display names of both sides.
type Teams struct {
	Home string `json:"home" yaml:"home"`
	Away string `json:"away" yaml:"away"`
}

// DefaultTeams returns the display names used when none are configured.
func DefaultTeams() Teams {
	return Teams{Home: string(TeamHome), Away: string(TeamAway)}
}

// Name returns the display name of t, or the empty string for TeamNone.
func (ts Teams) Name(t Team) string {
	switch t {
	case TeamHome:
		return ts.Home
	case TeamAway:
		return ts.Away
	default:
		return ""
	}
}
