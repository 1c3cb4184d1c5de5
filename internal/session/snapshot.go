package session

import (
	"fmt"

	"github.com/mesh-intelligence/courtside/pkg/types"
)

// Snapshot is what a front end renders after every operation.
type Snapshot struct {
	MatchID    string           `json:"matchId"`
	HomeName   string           `json:"homeName"`
	AwayName   string           `json:"awayName"`
	ScoreHome  int              `json:"scoreHome"`
	ScoreAway  int              `json:"scoreAway"`
	SetsHome   int              `json:"setsHome"`
	SetsAway   int              `json:"setsAway"`
	CurrentSet int              `json:"currentSet"`
	Phase      types.Phase      `json:"phase"`
	Winner     types.Team       `json:"winner,omitempty"`
	Message    string           `json:"message"`
	Pending    *PendingView     `json:"pending,omitempty"`
	Log        []types.LogEntry `json:"log"`
}

// PendingView describes the operator's selection in progress.
type PendingView struct {
	Zone     string        `json:"zone"`
	ZoneName string        `json:"zoneName"`
	Player   *types.Player `json:"player,omitempty"`
}

func (s *Scorer) snapshotLocked() Snapshot {
	st := s.state.Clone()
	snap := Snapshot{
		MatchID:    st.MatchID,
		HomeName:   s.match.HomeName,
		AwayName:   s.match.AwayName,
		ScoreHome:  st.ScoreHome,
		ScoreAway:  st.ScoreAway,
		SetsHome:   st.SetsHome,
		SetsAway:   st.SetsAway,
		CurrentSet: st.CurrentSet,
		Phase:      st.Phase(),
		Winner:     st.Winner(),
		Log:        st.Log,
	}
	if snap.Log == nil {
		snap.Log = []types.LogEntry{}
	}

	names := types.Teams{Home: s.match.HomeName, Away: s.match.AwayName}
	if st.IsOver() {
		snap.Message = fmt.Sprintf("MATCH OVER: %s wins %d-%d",
			names.Name(st.Winner()), max(st.SetsHome, st.SetsAway), min(st.SetsHome, st.SetsAway))
	} else {
		snap.Message = fmt.Sprintf("Set %d in progress", st.CurrentSet)
	}

	if p := st.Pending; p != nil {
		view := &PendingView{Zone: p.Zone.Label(), ZoneName: p.Zone.Name()}
		if p.HasPlayer {
			player := p.Player
			view.Player = &player
		}
		snap.Pending = view
	}
	return snap
}
