package scoring

import (
	"fmt"

	"github.com/mesh-intelligence/courtside/pkg/types"
)

// Undo reverses the most recent operator action. When that action closed a
// set or the match, its markers are popped first and the closed set is
// reopened at the score it had before the winning point. The popped entries
// are returned in pop order (newest first). s is not modified.
func (e *Engine) Undo(s types.MatchState) (types.MatchState, []types.LogEntry, error) {
	if len(s.Log) == 0 {
		return s, nil, types.ErrNothingToUndo
	}

	next := s.Clone()
	var popped []types.LogEntry
	want := types.BoundaryNone

	if next.Log[0].Code == types.CodeMatchEnd {
		popped = append(popped, next.Log[0])
		next.Log = next.Log[1:]
		if len(next.Log) == 0 || next.Log[0].Code != types.CodeSetEnd {
			return s, nil, fmt.Errorf("%w: FIN_MATCH not preceded by FIN_SET", types.ErrLogCorrupt)
		}
		want = types.BoundaryMatch
	}

	if next.Log[0].Code == types.CodeSetEnd {
		if want == types.BoundaryNone {
			want = types.BoundarySet
		}
		if err := reopenSet(&next, next.Log[0]); err != nil {
			return s, nil, err
		}
		popped = append(popped, next.Log[0])
		next.Log = next.Log[1:]
	}

	if len(next.Log) == 0 {
		return s, nil, fmt.Errorf("%w: marker without action", types.ErrLogCorrupt)
	}
	action := next.Log[0]
	if action.IsMarker() || action.Boundary != want {
		return s, nil, fmt.Errorf("%w: %s entry %d has boundary %q, want %q",
			types.ErrLogCorrupt, action.Code, action.ID, action.Boundary, want)
	}
	if action.SetNumber != next.CurrentSet {
		return s, nil, fmt.Errorf("%w: entry %d belongs to set %d, current set is %d",
			types.ErrLogCorrupt, action.ID, action.SetNumber, next.CurrentSet)
	}

	switch action.Code.Effect() {
	case types.EffectPointHome:
		next.ScoreHome = max(next.ScoreHome-1, 0)
	case types.EffectPointAway:
		next.ScoreAway = max(next.ScoreAway-1, 0)
	}
	popped = append(popped, action)
	next.Log = next.Log[1:]

	if len(next.Log) == 0 {
		next.Log = nil
	}
	return next, popped, nil
}

// reopenSet restores the set closed by marker: its number, its final score
// and the winner's set count.
func reopenSet(s *types.MatchState, marker types.LogEntry) error {
	home, away, err := types.ParseScore(marker.ScoreBefore)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrLogCorrupt, err)
	}

	switch marker.WinnerTeam() {
	case types.TeamHome:
		if s.SetsHome == 0 {
			return fmt.Errorf("%w: FIN_SET for %s with no sets won", types.ErrLogCorrupt, types.TeamHome)
		}
		s.SetsHome--
	case types.TeamAway:
		if s.SetsAway == 0 {
			return fmt.Errorf("%w: FIN_SET for %s with no sets won", types.ErrLogCorrupt, types.TeamAway)
		}
		s.SetsAway--
	default:
		return fmt.Errorf("%w: FIN_SET names unknown winner %q", types.ErrLogCorrupt, marker.Player)
	}

	s.CurrentSet = marker.SetNumber
	s.ScoreHome, s.ScoreAway = home, away
	return nil
}
