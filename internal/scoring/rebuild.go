package scoring

import (
	"fmt"

	"github.com/mesh-intelligence/courtside/pkg/types"
)

// Rebuild replays the stored rows of one match (most-recent-first, as
// returned by ActionLog.QueryAll) and returns the resulting state. Every
// operator row is re-applied with its stored timestamp; every marker row must
// match the marker the replay regenerates. Stored rows, record ids included,
// become the rebuilt log.
func (e *Engine) Rebuild(matchID string, rows []types.LogEntry) (types.MatchState, error) {
	state := types.NewMatchState(matchID)
	// Indices into state.Log of markers the last replayed action produced
	// that have not yet been matched against a stored row.
	var expect []int

	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]

		if row.IsMarker() {
			if len(expect) == 0 {
				return state, fmt.Errorf("%w: dangling %s row %d", types.ErrLogCorrupt, row.Code, row.ID)
			}
			idx := expect[0]
			expect = expect[1:]
			want := state.Log[idx]
			if row.Code != want.Code || row.ScoreBefore != want.ScoreBefore ||
				row.Player != want.Player || row.SetNumber != want.SetNumber {
				return state, fmt.Errorf("%w: row %d is %s %s %s, replay produced %s %s %s",
					types.ErrLogCorrupt, row.ID, row.Code, row.ScoreBefore, row.Player,
					want.Code, want.ScoreBefore, want.Player)
			}
			state.Log[idx] = row
			continue
		}

		if len(expect) > 0 {
			return state, fmt.Errorf("%w: row %d follows a set-ending action without its marker", types.ErrLogCorrupt, row.ID)
		}
		if row.SetNumber != state.CurrentSet || row.ScoreBefore != state.Score() {
			return state, fmt.Errorf("%w: row %d recorded set %d at %s, replay is at set %d %s",
				types.ErrLogCorrupt, row.ID, row.SetNumber, row.ScoreBefore, state.CurrentSet, state.Score())
		}
		zone, err := types.ParseZone(row.Position)
		if err != nil {
			return state, fmt.Errorf("%w: row %d: %w", types.ErrLogCorrupt, row.ID, err)
		}

		next, appended, err := e.Apply(state, Action{
			Zone:   zone,
			Player: row.Player,
			Code:   row.Code,
			At:     row.Timestamp,
		})
		if err != nil {
			return state, fmt.Errorf("%w: row %d: %w", types.ErrLogCorrupt, row.ID, err)
		}
		if appended[0].Boundary != row.Boundary {
			return state, fmt.Errorf("%w: row %d has boundary %q, replay produced %q",
				types.ErrLogCorrupt, row.ID, row.Boundary, appended[0].Boundary)
		}

		n := len(appended)
		next.Log[n-1] = row
		for k := 1; k < n; k++ {
			expect = append(expect, n-1-k)
		}
		state = next
	}

	if len(expect) > 0 {
		return state, fmt.Errorf("%w: log ends before its set-ending markers", types.ErrLogCorrupt)
	}
	return state, nil
}
