package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mesh-intelligence/courtside/internal/session"
	"github.com/mesh-intelligence/courtside/pkg/types"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit writes v as JSON in --json mode, otherwise calls text.
func emit(w io.Writer, flags *rootFlags, v any, text func(io.Writer) error) error {
	if flags.jsonMode {
		return printJSON(w, v)
	}
	return text(w)
}

// printSnapshot renders the scoreboard:
//
//	Cannes 12 - 10 Tours   sets 1-0
//	Set 2 in progress
func printSnapshot(w io.Writer, snap session.Snapshot) error {
	if _, err := fmt.Fprintf(w, "%s %d - %d %s   sets %d-%d\n",
		snap.HomeName, snap.ScoreHome, snap.ScoreAway, snap.AwayName,
		snap.SetsHome, snap.SetsAway); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, snap.Message)
	return err
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// printEntries renders log rows as a table in the order given.
func printEntries(w io.Writer, rows []types.LogEntry) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSET\tSCORE\tPOS\tPLAYER\tACTION\tTIME")
	for _, e := range rows {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.SetNumber, e.ScoreBefore, e.Position, e.Player, e.Code,
			e.Timestamp.Local().Format("15:04:05"))
	}
	return tw.Flush()
}
