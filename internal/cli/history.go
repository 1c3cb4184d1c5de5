package cli

import (
	"fmt"
	"io"

	"github.com/elliotchance/pie/v2"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/courtside/internal/session"
	"github.com/mesh-intelligence/courtside/pkg/sqlite"
	"github.com/mesh-intelligence/courtside/pkg/types"
)

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var (
		set    int
		oldest bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the action log of a match",
		Long:  "List stored actions and set/match markers, most recent first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMatch(cmd, flags, func(env *appEnv, _ session.Snapshot) error {
				rows, err := env.scorer.History(cmd.Context())
				if err != nil {
					return err
				}
				if set > 0 {
					rows = pie.Filter(rows, func(e types.LogEntry) bool { return e.SetNumber == set })
				}
				if oldest {
					rows = pie.Reverse(rows)
				}
				if rows == nil {
					rows = []types.LogEntry{}
				}
				return emit(cmd.OutOrStdout(), flags, rows, func(w io.Writer) error {
					return printEntries(w, rows)
				})
			})
		},
	}
	cmd.Flags().IntVar(&set, "set", 0, "only show rows of this set")
	cmd.Flags().BoolVar(&oldest, "oldest", false, "list oldest first")
	return cmd
}

func newMatchesCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "matches",
		Short: "List recorded matches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd, flags, nil)
			if err != nil {
				return err
			}
			defer env.close()

			matches, err := env.store.ListMatches(cmd.Context())
			if err != nil {
				return fmt.Errorf("%w: %w", types.ErrPersistenceUnavailable, err)
			}
			if matches == nil {
				matches = []types.Match{}
			}
			return emit(cmd.OutOrStdout(), flags, matches, func(w io.Writer) error {
				tw := newTable(w)
				fmt.Fprintln(tw, "ID\tHOME\tAWAY\tCREATED")
				for _, m := range matches {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
						m.ID, m.HomeName, m.AwayName, m.CreatedAt.Local().Format("2006-01-02 15:04"))
				}
				return tw.Flush()
			})
		},
	}
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Export a match's action log as JSONL",
		Long:  "Write one JSON object per stored row, oldest first, to FILE.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			return withMatch(cmd, flags, func(env *appEnv, snap session.Snapshot) error {
				rows, err := env.scorer.History(cmd.Context())
				if err != nil {
					return err
				}
				if err := sqlite.WriteActionsJSONL(path, snap.MatchID, rows); err != nil {
					return systemError("export", err)
				}
				env.log.WithField("path", path).WithField("rows", len(rows)).Debug("exported")
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows of match %s to %s\n", len(rows), snap.MatchID, path)
				return nil
			})
		},
	}
}
