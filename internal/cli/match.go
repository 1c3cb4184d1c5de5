package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/courtside/internal/session"
	"github.com/mesh-intelligence/courtside/pkg/types"
)

func newNewCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new match",
		Long:  "Register a new match with the configured team names and make it the latest match.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd, flags, nil)
			if err != nil {
				return err
			}
			defer env.close()

			snap, err := env.scorer.NewMatch(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), flags, snap, func(w io.Writer) error {
				fmt.Fprintf(w, "Match %s: %s vs %s\n", snap.MatchID, snap.HomeName, snap.AwayName)
				return printSnapshot(w, snap)
			})
		},
	}
}

func newRecordCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "record ZONE PLAYER CODE",
		Short: "Record one action",
		Long: "Record an action by court zone (1-6 or P1-P6), player shirt number\n" +
			"and outcome code (for example ATK_POINT). Run 'courtside catalog' for\n" +
			"the list of codes.",
		Example: "  courtside record P4 10 ATK_POINT\n  courtside record 1 12 svc_err",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			zone, err := types.ParseZone(args[0])
			if err != nil {
				return err
			}
			number, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: %q", types.ErrInvalidPlayer, args[1])
			}
			code, err := types.ParseActionCode(args[2])
			if err != nil {
				return err
			}

			return withMatch(cmd, flags, func(env *appEnv, _ session.Snapshot) error {
				snap, err := env.scorer.Record(cmd.Context(), zone, number, code)
				if err != nil {
					return err
				}
				return emit(cmd.OutOrStdout(), flags, snap, func(w io.Writer) error {
					return printSnapshot(w, snap)
				})
			})
		},
	}
}

func newUndoCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the most recent action",
		Long: "Remove the most recent action. If it closed a set or the match, the\n" +
			"closing markers are removed with it and the set is reopened.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMatch(cmd, flags, func(env *appEnv, _ session.Snapshot) error {
				snap, err := env.scorer.Undo(cmd.Context())
				if err != nil {
					return err
				}
				return emit(cmd.OutOrStdout(), flags, snap, func(w io.Writer) error {
					return printSnapshot(w, snap)
				})
			})
		},
	}
}

func newScoreCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Show the scoreboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMatch(cmd, flags, func(env *appEnv, snap session.Snapshot) error {
				return emit(cmd.OutOrStdout(), flags, snap, func(w io.Writer) error {
					return printSnapshot(w, snap)
				})
			})
		},
	}
}
