// Package cli implements the courtside command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/courtside/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// errSystem marks failures that are not the operator's fault: unreadable
// config, unopenable database, failed writes.
var errSystem = errors.New("system error")

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	matchID   string
	jsonMode  bool
}

// NewRootCmd creates the top-level "courtside" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "courtside",
		Short: "Live volleyball action scorer",
		Long: "Courtside records every touch of a volleyball match as zone, player\n" +
			"and outcome, keeps the score and set count, and stores the action log\n" +
			"so a match can be undone, resumed and exported.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .courtside-db)")
	root.PersistentFlags().StringVar(&flags.matchID, "match", "", "match id to operate on (default: latest match)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(flags),
		newNewCmd(flags),
		newRecordCmd(flags),
		newUndoCmd(flags),
		newScoreCmd(flags),
		newHistoryCmd(flags),
		newMatchesCmd(flags),
		newExportCmd(flags),
		newCatalogCmd(flags),
		newServeCmd(flags),
	)
	return root
}

// Run executes the command line in args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, errSystem),
		errors.Is(err, types.ErrPersistenceUnavailable),
		errors.Is(err, types.ErrLogCorrupt),
		errors.Is(err, types.ErrStoreDetached):
		return exitSysError
	default:
		return exitUserError
	}
}

// systemError tags err so Run exits with exitSysError.
func systemError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", errSystem, op, err)
}
