package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/elliotchance/pie/v2"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/courtside/pkg/types"
)

// catalogView is the --json shape of the catalog command.
type catalogView struct {
	Zones      []string         `json:"zones"`
	Roster     types.Roster     `json:"roster"`
	Categories []types.Category `json:"categories"`
	Teams      types.Teams      `json:"teams"`
}

func effectLabel(e types.Effect) string {
	switch e {
	case types.EffectPointHome:
		return "+1 home"
	case types.EffectPointAway:
		return "+1 away"
	default:
		return ""
	}
}

func newCatalogCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List zones, players and action codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(flags)
			if err != nil {
				return systemError("load config", err)
			}
			view := catalogView{
				Zones: pie.Map(types.Zones(), func(z types.Zone) string {
					return z.Label() + " " + z.Name()
				}),
				Roster:     s.Roster,
				Categories: types.Categories(),
				Teams:      s.Teams,
			}
			return emit(cmd.OutOrStdout(), flags, view, func(w io.Writer) error {
				return printCatalog(w, view)
			})
		},
	}
}

func printCatalog(w io.Writer, view catalogView) error {
	fmt.Fprintf(w, "Teams: %s (home) vs %s (away)\n\n", view.Teams.Home, view.Teams.Away)
	fmt.Fprintf(w, "Zones: %s\n\n", strings.Join(view.Zones, ", "))

	tw := newTable(w)
	fmt.Fprintln(tw, "NUMBER\tPLAYER")
	for _, p := range view.Roster {
		fmt.Fprintf(tw, "%d\t%s\n", p.Number, p.Label())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	tw = newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tCODE\tOUTCOME\tPOINT")
	for _, c := range view.Categories {
		for _, o := range c.Outcomes {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, o.Code, o.Label, effectLabel(o.Effect))
		}
	}
	return tw.Flush()
}
