// Package rosters implements the roster command.
package rosters

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/rostersync/internal/appcontext"
	"github.com/agentstation/rostersync/internal/cmd/output"
	"github.com/agentstation/rostersync/internal/cmd/table"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/identity"
)

// NewCommand creates the roster command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var holds bool
	cmd := &cobra.Command{
		Use:     "roster <group>",
		GroupID: "core",
		Short:   "Fetch and print a group's roster report",
		Long: `Roster downloads and parses the report configured for a group and prints
the records a sync would apply, after key normalization and de-duplication.`,
		Example: `  rostersync roster Faculty
  rostersync roster Faculty --holds -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, ok := app.Groups()[args[0]]
			if !ok {
				return errors.NewNotFoundError("group", args[0])
			}
			source := g.Source
			if holds {
				if !g.HasHolds() {
					return errors.NewValidationError("holds", args[0], "no holds report configured for group")
				}
				source = g.Holds
			}

			records, err := app.RosterProvider().Fetch(cmd.Context(), source)
			if err != nil {
				return err
			}
			r, dupes := identity.NewRoster(records)
			for _, k := range dupes {
				app.Logger().Warn().Str("user", k.String()).Msg("Duplicate roster key, keeping the last record")
			}

			sorted := make([]identity.RosterRecord, 0, len(r))
			for _, k := range r.Keys() {
				sorted = append(sorted, r[k])
			}

			format := output.DetectFormat(app.OutputFormat())
			var data any = sorted
			if format.IsTable() {
				data = table.RosterToTableData(sorted)
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
		},
	}
	cmd.Flags().BoolVar(&holds, "holds", false, "print the holds report instead")
	return cmd
}
