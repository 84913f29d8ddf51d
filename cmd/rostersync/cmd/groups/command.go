// Package groups implements the groups command.
package groups

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/rostersync/internal/appcontext"
	"github.com/agentstation/rostersync/internal/cmd/output"
	"github.com/agentstation/rostersync/internal/cmd/table"
)

// NewCommand creates the groups command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "groups",
		GroupID: "core",
		Short:   "List configured groups with their directory ids",
		Long: `Groups lists every configured group, resolving its directory id by name
when none is configured and counting its Active members. Lookup failures are
shown per group rather than failing the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			dir, err := app.Directory(ctx)
			if err != nil {
				return err
			}

			var rows []table.GroupStatus
			for _, g := range app.Groups().Sorted() {
				row := table.GroupStatus{Name: g.Name, ID: g.ID, Source: g.Source, Holds: g.Holds}
				if row.ID == "" {
					if row.ID, err = dir.ResolveGroupID(ctx, g.Name); err != nil {
						row.Error = err.Error()
						rows = append(rows, row)
						continue
					}
				}
				members, err := dir.ListGroupMembers(ctx, g.Name)
				if err != nil {
					row.Error = err.Error()
				}
				row.Members = len(members)
				rows = append(rows, row)
			}

			format := output.DetectFormat(app.OutputFormat())
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), rows)
		},
	}
}
