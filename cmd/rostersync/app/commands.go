package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/rostersync/cmd/rostersync/cmd/completion"
	"github.com/agentstation/rostersync/cmd/rostersync/cmd/groups"
	"github.com/agentstation/rostersync/cmd/rostersync/cmd/rosters"
	"github.com/agentstation/rostersync/cmd/rostersync/cmd/run"
)

// NewSyncCommand creates the sync command with app dependencies.
func (a *App) NewSyncCommand() *cobra.Command {
	return run.NewCommand(a)
}

// NewGroupsCommand creates the groups command with app dependencies.
func (a *App) NewGroupsCommand() *cobra.Command {
	return groups.NewCommand(a)
}

// NewRosterCommand creates the roster command with app dependencies.
func (a *App) NewRosterCommand() *cobra.Command {
	return rosters.NewCommand(a)
}

// NewCompletionCommand creates the shell completion command.
func (a *App) NewCompletionCommand() *cobra.Command {
	return completion.NewCommand()
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("rostersync %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
