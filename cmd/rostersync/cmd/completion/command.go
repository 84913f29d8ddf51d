// Package completion implements the shell completion command.
package completion

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/rostersync/pkg/errors"
)

// Supported shells.
const (
	ShellBash       = "bash"
	ShellZsh        = "zsh"
	ShellFish       = "fish"
	ShellPowerShell = "powershell"
)

// NewCommand creates the completion command. It replaces cobra's generated
// one so the help text names rostersync.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Generate shell completion scripts",
		Long: `Generate the autocompletion script for the given shell.

To load completions in your current bash session:

  source <(rostersync completion bash)

To load completions for every new zsh session, execute once:

  rostersync completion zsh > "${fpath[1]}/_rostersync"

For fish:

  rostersync completion fish > ~/.config/fish/completions/rostersync.fish`,
		ValidArgs:             []string{ShellBash, ShellZsh, ShellFish, ShellPowerShell},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case ShellBash:
				return root.GenBashCompletionV2(out, true)
			case ShellZsh:
				return root.GenZshCompletion(out)
			case ShellFish:
				return root.GenFishCompletion(out, true)
			case ShellPowerShell:
				return root.GenPowerShellCompletionWithDesc(out)
			default:
				return errors.NewValidationError("shell", args[0], "unsupported shell")
			}
		},
	}
}
