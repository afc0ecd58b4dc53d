package cmd

import (
	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for meshview.

To load completions:

Bash:

  $ source <(meshview completion bash)

  To load completions for each session, execute once:
  Linux:
    $ meshview completion bash > /etc/bash_completion.d/meshview
  macOS:
    $ meshview completion bash > /usr/local/etc/bash_completion.d/meshview

Zsh:

  If shell completion is not already enabled in your environment,
  you will need to enable it. You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  To load completions for each session, execute once:
  $ meshview completion zsh > "${fpath[1]}/_meshview"

  You will need to start a new shell for this setup to take effect.

Fish:

  $ meshview completion fish | source

  To load completions for each session, execute once:
  $ meshview completion fish > ~/.config/fish/completions/meshview.fish
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(out)
			case "zsh":
				return root.GenZshCompletion(out)
			default:
				return root.GenFishCompletion(out, true)
			}
		},
	}
}
