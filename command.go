package haxor

import "github.com/spf13/cobra"

// Command returns the `hn shell` subcommand, which starts an interactive
// shell over the hn binary described by cfg:
//
//	root.AddCommand(haxor.Command(haxor.Config{
//	    BinaryPath: os.Args[0],
//	    Engine:     engine,
//	}))
//
// With BinaryPath set to os.Args[0] the shell runs the current binary.
func Command(cfg Config) *cobra.Command {
	var fuzzy, noPaginate bool
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shell",
		Long: "Start an interactive shell that runs hn commands with " +
			"tab completion and persistent history.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh := New(cfg)
			if cmd.Flags().Changed("fuzzy") {
				sh.cfg.Engine.SetFuzzy(fuzzy)
			}
			if noPaginate {
				sh.paginate = false
			}
			return sh.Run()
		},
	}
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "Start with fuzzy completion enabled")
	cmd.Flags().BoolVar(&noPaginate, "no-paginate", false, "Print comments without a pager")
	return cmd
}
