// haxor-news starts the interactive Hacker News shell.
//
// Usage:
//
//	haxor-news [--hn <path>] [--fuzzy]
//
// Every line typed at the prompt runs as an hn command; the hn binary is
// looked up next to haxor-news first, then on PATH.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	haxor "github.com/haxor-news/haxor"
	"github.com/haxor-news/haxor/internal/cli"
	"github.com/haxor-news/haxor/internal/config"
	"github.com/haxor-news/haxor/internal/logger"
)

func main() {
	var (
		binary string
		fuzzy  bool
	)

	root := &cobra.Command{
		Use:           "haxor-news",
		Short:         "Interactive Hacker News shell with auto-completion",
		Version:       cli.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("")
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel, os.Stderr)

			if binary == "" {
				binary = siblingBinary("hn")
			}
			shellCfg := haxor.FromSettings(binary, cli.Version, cfg, log)
			if cmd.Flags().Changed("fuzzy") {
				shellCfg.Engine.SetFuzzy(fuzzy)
			}
			return haxor.New(shellCfg).Run()
		},
	}

	root.Flags().StringVar(&binary, "hn", "", "Path or name of the hn binary (default: next to haxor-news, then PATH)")
	root.Flags().BoolVar(&fuzzy, "fuzzy", false, "Start with fuzzy completion enabled")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// siblingBinary returns name in the directory of the running executable when
// it exists there, and the bare name otherwise.
func siblingBinary(name string) string {
	exe, err := os.Executable()
	if err != nil {
		return name
	}
	candidate := filepath.Join(filepath.Dir(exe), name)
	if _, err := os.Stat(candidate); err != nil {
		return name
	}
	return candidate
}
