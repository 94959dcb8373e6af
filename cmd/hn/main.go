// hn browses Hacker News from the command line.
//
// Usage:
//
//	hn <command> [params] [options]
//	hn shell
//
// Examples:
//
//	hn top 20
//	hn view 3 -cq "(?i)go" -ch
//	hn hiring "(?i)(golang|rust)"
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	haxor "github.com/haxor-news/haxor"
	"github.com/haxor-news/haxor/internal/cli"
	"github.com/haxor-news/haxor/internal/config"
	"github.com/haxor-news/haxor/internal/herrors"
	"github.com/haxor-news/haxor/internal/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, os.Stderr)
	log.Debug().Str("config", cfg.String()).Msg("loaded config")

	app := cli.NewApp(cfg, log)
	root := cli.NewRootCommand(app)
	root.AddCommand(haxor.Command(haxor.FromSettings(os.Args[0], cli.Version, cfg, log)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Execute(ctx, root, app.Grammar, os.Args[1:], nil); err != nil {
		log.Debug().Str("code", herrors.CodeOf(err)).Msg("command failed")
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
