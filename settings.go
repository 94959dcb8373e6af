package haxor

import (
	"fmt"

	"github.com/haxor-news/haxor/internal/completion"
	"github.com/haxor-news/haxor/internal/config"
	"github.com/haxor-news/haxor/internal/grammar"
	"github.com/haxor-news/haxor/internal/logger"
)

// FromSettings builds the Config for a shell over the hn binary at binary.
// Its hooks print the banner on start and write changed fuzzy and paginate
// settings back to the config file on exit.
func FromSettings(binary, version string, settings *config.Config, log *logger.Logger) Config {
	g := grammar.Default(grammar.PostIDs{Hiring: settings.HiringID, Freelance: settings.FreelanceID})
	return Config{
		BinaryPath:  binary,
		Prompt:      settings.Prompt,
		HistoryFile: settings.HistoryFile,
		Engine:      completion.NewEngine(g, settings.Fuzzy),
		Paginate:    settings.Paginate,
		Pager:       settings.Pager,
		EnvBuiltin:  "env",
		Log:         log,
		Hooks: Hooks{
			OnStart: func(sh *Shell) {
				fmt.Fprint(sh.out, Banner(version))
				fmt.Fprintln(sh.out, sh.Status())
			},
			AfterExec: func(args []string, exitCode int) {
				if exitCode != 0 {
					log.Debug().Strs("args", args).Int("code", exitCode).Msg("command failed")
				}
			},
			OnExit: func(sh *Shell) {
				saveSettings(sh, settings, log)
			},
		},
	}
}

func saveSettings(sh *Shell, settings *config.Config, log *logger.Logger) {
	fuzzy, paginate := sh.Fuzzy(), sh.Paginate()
	if fuzzy == settings.Fuzzy && paginate == settings.Paginate {
		return
	}
	err := config.Update(settings.Path(), func(c *config.Config) {
		c.Fuzzy = fuzzy
		c.Paginate = paginate
	})
	if err != nil {
		log.Error().Err(err).Msg("could not save shell settings")
		return
	}
	log.Info().Bool("fuzzy", fuzzy).Bool("paginate", paginate).Msg("saved shell settings")
	settings.Fuzzy, settings.Paginate = fuzzy, paginate
}
