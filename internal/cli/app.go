// Package cli builds the hn cobra command tree. Subcommands, their arguments
// and their flags come from the grammar table, the same table the shell's
// completion engine reads.
package cli

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/haxor-news/haxor/internal/config"
	"github.com/haxor-news/haxor/internal/grammar"
	"github.com/haxor-news/haxor/internal/hackernews"
	"github.com/haxor-news/haxor/internal/herrors"
	"github.com/haxor-news/haxor/internal/logger"
)

// Version is reported by the shell banner and `hn --version`.
const Version = "0.6.0"

// maxListIndex separates list positions from literal item ids in `hn view`.
const maxListIndex = 1000

// App carries the collaborators shared by every subcommand.
type App struct {
	Grammar *grammar.Grammar
	Config  *config.Config
	Client  *hackernews.Client
	Log     *logger.Logger

	// Now is the clock used for "recent" comment filtering.
	Now func() time.Time
}

// Subcommand names resolve ignoring case, the same way completion does.
func init() {
	cobra.EnableCaseInsensitive = true
}

// NewApp wires an App from cfg.
func NewApp(cfg *config.Config, log *logger.Logger) *App {
	return &App{
		Grammar: grammar.Default(grammar.PostIDs{Hiring: cfg.HiringID, Freelance: cfg.FreelanceID}),
		Config:  cfg,
		Client:  hackernews.NewClient(cfg.APIURL, log),
		Log:     log,
		Now:     time.Now,
	}
}

// NewRootCommand returns the hn command with one child per grammar
// subcommand.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           app.Grammar.Root(),
		Short:         "Browse Hacker News from the command line",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	for _, sc := range app.Grammar.Subcommands() {
		cmd := &cobra.Command{
			Use:   sc.Name + " " + argUse(sc),
			Short: sc.Description,
			Args:  cobra.MaximumNArgs(1),
		}
		switch sc.Name {
		case "view":
			cmd.Args = cobra.ExactArgs(1)
			cmd.RunE = app.runView
		case "user":
			cmd.Args = cobra.ExactArgs(1)
			cmd.RunE = app.runUser
		case "hiring", "freelance":
			cmd.RunE = app.runHiring
		case "onion":
			cmd.RunE = app.runOnion
		default:
			cmd.RunE = app.runStories
		}
		bindOptions(cmd.Flags(), sc)
		root.AddCommand(cmd)
	}
	return root
}

// Execute runs the command tree with args (excluding the program name).
// Multi-letter short aliases are normalised first.
func Execute(ctx context.Context, root *cobra.Command, g *grammar.Grammar, args []string, out io.Writer) error {
	root.SetArgs(g.NormalizeArgs(args))
	if out != nil {
		root.SetOut(out)
		root.SetErr(out)
	}
	return root.ExecuteContext(ctx)
}

// bindOptions registers sc's options on fs. Options without a value are
// booleans; numeric placeholders become int flags defaulting to the
// placeholder; anything else is a string flag. Only single-letter short
// forms are registered as pflag shorthands; longer ones reach the parser
// already rewritten by grammar.NormalizeArgs.
func bindOptions(fs *pflag.FlagSet, sc grammar.Subcommand) {
	for _, opt := range sc.Options {
		short := ""
		if len(opt.Short) == 2 {
			short = opt.Short[1:]
		}
		switch {
		case opt.Value == "":
			fs.BoolP(opt.Name(), short, false, opt.Description)
		case isNumber(opt.Value):
			n, _ := strconv.Atoi(opt.Value)
			fs.IntP(opt.Name(), short, n, opt.Description)
		default:
			fs.StringP(opt.Name(), short, "", opt.Description)
		}
	}
}

func argUse(sc grammar.Subcommand) string {
	switch sc.Name {
	case "view":
		return "<index>"
	case "user":
		return "<user>"
	case "hiring", "freelance":
		return "[regex]"
	default:
		return "[limit]"
	}
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// parseLimit reads an optional numeric limit argument.
func parseLimit(args []string) (int, error) {
	if len(args) == 0 {
		n, _ := strconv.Atoi(grammar.DefaultArg)
		return n, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, herrors.NewInvalidArgumentError(args[0], "limit must be a non-negative number", err)
	}
	return n, nil
}

// unquote strips one pair of surrounding double quotes, as left by callers
// that pass the completion placeholder verbatim.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// saveConfig persists remembered ids and the seen cache. Failures are logged,
// not returned: the command's output has already been produced.
func (app *App) saveConfig() {
	if err := app.Config.Save(); err != nil {
		app.Log.Error().Err(err).Str("path", app.Config.Path()).Msg("could not save config")
	}
}
