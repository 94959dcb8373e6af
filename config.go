// Package haxor is the interactive haxor-news shell. Each accepted line is
// run as an `hn` invocation in a child process; tab completion is answered
// in-process by the completion engine, so the shell never has to ask the
// binary what it accepts.
//
// Minimal usage:
//
//	sh := haxor.New(haxor.Config{
//	    BinaryPath: os.Args[0],
//	    Engine:     completion.NewEngine(grammar.Default(grammar.PostIDs{}), false),
//	})
//	if err := sh.Run(); err != nil {
//	    log.Fatal(err)
//	}
package haxor

import (
	"github.com/haxor-news/haxor/internal/completion"
	"github.com/haxor-news/haxor/internal/logger"
)

// Config holds the configuration for a [Shell].
//
// All fields are optional except BinaryPath. Zero values are replaced with
// defaults by [New].
type Config struct {
	// BinaryPath is the hn binary run for every accepted line. A bare name is
	// resolved via PATH; anything with a separator is made absolute.
	BinaryPath string

	// Prompt is printed at the start of each input line. Defaults to
	// "haxor> ".
	Prompt string

	// HistoryFile persists command history across sessions. Defaults to
	// ~/.haxornewshistory.
	HistoryFile string

	// Engine answers tab completion. Defaults to an engine over the default
	// grammar with fuzzy matching off.
	Engine *completion.Engine

	// Paginate sends the output of comment-viewing commands through Pager.
	Paginate bool

	// Pager is the command line of the pager. Defaults to "less -r".
	Pager string

	// Env contains additional "KEY=VALUE" variables for every child process.
	// They are appended to the current process environment.
	Env []string

	// EnvBuiltin, when non-empty, enables a built-in command for managing
	// session-scoped environment variables under that name. Supported
	// subcommands: list, set KEY VALUE, unset KEY. Since hn reads HAXOR_*
	// variables on start, `env set HAXOR_LOG_LEVEL debug` changes how every
	// following command behaves.
	EnvBuiltin string

	// Log receives debug output about dispatch and pagination. Defaults to a
	// discarding logger.
	Log *logger.Logger

	// Hooks contains optional lifecycle callbacks.
	Hooks Hooks
}

// Hooks contains optional lifecycle callbacks for a [Shell]. A nil function
// is a no-op.
type Hooks struct {
	// BeforeExec is called with the hn arguments of each command, before
	// anything is spawned. A non-nil error cancels the command; its message
	// is printed and the shell continues.
	BeforeExec func(args []string) error

	// AfterExec is called after each command completes with its arguments
	// and exit code, including non-zero ones.
	AfterExec func(args []string, exitCode int)

	// OnStart is called once before the first prompt. The hn commands use it
	// to print the banner.
	OnStart func(shell *Shell)

	// OnExit is called once when the shell exits via Ctrl-D or "exit".
	OnExit func(shell *Shell)
}
