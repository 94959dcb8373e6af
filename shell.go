package haxor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"

	"github.com/haxor-news/haxor/internal/completion"
	"github.com/haxor-news/haxor/internal/config"
	"github.com/haxor-news/haxor/internal/grammar"
	"github.com/haxor-news/haxor/internal/logger"
)

const defaultPrompt = "haxor> "

// ctrlO toggles fuzzy matching at the prompt.
const ctrlO rune = 15

var (
	// pagedArgs send a command's output through the pager.
	pagedArgs = map[string]bool{
		"-cq": true, "--comments_regex_query": true,
		"-c": true, "--comments": true,
		"-cr": true, "--comments_recent": true,
		"-cu": true, "--comments_unseen": true,
		"-ch": true, "--comments_hide_non_matching": true,
		"hiring": true, "freelance": true,
	}
	// unpagedArgs keep output out of the pager even when pagedArgs match.
	unpagedArgs = map[string]bool{"-b": true, "--browser": true}
)

// Shell runs hn commands from a readline loop. Create one with [New] and
// start it with [Shell.Run].
type Shell struct {
	cfg        Config
	binary     string            // resolved absolute path; empty when initErr is set
	initErr    error             // deferred error from New, returned by Run
	sessionEnv map[string]string // runtime env overrides; set via SetEnv/UnsetEnv
	paginate   bool

	out    io.Writer
	errOut io.Writer
	spawn  func(c *command) (int, error)
	rl     *readline.Instance
}

// New creates a Shell from cfg. BinaryPath is resolved immediately; if that
// fails the error is stored and returned by [Shell.Run].
//
// New never returns nil.
func New(cfg Config) *Shell {
	s := &Shell{
		sessionEnv: make(map[string]string),
		out:        os.Stdout,
		errOut:     os.Stderr,
	}
	s.spawn = s.spawnProcess

	if cfg.Log == nil {
		cfg.Log = logger.Discard()
	}
	if cfg.Engine == nil {
		cfg.Engine = completion.NewEngine(grammar.Default(grammar.PostIDs{}), false)
	}
	if cfg.Prompt == "" {
		cfg.Prompt = defaultPrompt
	}
	if cfg.Pager == "" {
		cfg.Pager = config.DefaultPager()
	}
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = defaultHistoryFilePath()
	}
	s.paginate = cfg.Paginate
	s.cfg = cfg

	binary, err := resolveBinary(cfg.BinaryPath)
	if err != nil {
		s.initErr = fmt.Errorf("haxor: resolve binary %q: %w", cfg.BinaryPath, err)
		return s
	}
	s.binary = binary
	return s
}

// Fuzzy reports whether completion uses fuzzy matching.
func (s *Shell) Fuzzy() bool { return s.cfg.Engine.Fuzzy() }

// Paginate reports whether comment output goes through the pager.
func (s *Shell) Paginate() bool { return s.paginate }

// Run starts the interactive loop. It blocks until the user exits via Ctrl-D
// or the built-in "exit" command, which return nil.
func (s *Shell) Run() error {
	if s.initErr != nil {
		return s.initErr
	}

	c := &completer{shell: s}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:              s.prompt(),
		HistoryFile:         s.cfg.HistoryFile,
		HistorySearchFold:   true,
		AutoComplete:        c,
		FuncFilterInputRune: s.filterInput,
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
	})
	if err != nil {
		return fmt.Errorf("haxor: initialise readline: %w", err)
	}
	defer rl.Close()
	s.rl = rl
	c.replace = rl.Operation.SetBuffer

	if s.cfg.Hooks.OnStart != nil {
		s.cfg.Hooks.OnStart(s)
	}

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			return fmt.Errorf("haxor: readline: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			break
		}
		s.execute(line)
	}

	if s.cfg.Hooks.OnExit != nil {
		s.cfg.Hooks.OnExit(s)
	}
	return nil
}

// execute runs one accepted line: built-ins in process, everything else as
// an hn child process.
func (s *Shell) execute(line string) {
	tokens, err := shlex.Split(line)
	if err != nil {
		writeErr(s.errOut, "haxor: parse error: %v\n", err)
		return
	}
	if len(tokens) == 0 {
		return
	}
	if s.handleBuiltin(tokens) || s.handleEnvBuiltin(tokens) {
		return
	}

	c, err := parseCommand(s.cfg.Engine.Grammar().Root(), tokens)
	if err != nil {
		writeErr(s.errOut, "haxor: %v\n", err)
		return
	}

	if s.cfg.Hooks.BeforeExec != nil {
		if err := s.cfg.Hooks.BeforeExec(c.args); err != nil {
			writeErr(s.errOut, "%v\n", err)
			return
		}
	}

	c.paged = s.paginate && c.redirect == "" && wantsPager(c.args)
	s.cfg.Log.Debug().
		Strs("args", c.args).
		Bool("paged", c.paged).
		Int("pipes", len(c.pipes)).
		Str("redirect", c.redirect).
		Msg("dispatch")

	exitCode, err := s.spawn(c)
	if err != nil {
		writeErr(s.errOut, "haxor: %v\n", err)
	}
	if s.cfg.Hooks.AfterExec != nil {
		s.cfg.Hooks.AfterExec(c.args, exitCode)
	}
}

// handleBuiltin runs the fuzzy and paginate toggles. Each takes an optional
// on/off argument; without one the setting flips.
func (s *Shell) handleBuiltin(tokens []string) bool {
	switch tokens[0] {
	case "fuzzy":
		on, err := toggleValue(tokens[1:], s.Fuzzy())
		if err != nil {
			writeErr(s.errOut, "usage: fuzzy [on|off]\n")
			return true
		}
		s.cfg.Engine.SetFuzzy(on)
		s.refreshPrompt()
	case "paginate":
		on, err := toggleValue(tokens[1:], s.paginate)
		if err != nil {
			writeErr(s.errOut, "usage: paginate [on|off]\n")
			return true
		}
		s.paginate = on
	default:
		return false
	}
	s.cfg.Log.Info().Bool("fuzzy", s.Fuzzy()).Bool("paginate", s.paginate).Msg("settings changed")
	fmt.Fprintln(s.out, s.Status())
	return true
}

func toggleValue(args []string, current bool) (bool, error) {
	if len(args) == 0 {
		return !current, nil
	}
	switch strings.ToLower(args[0]) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return current, fmt.Errorf("invalid toggle %q", args[0])
}

// filterInput handles the Ctrl-O key binding before readline sees the rune.
func (s *Shell) filterInput(r rune) (rune, bool) {
	if r != ctrlO {
		return r, true
	}
	on := s.cfg.Engine.ToggleFuzzy()
	s.cfg.Log.Debug().Bool("fuzzy", on).Msg("fuzzy matching toggled")
	s.refreshPrompt()
	return r, false
}

func (s *Shell) refreshPrompt() {
	if s.rl == nil {
		return
	}
	s.rl.SetPrompt(s.prompt())
	s.rl.Refresh()
}

// command is one accepted line split into the hn arguments and whatever the
// line pipes or redirects their output to.
type command struct {
	args     []string
	pipes    [][]string
	redirect string
	paged    bool
}

// parseCommand drops a leading root token, splits tokens at standalone "|"
// and takes a trailing "> file" as the output target.
func parseCommand(root string, tokens []string) (*command, error) {
	if len(tokens) > 0 && strings.EqualFold(tokens[0], root) {
		tokens = tokens[1:]
	}

	var segments [][]string
	start := 0
	for i, tok := range tokens {
		if tok == "|" {
			segments = append(segments, tokens[start:i])
			start = i + 1
		}
	}
	segments = append(segments, tokens[start:])

	c := &command{}
	last := segments[len(segments)-1]
	for i, tok := range last {
		if tok != ">" {
			continue
		}
		if i != len(last)-2 {
			return nil, errors.New("redirect must be the last part of the line: > FILE")
		}
		c.redirect = last[i+1]
		segments[len(segments)-1] = last[:i]
		break
	}

	for i, seg := range segments[1:] {
		if len(seg) == 0 {
			return nil, fmt.Errorf("empty command after pipe %d", i+1)
		}
	}
	c.args = segments[0]
	c.pipes = segments[1:]
	return c, nil
}

// wantsPager reports whether args view comments without asking for the
// browser.
func wantsPager(args []string) bool {
	paged := false
	for _, arg := range args {
		name, _, _ := strings.Cut(arg, "=")
		if unpagedArgs[name] {
			return false
		}
		if pagedArgs[name] {
			paged = true
		}
	}
	return paged
}

// spawnProcess runs c. A bare command gets the terminal through a PTY; pipes,
// redirects and the pager run as a pipeline.
func (s *Shell) spawnProcess(c *command) (int, error) {
	env := s.buildEnv()
	if len(c.pipes) == 0 && c.redirect == "" && !c.paged {
		return spawnCommand(s.binary, c.args, env)
	}

	hn := exec.Command(s.binary, c.args...)
	hn.Env = env
	stages := []*exec.Cmd{hn}
	for _, p := range c.pipes {
		stage := exec.Command(p[0], p[1:]...)
		stage.Env = env
		stages = append(stages, stage)
	}

	if c.paged {
		if pager := s.pagerCommand(); pager != nil {
			hn.Env = append(hn.Env, "CLICOLOR_FORCE=1")
			pager.Env = env
			stages = append(stages, pager)
		}
	}

	out := s.out
	if c.redirect != "" {
		f, err := os.Create(c.redirect)
		if err != nil {
			return 0, fmt.Errorf("redirect: %w", err)
		}
		defer f.Close()
		out = f
	}
	return runPipeline(stages, out, s.errOut)
}

// pagerCommand returns the configured pager, or nil when it cannot be run.
func (s *Shell) pagerCommand() *exec.Cmd {
	args, err := shlex.Split(s.cfg.Pager)
	if err != nil || len(args) == 0 {
		s.cfg.Log.Warn().Str("pager", s.cfg.Pager).Msg("invalid pager command")
		return nil
	}
	if _, err := exec.LookPath(args[0]); err != nil {
		s.cfg.Log.Warn().Str("pager", args[0]).Err(err).Msg("pager not found, printing directly")
		return nil
	}
	return exec.Command(args[0], args[1:]...)
}

// resolveBinary resolves path to an absolute path. Bare names are looked up
// via exec.LookPath; paths with a separator go through filepath.Abs.
func resolveBinary(path string) (string, error) {
	if path == "" {
		return "", errors.New("BinaryPath must not be empty")
	}
	if strings.ContainsRune(path, filepath.Separator) {
		return filepath.Abs(path)
	}
	return exec.LookPath(path)
}

// defaultHistoryFilePath returns ~/.haxornewshistory, or "" (no persistence)
// when the home directory is unknown.
func defaultHistoryFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, config.HistoryFileName)
}
