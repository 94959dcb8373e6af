package haxor

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// SetEnv sets a session-scoped environment variable for the hn processes the
// shell starts from now on. The shell's own environment is not modified.
func (s *Shell) SetEnv(key, value string) {
	s.sessionEnv[key] = value
}

// UnsetEnv removes a variable set with [Shell.SetEnv]. Missing keys are
// ignored.
func (s *Shell) UnsetEnv(key string) {
	delete(s.sessionEnv, key)
}

// SessionEnv returns the session variables as sorted "KEY=VALUE" pairs. It
// does not include os.Environ() or Config.Env.
func (s *Shell) SessionEnv() []string {
	pairs := make([]string, 0, len(s.sessionEnv))
	for k, v := range s.sessionEnv {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return pairs
}

// buildEnv merges, in ascending priority, os.Environ(), Config.Env and the
// session variables. os/exec uses the last occurrence of a key, so later
// sources shadow earlier ones.
func (s *Shell) buildEnv() []string {
	env := append(os.Environ(), s.cfg.Env...)
	return append(env, s.SessionEnv()...)
}

// handleEnvBuiltin runs the env built-in when tokens[0] names it and reports
// whether it did. Supported: list, set KEY VALUE (or set KEY=VALUE),
// unset KEY.
func (s *Shell) handleEnvBuiltin(tokens []string) bool {
	name := s.cfg.EnvBuiltin
	if name == "" || tokens[0] != name {
		return false
	}
	if len(tokens) < 2 {
		writeErr(s.errOut, "usage: %s {list|set KEY VALUE|unset KEY}\n", name)
		return true
	}

	switch tokens[1] {
	case "list":
		for _, pair := range s.SessionEnv() {
			fmt.Fprintln(s.out, pair)
		}
	case "set":
		key, value, ok := envAssignment(tokens[2:])
		if !ok {
			writeErr(s.errOut, "usage: %s set KEY VALUE\n", name)
			return true
		}
		s.SetEnv(key, value)
		s.cfg.Log.Debug().Str("key", key).Msg("session env set")
	case "unset":
		if len(tokens) != 3 {
			writeErr(s.errOut, "usage: %s unset KEY\n", name)
			return true
		}
		s.UnsetEnv(tokens[2])
	default:
		writeErr(s.errOut, "haxor: %s: unknown subcommand %q\n", name, tokens[1])
	}
	return true
}

// envAssignment accepts either [KEY, VALUE] or [KEY=VALUE].
func envAssignment(args []string) (key, value string, ok bool) {
	switch len(args) {
	case 1:
		key, value, ok = strings.Cut(args[0], "=")
	case 2:
		key, value, ok = args[0], args[1], !strings.Contains(args[0], "=")
	}
	if key == "" {
		return "", "", false
	}
	return key, value, ok
}

// envBuiltinKeys extracts the KEY part of each "KEY=VALUE" pair.
func envBuiltinKeys(pairs []string) []string {
	keys := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		if k, _, ok := strings.Cut(pair, "="); ok {
			keys = append(keys, k)
		}
	}
	return keys
}
