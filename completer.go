package haxor

import (
	"sort"
	"strings"

	"github.com/haxor-news/haxor/internal/completion"
	"github.com/haxor-news/haxor/internal/config"
)

// completer implements readline.AutoCompleter over the completion engine.
type completer struct {
	shell *Shell

	// replace swaps the whole edit buffer. It is used for fuzzy matches that
	// do not extend the typed word, which readline cannot express as a
	// suffix. Nil disables such completions.
	replace func(line string)
}

// Do implements readline.AutoCompleter. readline calls it with the full
// current line and the cursor position whenever the user presses Tab.
//
// readline appends each returned entry verbatim after the cursor, so entries
// are suffixes of the candidates and length is the rune count of the typed
// word.
func (c *completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	if pos > len(line) {
		pos = len(line)
	}
	text := string(line)
	word := completion.WordBeforeCursor(text, pos)

	fields := strings.Fields(string(line[:pos]))
	contextArgs := fields
	if len(fields) > 0 && word != "" {
		contextArgs = fields[:len(fields)-1]
	}

	if c.shell.cfg.EnvBuiltin != "" && len(contextArgs) >= 1 && contextArgs[0] == c.shell.cfg.EnvBuiltin {
		return c.doEnvBuiltin(contextArgs[1:], word)
	}

	candidates := c.shell.cfg.Engine.Complete(text, pos)
	if len(candidates) == 0 {
		return nil, 0
	}

	prefix := []rune(word)
	for _, cand := range candidates {
		if strings.HasPrefix(cand.Text, word) {
			newLine = append(newLine, []rune(cand.Text)[len(prefix):])
		}
	}
	if len(newLine) > 0 {
		return newLine, len(prefix)
	}

	// Every candidate matched only fuzzily or with different case. The best
	// ranked one replaces the word, when the cursor is at the end of the line.
	if c.replace != nil && pos == len(line) {
		c.replace(string(line[:pos-len(prefix)]) + candidates[0].Text)
	}
	return nil, 0
}

// doEnvBuiltin completes the session env built-in. subArgs are the tokens
// after the built-in name; toComplete is the word being completed.
//
// Completion sources:
//   - No subArgs: "list", "set", "unset".
//   - set: the HAXOR_* variables hn reads.
//   - unset: the current session keys.
func (c *completer) doEnvBuiltin(subArgs []string, toComplete string) (newLine [][]rune, length int) {
	var source []string
	switch {
	case len(subArgs) == 0:
		source = []string{"list", "set", "unset"}
	case len(subArgs) == 1 && subArgs[0] == "set":
		source = config.EnvKeys()
		sort.Strings(source)
	case len(subArgs) == 1 && subArgs[0] == "unset":
		source = envBuiltinKeys(c.shell.SessionEnv())
	}

	prefix := []rune(toComplete)
	for _, s := range source {
		if strings.HasPrefix(s, toComplete) {
			newLine = append(newLine, []rune(s)[len(prefix):])
		}
	}
	if len(newLine) == 0 {
		return nil, 0
	}
	return newLine, len(prefix)
}
