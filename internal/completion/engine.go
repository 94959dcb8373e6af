package completion

import (
	"sync/atomic"
	"unicode"

	"github.com/haxor-news/haxor/internal/grammar"
)

// Engine produces completions for a line editor buffer. It keeps no state
// between calls apart from the fuzzy-match flag, which is safe to flip from
// another goroutine (a key binding handler, for instance) while completions
// are being computed.
type Engine struct {
	grammar   *grammar.Grammar
	generator *Generator
	fuzzy     atomic.Bool
}

// NewEngine returns an Engine over g with fuzzy matching initially set to
// fuzzy.
func NewEngine(g *grammar.Grammar, fuzzy bool) *Engine {
	e := &Engine{grammar: g, generator: NewGenerator(g)}
	e.fuzzy.Store(fuzzy)
	return e
}

// Grammar returns the grammar the engine completes against.
func (e *Engine) Grammar() *grammar.Grammar { return e.grammar }

// Fuzzy reports whether fuzzy matching is enabled.
func (e *Engine) Fuzzy() bool { return e.fuzzy.Load() }

// SetFuzzy enables or disables fuzzy matching.
func (e *Engine) SetFuzzy(on bool) { e.fuzzy.Store(on) }

// ToggleFuzzy flips fuzzy matching and returns the new setting.
func (e *Engine) ToggleFuzzy() bool {
	for {
		old := e.fuzzy.Load()
		if e.fuzzy.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Complete returns the completions for text with the cursor at rune offset
// cursor. Results are ordered and contain no duplicate texts. Out of range
// cursors are clamped to the buffer.
func (e *Engine) Complete(text string, cursor int) []Candidate {
	word := WordBeforeCursor(text, cursor)
	line := ParseLine(e.grammar, text)
	if len(line.Tokens) == 0 {
		return nil
	}

	ctx := Classify(line, word)
	candidates := e.generator.Generate(ctx, line)

	byText := make(map[string]Candidate, len(candidates))
	texts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := byText[c.Text]; dup {
			continue
		}
		byText[c.Text] = c
		texts = append(texts, c.Text)
	}

	matched := Match(word, texts, e.Fuzzy())
	out := make([]Candidate, len(matched))
	for i, t := range matched {
		out[i] = byText[t]
	}
	return out
}

// WordBeforeCursor returns the run of non-whitespace runes ending at rune
// offset cursor, or "" when the cursor is at the start of text or directly
// follows whitespace.
func WordBeforeCursor(text string, cursor int) string {
	rs := []rune(text)
	if cursor > len(rs) {
		cursor = len(rs)
	}
	if cursor < 0 {
		cursor = 0
	}
	start := cursor
	for start > 0 && !unicode.IsSpace(rs[start-1]) {
		start--
	}
	return string(rs[start:cursor])
}
