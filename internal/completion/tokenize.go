// Package completion implements command-line completion for the hn grammar.
//
// Given the line editor's buffer and cursor position, the [Engine] tokenises
// the buffer, classifies which grammatical position is being completed (the
// root command, a subcommand, the first positional argument or an option),
// generates the candidates for that position from the grammar table and
// filters them against the word before the cursor, either by prefix or by a
// fuzzy subsequence match.
//
// Everything in this package is pure computation over in-memory strings. No
// call performs I/O or returns an error; an input that cannot be completed
// simply yields no candidates.
package completion

import (
	"strings"
	"unicode"
)

// Tokenize splits text on runs of whitespace. A double-quoted span is kept as
// a single token, quote characters included, even when it contains
// whitespace. An unterminated quote makes the whole line fall back to a plain
// whitespace split.
func Tokenize(text string) []string {
	tokens, ok := splitQuoted(text)
	if !ok {
		return strings.Fields(text)
	}
	return tokens
}

// splitQuoted reports ok=false when a quote is left open.
func splitQuoted(text string) (tokens []string, ok bool) {
	var (
		cur     strings.Builder
		started bool
		quoted  bool
	)
	for _, r := range text {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
			cur.WriteRune(r)
		case unicode.IsSpace(r) && !quoted:
			if started {
				tokens = append(tokens, cur.String())
				cur.Reset()
				started = false
			}
		default:
			started = true
			cur.WriteRune(r)
		}
	}
	if quoted {
		return nil, false
	}
	if started {
		tokens = append(tokens, cur.String())
	}
	return tokens, true
}
