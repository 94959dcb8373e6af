package completion

import (
	"strings"

	"github.com/haxor-news/haxor/internal/grammar"
)

// Kind identifies which grammatical position is being completed.
type Kind int

const (
	// KindNone means there is nothing to complete (empty input).
	KindNone Kind = iota
	// KindRoot: the root command token itself is being typed.
	KindRoot
	// KindSubcommand: the root command is complete, a subcommand is next.
	KindSubcommand
	// KindArgument: the subcommand is complete, its first positional
	// argument is next.
	KindArgument
	// KindOption: a subcommand option is being typed.
	KindOption
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindSubcommand:
		return "subcommand"
	case KindArgument:
		return "argument"
	case KindOption:
		return "option"
	default:
		return "none"
	}
}

// Context is the result of classifying a line. Subcommands is only set for
// KindOption and lists every subcommand whose options apply.
type Context struct {
	Kind        Kind
	Subcommands []string
}

// Line is a tokenised input line with its subcommands resolved once against
// the grammar, so later stages switch on the resolved names instead of
// scanning the tokens again.
type Line struct {
	Tokens      []string
	Subcommands []string
	HasRoot     bool
}

// ParseLine tokenises text and resolves it against g.
func ParseLine(g *grammar.Grammar, text string) Line {
	return NewLine(g, Tokenize(text))
}

// NewLine resolves an already tokenised line against g.
func NewLine(g *grammar.Grammar, tokens []string) Line {
	l := Line{Tokens: tokens, Subcommands: g.Resolve(tokens)}
	for _, tok := range tokens {
		if strings.EqualFold(tok, g.Root()) {
			l.HasRoot = true
			break
		}
	}
	return l
}

// Classify decides which position of line is being completed. word is the
// word immediately before the cursor ("" when the cursor follows whitespace).
//
// With n tokens and w = word:
//
//	n == 0                              none
//	n == 1, w != ""                     root
//	n == 1, w == "" or n == 2, w != ""  subcommand
//	n == 2, w == "" or n == 3, w != ""  argument
//	otherwise                           option
//
// In the option case a subcommand applies when it is the token before the
// last one, or when more than three tokens are present and the subcommand
// appears anywhere among them.
func Classify(line Line, word string) Context {
	n := len(line.Tokens)
	typing := word != ""

	switch {
	case n == 0:
		return Context{Kind: KindNone}
	case n == 1 && typing:
		return Context{Kind: KindRoot}
	case (n == 1 && !typing) || (n == 2 && typing):
		return Context{Kind: KindSubcommand}
	case (n == 2 && !typing) || (n == 3 && typing):
		return Context{Kind: KindArgument}
	}

	var subs []string
	for _, name := range line.Subcommands {
		if n > 3 || strings.EqualFold(line.Tokens[n-2], name) {
			subs = append(subs, name)
		}
	}
	return Context{Kind: KindOption, Subcommands: subs}
}
