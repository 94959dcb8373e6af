package completion

import (
	"github.com/haxor-news/haxor/internal/grammar"
)

// Candidate is a completion string with an optional one-line description.
type Candidate struct {
	Text        string
	Description string
}

// Generator maps a classified context to its raw candidate list.
type Generator struct {
	grammar *grammar.Grammar
}

// NewGenerator returns a Generator reading from g.
func NewGenerator(g *grammar.Grammar) *Generator {
	return &Generator{grammar: g}
}

// Generate returns the unfiltered candidates for ctx, in grammar order.
func (gen *Generator) Generate(ctx Context, line Line) []Candidate {
	var texts []string
	switch ctx.Kind {
	case KindRoot:
		texts = []string{gen.grammar.Root()}
	case KindSubcommand:
		texts = gen.grammar.Names()
	case KindArgument:
		texts = gen.argument(line)
	case KindOption:
		for _, name := range ctx.Subcommands {
			sc, ok := gen.grammar.Lookup(name)
			if !ok {
				continue
			}
			for _, opt := range sc.Options {
				texts = append(texts, opt.Candidates()...)
			}
		}
	}

	out := make([]Candidate, len(texts))
	for i, t := range texts {
		out[i] = Candidate{Text: t, Description: gen.grammar.Describe(t)}
	}
	return out
}

// argument returns the placeholder of the first subcommand on the line that
// takes something other than a limit, or the numeric limit default. On a line
// naming several subcommands, freelance wins over hiring, hiring over user and
// user over view. Lines that do not start from the root command get nothing.
func (gen *Generator) argument(line Line) []string {
	if !line.HasRoot {
		return nil
	}
	for _, name := range line.Subcommands {
		if sc, ok := gen.grammar.Lookup(name); ok && sc.Arg.Value != "" && sc.Arg.Value != grammar.DefaultArg {
			return []string{sc.Arg.Value}
		}
	}
	return []string{grammar.DefaultArg}
}
