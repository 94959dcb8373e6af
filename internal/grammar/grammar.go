// Package grammar holds the static command grammar of the hn tool: the root
// command, its subcommands, each subcommand's positional argument placeholder
// and its options. The table is built once at startup and shared read-only by
// the completion engine and the cobra command tree, so completion and
// execution never disagree about what a command accepts.
package grammar

import (
	"strconv"
	"strings"
)

// RootCommand is the entry-point token that begins every invocation.
const RootCommand = "hn"

// DefaultArg is the placeholder offered when no subcommand with its own
// argument is present: a numeric post limit.
const DefaultArg = "10"

// Default monthly post ids, used when the configuration does not override them.
const (
	DefaultHiringPostID    = 10492086
	DefaultFreelancePostID = 10492087
)

// Option is a single subcommand switch. Value, when non-empty, is the
// placeholder value shown after the flag in completion candidates.
type Option struct {
	Long        string
	Short       string
	Value       string
	Description string
}

// Candidates returns the completion strings for the option, long form first.
func (o Option) Candidates() []string {
	if o.Value == "" {
		return []string{o.Long, o.Short}
	}
	return []string{o.Long + " " + o.Value, o.Short + " " + o.Value}
}

// Name returns the long form without its leading dashes.
func (o Option) Name() string {
	return strings.TrimLeft(o.Long, "-")
}

// Arg is a positional argument placeholder.
type Arg struct {
	Value       string
	Description string
}

// Subcommand is one named operation following the root command.
type Subcommand struct {
	Name        string
	Description string
	Arg         Arg
	Options     []Option
}

// PostIDs carries the monthly "who is hiring" and "freelancer" post ids that
// appear as option values for the hiring and freelance subcommands.
type PostIDs struct {
	Hiring    int
	Freelance int
}

// Grammar is the immutable subcommand table. The zero value is not usable;
// construct one with [Default] or [New].
type Grammar struct {
	root        string
	subcommands []Subcommand
	index       map[string]int
	meta        map[string]string
	aliases     map[string]string
}

// New builds a Grammar from an ordered list of subcommands. The slice is
// copied; later changes by the caller are not observed.
func New(root string, subcommands []Subcommand) *Grammar {
	g := &Grammar{
		root:        root,
		subcommands: make([]Subcommand, len(subcommands)),
		index:       make(map[string]int, len(subcommands)),
		meta:        make(map[string]string),
		aliases:     make(map[string]string),
	}
	for i, sc := range subcommands {
		sc.Options = append([]Option(nil), sc.Options...)
		g.subcommands[i] = sc
		g.index[strings.ToLower(sc.Name)] = i
		g.meta[sc.Name] = sc.Description
		if sc.Arg.Value != "" {
			g.meta[sc.Arg.Value] = sc.Arg.Description
		}
		for _, opt := range sc.Options {
			for _, c := range opt.Candidates() {
				g.meta[c] = opt.Description
			}
			g.aliases[opt.Short] = opt.Long
		}
	}
	if _, ok := g.meta[DefaultArg]; !ok {
		g.meta[DefaultArg] = "limit: int (opt) limits the posts displayed"
	}
	return g
}

// Root returns the root command name.
func (g *Grammar) Root() string { return g.root }

// Subcommands returns the subcommands in table order. The returned slice must
// not be modified.
func (g *Grammar) Subcommands() []Subcommand { return g.subcommands }

// Names returns the subcommand names in table order.
func (g *Grammar) Names() []string {
	names := make([]string, len(g.subcommands))
	for i, sc := range g.subcommands {
		names[i] = sc.Name
	}
	return names
}

// Lookup returns the subcommand called name, ignoring case.
func (g *Grammar) Lookup(name string) (Subcommand, bool) {
	i, ok := g.index[strings.ToLower(name)]
	if !ok {
		return Subcommand{}, false
	}
	return g.subcommands[i], true
}

// Resolve returns the names of every subcommand that appears among tokens,
// in table order, ignoring case. Under a well-formed command line at most one
// is returned.
func (g *Grammar) Resolve(tokens []string) []string {
	present := make([]bool, len(g.subcommands))
	for _, tok := range tokens {
		if i, ok := g.index[strings.ToLower(tok)]; ok {
			present[i] = true
		}
	}
	var names []string
	for i, ok := range present {
		if ok {
			names = append(names, g.subcommands[i].Name)
		}
	}
	return names
}

// Describe returns the one-line help text for a completion candidate, or ""
// when the candidate is unknown.
func (g *Grammar) Describe(candidate string) string {
	if candidate == g.root {
		return "Hacker News command line"
	}
	return g.meta[candidate]
}

// NormalizeArgs rewrites multi-letter short aliases (e.g. -cr) to their long
// form. pflag only understands single-letter shorthands, so the aliases are
// translated before the arguments reach the flag parser. Anything after a
// bare "--" is left untouched.
func (g *Grammar) NormalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		name, value, hasValue := strings.Cut(arg, "=")
		if long, ok := g.aliases[name]; ok && len(name) > 2 {
			if hasValue {
				out = append(out, long+"="+value)
			} else {
				out = append(out, long)
			}
			continue
		}
		out = append(out, arg)
	}
	return out
}

// Default returns the hn grammar. ids supplies the monthly post ids used as
// option values; zero fields fall back to the built-in defaults.
func Default(ids PostIDs) *Grammar {
	if ids.Hiring == 0 {
		ids.Hiring = DefaultHiringPostID
	}
	if ids.Freelance == 0 {
		ids.Freelance = DefaultFreelancePostID
	}

	regexArg := Arg{
		Value:       `"(?i)(Python|Django)"`,
		Description: "regex_query: string (opt) applies a regular expression comment filter",
	}
	limitArg := Arg{
		Value:       DefaultArg,
		Description: "limit: int (opt) limits the posts displayed",
	}
	postIDOption := func(id int) Option {
		return Option{
			Long:        "--id_post",
			Short:       "-i",
			Value:       strconv.Itoa(id),
			Description: "View matching comments from the (optional) post id instead of the latest post (int)",
		}
	}

	return New(RootCommand, []Subcommand{
		{Name: "ask", Description: "Ask HN posts", Arg: limitArg},
		{Name: "best", Description: "Best of HN weekly posts", Arg: limitArg},
		{
			Name:        "freelance",
			Description: "Monthly freelancers post",
			Arg:         regexArg,
			Options:     []Option{postIDOption(ids.Freelance)},
		},
		{
			Name:        "hiring",
			Description: "Monthly hiring post",
			Arg:         regexArg,
			Options:     []Option{postIDOption(ids.Hiring)},
		},
		{Name: "jobs", Description: "Jobs posts", Arg: limitArg},
		{Name: "new", Description: "Newest posts", Arg: limitArg},
		{Name: "onion", Description: "Onion posts", Arg: limitArg},
		{Name: "show", Description: "Show HN posts", Arg: limitArg},
		{Name: "top", Description: "Top posts", Arg: limitArg},
		{
			Name:        "user",
			Description: "User info",
			Arg:         Arg{Value: `"user"`, Description: "user:string (req) shows info on the specified user"},
			Options: []Option{
				{Long: "--limit", Short: "-l", Value: "10", Description: "Limits the number of user submissions displayed (int)"},
			},
		},
		{
			Name:        "view",
			Description: "View specified post",
			Arg:         Arg{Value: "1", Description: "index: int (req) views the post index"},
			Options: []Option{
				{Long: "--comments_regex_query", Short: "-cq", Value: `""`, Description: "Filter comments with a regular expression query (string)"},
				{Long: "--comments", Short: "-c", Description: "View comments instead of the url contents (flag)"},
				{Long: "--comments_recent", Short: "-cr", Description: "View only comments in the past hour (flag)"},
				{Long: "--comments_unseen", Short: "-cu", Description: "View only previously unseen comments (flag)"},
				{Long: "--comments_hide_non_matching", Short: "-ch", Description: "Hide instead of collapse non-matching comments (flag)"},
				{Long: "--clear_cache", Short: "-cc", Description: "Clear the comment cache before executing."},
				{Long: "--browser", Short: "-b", Description: "View in a browser instead of the terminal (flag)"},
			},
		},
	})
}
