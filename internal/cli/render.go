package cli

import (
	"fmt"
	"html"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/haxor-news/haxor/internal/hackernews"
)

// snippetLength is the width of a collapsed comment.
const snippetLength = 60

var (
	indexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))
)

var (
	paragraphTag = regexp.MustCompile(`(?i)<p>`)
	anyTag       = regexp.MustCompile(`<[^>]+>`)
)

// plainText turns API HTML into readable text.
func plainText(s string) string {
	s = paragraphTag.ReplaceAllString(s, "\n\n")
	s = anyTag.ReplaceAllString(s, "")
	return html.UnescapeString(s)
}

func domain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func ago(unix int64, now time.Time) string {
	return humanize.RelTime(time.Unix(unix, 0), now, "ago", "from now")
}

func itemURL(id int) string {
	return fmt.Sprintf("https://news.ycombinator.com/item?id=%d", id)
}

func writeHeader(w io.Writer, msg string) {
	fmt.Fprintln(w, headerStyle.Render(msg))
}

// writeStory prints one listing entry.
func writeStory(w io.Writer, index int, item *hackernews.Item, now time.Time) {
	title := item.Title
	if title == "" {
		title = fmt.Sprintf("[%s %d]", item.Type, item.ID)
	}
	line := fmt.Sprintf("%s %s", indexStyle.Render(fmt.Sprintf("%3d.", index)), titleStyle.Render(title))
	if d := domain(item.URL); d != "" {
		line += " " + subtleStyle.Render("("+d+")")
	}
	fmt.Fprintln(w, line)
	meta := fmt.Sprintf("%d points by %s %s | %d comments",
		item.Score, item.By, ago(item.Time, now), item.Descendants)
	fmt.Fprintln(w, "     "+subtleStyle.Render(meta))
}

// writeComment prints a comment in full.
func writeComment(w io.Writer, item *hackernews.Item, now time.Time) {
	fmt.Fprintf(w, "\n%s %s\n", userStyle.Render(item.By), subtleStyle.Render("- "+ago(item.Time, now)))
	for _, line := range strings.Split(strings.TrimSpace(plainText(item.Text)), "\n") {
		fmt.Fprintln(w, "  "+line)
	}
}

// writeCollapsed prints a one-line snippet of a comment.
func writeCollapsed(w io.Writer, item *hackernews.Item) {
	text := strings.Join(strings.Fields(plainText(item.Text)), " ")
	if r := []rune(text); len(r) > snippetLength {
		text = string(r[:snippetLength]) + "..."
	}
	fmt.Fprintf(w, "  %s %s: %s\n", subtleStyle.Render("[-]"), item.By, subtleStyle.Render(text))
}
