package haxor

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI color/style escape codes for use with [Colorize].
const (
	ColorReset  = "\033[0m"
	ColorYellow = "\033[33m"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("11"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Colorize wraps text with the given ANSI code for safe use inside a readline
// prompt string. The escape sequences are enclosed in \x01/\x02 markers so
// the prompt width counts only the visible characters.
//
// If code is empty, text is returned unchanged.
func Colorize(text, code string) string {
	if code == "" {
		return text
	}
	return "\x01" + code + "\x02" + text + "\x01" + ColorReset + "\x02"
}

// Banner returns the greeting printed when the shell starts.
func Banner(version string) string {
	return bannerStyle.Render("haxor-news "+version) + "\n" +
		"Syntax: hn <command> [params] [options]\n"
}

// Status describes the fuzzy and paginate settings in one line.
func (s *Shell) Status() string {
	return statusStyle.Render(fmt.Sprintf("fuzzy: %s | paginate: %s | Ctrl-O toggles fuzzy",
		onOff(s.Fuzzy()), onOff(s.paginate)))
}

// prompt is the configured prompt, marked while fuzzy matching is on.
func (s *Shell) prompt() string {
	if s.Fuzzy() {
		return Colorize("~", ColorYellow) + s.cfg.Prompt
	}
	return s.cfg.Prompt
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// writeErr prints a shell error to w, in red when w is a terminal.
func writeErr(w io.Writer, format string, args ...any) {
	style := lipgloss.NewRenderer(w).NewStyle().Foreground(lipgloss.Color("9"))
	msg := fmt.Sprintf(format, args...)
	body := strings.TrimRight(msg, "\n")
	fmt.Fprint(w, style.Render(body)+msg[len(body):])
}
