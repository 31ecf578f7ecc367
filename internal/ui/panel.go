package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/posts/internal/model"
)

const maxTitleWidth = 80

// Panel draws a framed box around lines using the current theme.
func Panel(w io.Writer, lines []string) {
	t := Current()
	border := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
	fmt.Fprintln(w, border.Render(strings.Join(lines, "\n")))
}

// ListLines renders the header and one numbered line per post title.
func ListLines(posts []model.Post) []string {
	t := Current()
	lines := []string{
		t.Title.Render("Posts") + "  " + t.Accent.Render(fmt.Sprintf("Total %d", len(posts))),
		"",
	}
	if len(posts) == 0 {
		return append(lines, t.Muted.Render("no posts"))
	}
	for _, p := range posts {
		lines = append(lines, fmt.Sprintf("%s %s", t.Muted.Render(fmt.Sprintf("%3d.", p.ID)), truncate(p.Title, maxTitleWidth)))
	}
	return lines
}

// DetailLines renders one post for the show subcommand.
func DetailLines(p model.Post) []string {
	t := Current()
	return []string{
		t.Title.Render(p.Title),
		t.Muted.Render(fmt.Sprintf("post #%d %s user %d", p.ID, t.Bullet, p.UserID)),
		"",
		p.Body,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func OK(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Success.Render(t.SymOK+" "+msg))
}

func Fail(w io.Writer, msg string) {
	t := Current()
	fmt.Fprintln(w, t.Error.Render(t.SymFail+" "+msg))
}
