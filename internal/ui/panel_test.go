package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idilsaglam/posts/internal/model"
)

func TestListLines(t *testing.T) {
	lines := ListLines([]model.Post{
		{ID: 7, Title: "seventh"},
		{ID: 3, Title: "third"},
	})

	joined := strings.Join(lines, "\n")
	assert.Contains(t, lines[0], "Total 2")
	assert.Less(t, strings.Index(joined, "seventh"), strings.Index(joined, "third"), "source order kept")
	assert.Contains(t, joined, "  7.")
}

func TestListLines_Empty(t *testing.T) {
	lines := ListLines(nil)
	assert.Contains(t, lines[len(lines)-1], "no posts")
}

func TestListLines_TruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("x", 120)
	lines := ListLines([]model.Post{{ID: 1, Title: long}})
	last := lines[len(lines)-1]
	assert.NotContains(t, last, long)
	assert.Contains(t, last, strings.Repeat("x", maxTitleWidth-3)+"...")
}

func TestDetailLines(t *testing.T) {
	lines := DetailLines(model.Post{UserID: 4, ID: 9, Title: "nine", Body: "body text"})
	assert.Contains(t, lines[0], "nine")
	assert.Contains(t, lines[1], "post #9")
	assert.Contains(t, lines[1], "user 4")
	assert.Equal(t, "body text", lines[3])
}

func TestPanel(t *testing.T) {
	var buf bytes.Buffer
	Panel(&buf, []string{"hello", "world"})
	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "world")
	assert.Greater(t, strings.Count(out, "\n"), 3)
}

func TestOKFail(t *testing.T) {
	var buf bytes.Buffer
	OK(&buf, "exported")
	Fail(&buf, "broken")
	assert.Contains(t, buf.String(), "exported")
	assert.Contains(t, buf.String(), "broken")
}

func TestSetTheme(t *testing.T) {
	defer SetTheme("classic")

	SetTheme("neon")
	assert.Equal(t, "◆", Current().Bullet)

	SetTheme("unknown")
	assert.Equal(t, "•", Current().Bullet)
}
