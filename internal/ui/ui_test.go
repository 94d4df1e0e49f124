package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resetUI(t *testing.T) {
	t.Helper()
	prevOut, prevErr := stdout, stderr
	t.Cleanup(func() {
		stdout, stderr = prevOut, prevErr
		forceColor, disableColor = false, false
		SetTheme("classic")
	})
}

func TestRenderPanel_AlignsColoredLines(t *testing.T) {
	resetUI(t)
	SetTheme("classic")
	SetColorMode("always")

	out := RenderPanel([]string{C(fgRed, "ab"), "abcd", "ü"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if assert.Len(t, lines, 5) {
		for _, ln := range lines {
			assert.Equal(t, 8, visibleWidth(ln), "line %q", stripANSI(ln))
		}
	}
	assert.True(t, strings.HasPrefix(lines[0], "┌"))
}

func TestRenderPanel_Mono(t *testing.T) {
	resetUI(t)
	SetTheme("mono")

	out := RenderPanel([]string{"hi"})
	assert.Equal(t, "+----+\n| hi |\n+----+\n", out)
}

func TestColorModes(t *testing.T) {
	resetUI(t)
	SetOutput(&bytes.Buffer{}, nil)

	SetColorMode("always")
	assert.Equal(t, fgRed+"x"+reset, C(fgRed, "x"))

	SetColorMode("never")
	assert.Equal(t, "x", C(fgRed, "x"))

	SetColorMode("auto")
	assert.Equal(t, "x", C(fgRed, "x"), "buffers are not terminals")
}

func TestOKAndFail(t *testing.T) {
	resetUI(t)
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	SetColorMode("never")

	OK("added")
	Fail("load: boom")
	Hint("try again")

	assert.Equal(t, "✔ added\n", out.String())
	assert.Equal(t, "✖ load: boom\ntry again\n", errOut.String())
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
}

func TestSetTheme_Unknown(t *testing.T) {
	resetUI(t)
	SetTheme("solarized")
	assert.Equal(t, "classic", Current().Name)
	SetTheme("DARK")
	assert.Equal(t, "dark", Current().Name)
}
