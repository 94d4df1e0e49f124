package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	reset     = "\033[0m"
	bold      = "\033[1m"
	dim       = "\033[2m"
	underline = "\033[4m"
	reverse   = "\033[7m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"
	fgWhite  = "\033[97m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetColorMode applies the ui.color setting: "always", "never" or "auto".
func SetColorMode(mode string) {
	switch mode {
	case "always":
		forceColor, disableColor = true, false
	case "never":
		forceColor, disableColor = false, true
	default:
		forceColor, disableColor = false, false
	}
}

// SetOutput redirects everything this package prints. Nil keeps the
// current writer.
func SetOutput(out, errOut io.Writer) {
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

// Stdout is the writer used for regular output.
func Stdout() io.Writer { return stdout }

// Stderr is the writer used for diagnostics.
func Stderr() io.Writer { return stderr }

func isTTY() bool {
	f, ok := stdout.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C wraps s in color when color output is enabled.
func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

func OK(msg string)   { fmt.Fprintln(stdout, C(current.Success, symCheck+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(stderr, C(current.Error, symCross+" "+msg)) }

// Hint prints a muted follow-up line to stderr.
func Hint(msg string) { fmt.Fprintln(stderr, C(current.Muted, msg)) }
