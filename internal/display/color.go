// Package display styles terminal output with ANSI escape codes.
//
// Colors are disabled when NO_COLOR is set (https://no-color.org/) or when
// stdout is not a terminal. FORCE_COLOR turns them back on.
package display

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI escape codes for styling.
const (
	reset   = "\033[0m"
	bold    = "\033[1m"
	dim     = "\033[2m"
	green   = "\033[32m"
	yellow  = "\033[33m"
	magenta = "\033[35m"
	cyan    = "\033[36m"
	fgGray  = "\033[90m" // bright black
)

var enabled = shouldEnable()

func shouldEnable() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetEnabled overrides the detected color state, e.g. for --json output.
func SetEnabled(b bool) {
	enabled = b
}

// Enabled reports whether color output is currently active.
func Enabled() bool {
	return enabled
}

// wrap surrounds text with code when colors are enabled.
func wrap(code, text string) string {
	if !enabled {
		return text
	}
	return code + text + reset
}

// Bold renders text in bold.
func Bold(text string) string {
	return wrap(bold, text)
}

// Dim renders text faint. Used for prayers that have passed.
func Dim(text string) string {
	return wrap(dim, text)
}

// Green renders text in green.
func Green(text string) string {
	return wrap(green, text)
}

// Yellow renders text in yellow.
func Yellow(text string) string {
	return wrap(yellow, text)
}

// Magenta renders text in magenta.
func Magenta(text string) string {
	return wrap(magenta, text)
}

// Cyan renders text in cyan.
func Cyan(text string) string {
	return wrap(cyan, text)
}

// Gray renders text in bright black.
func Gray(text string) string {
	return wrap(fgGray, text)
}

// Accent is the "next prayer" highlight, cyan and bold.
func Accent(text string) string {
	return wrap(bold+cyan, text)
}

// Holiday highlights holiday names and dates.
func Holiday(text string) string {
	return wrap(bold+magenta, text)
}

// Boldf formats and bolds a string.
func Boldf(format string, a ...any) string {
	return Bold(fmt.Sprintf(format, a...))
}
