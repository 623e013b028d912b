package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY returns true if the given writer (or reader) is a terminal.
// It supports os.File and any wrapper that provides an Fd() method.
func IsTTY(v any) bool {
	if f, ok := v.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// IsInteractive reports whether both ends of a prompt are terminals.
// CI runs and piped invocations never prompt.
func IsInteractive(in io.Reader, out io.Writer) bool {
	if _, ok := os.LookupEnv("CI"); ok {
		return false
	}
	return IsTTY(in) && IsTTY(out)
}

// SupportsColor returns true if the given writer supports ANSI color codes.
// NO_COLOR and TERM=dumb disable color.
func SupportsColor(w io.Writer) bool {
	return supportsColor(IsTTY(w))
}

func supportsColor(isTTY bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTTY
}
