package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSupportsColor(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		isTTY bool
		want  bool
	}{
		{"NO_COLOR prevents color", map[string]string{"NO_COLOR": "1"}, true, false},
		{"TERM=dumb prevents color", map[string]string{"TERM": "dumb"}, true, false},
		{"non-TTY prevents color", map[string]string{}, false, false},
		{"TTY with plain TERM", map[string]string{"TERM": "xterm"}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("NO_COLOR")
			t.Setenv("TERM", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if got := supportsColor(tt.isTTY); got != tt.want {
				t.Errorf("supportsColor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTTY_NonFile(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("IsTTY should return false for a buffer")
	}
}

func TestIsInteractive_NonTerminal(t *testing.T) {
	if IsInteractive(strings.NewReader(""), &bytes.Buffer{}) {
		t.Error("IsInteractive should be false for in-memory streams")
	}
}

func TestIsInteractive_CI(t *testing.T) {
	t.Setenv("CI", "true")
	if IsInteractive(os.Stdin, os.Stdout) {
		t.Error("IsInteractive should be false when CI is set")
	}
}
