package patch

import (
	"regexp"
	"strings"
)

// Spec is one named structural change to a descriptor.
// Specs are built once per integration and never mutated.
type Spec struct {
	// Name identifies the change in outcome reports (e.g. "podfile:pod AppCenter/Analytics").
	Name string

	// Detect matches when the change is already present.
	// When nil, the first non-blank template line is matched literally.
	Detect *regexp.Regexp

	// Anchor marks where the change belongs. For insertions it must match
	// exactly once.
	Anchor *regexp.Regexp

	// Template is the text to insert, written without leading indentation.
	// Multi-line templates keep their relative indentation.
	Template string

	// Position selects insertion before or after the anchor, or replacement.
	Position Position

	// Rewrite maps each anchor match to its replacement for PositionReplace.
	Rewrite func(match string) string
}

func (s Spec) detectPattern() *regexp.Regexp {
	if s.Detect != nil {
		return s.Detect
	}
	for _, line := range strings.Split(s.Template, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return Line(line)
		}
	}
	return nil
}

// Line returns a pattern matching a whole line whose trimmed text is s.
func Line(s string) *regexp.Regexp {
	return MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(strings.TrimSpace(s)) + `[ \t]*\r?$`)
}
