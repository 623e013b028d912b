package patch

import (
	"regexp"
	"strings"
)

// Result is the outcome of applying a Spec.
type Result string

const (
	// AlreadyPresent indicates the change was found and nothing was written.
	AlreadyPresent Result = "already_present"

	// Applied indicates the change was inserted.
	Applied Result = "applied"

	// AnchorNotFound indicates the anchor was missing or matched more than once.
	AnchorNotFound Result = "anchor_not_found"
)

// Position selects where the template goes relative to the anchor.
type Position int

const (
	// PositionAfter inserts on the line after the line holding the end of the anchor match.
	PositionAfter Position = iota

	// PositionBefore inserts on the line before the line holding the start of the anchor match.
	PositionBefore

	// PositionReplace rewrites every anchor match through Spec.Rewrite.
	PositionReplace
)

// String returns the name of the position.
func (p Position) String() string {
	switch p {
	case PositionAfter:
		return "after"
	case PositionBefore:
		return "before"
	case PositionReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Detect reports whether pattern matches anywhere in content.
// A nil pattern never matches.
func Detect(content string, pattern *regexp.Regexp) bool {
	if pattern == nil {
		return false
	}
	return pattern.MatchString(content)
}

// Apply runs spec against content and returns the new content with the result.
// Content is returned unchanged unless the result is Applied.
func Apply(content string, spec Spec) (string, Result) {
	if Detect(content, spec.detectPattern()) {
		return content, AlreadyPresent
	}
	if spec.Anchor == nil {
		return content, AnchorNotFound
	}

	if spec.Position == PositionReplace {
		return replace(content, spec)
	}

	locs := spec.Anchor.FindAllStringIndex(content, 2)
	if len(locs) != 1 {
		return content, AnchorNotFound
	}
	start, end := locs[0][0], locs[0][1]

	eol := LineEnding(content)
	switch spec.Position {
	case PositionBefore:
		at := lineStart(content, start)
		text := render(spec.Template, lineIndent(content, at), eol) + eol
		return content[:at] + text + content[at:], Applied
	default:
		at, atEOF := nextLineStart(content, start, end)
		indent := lineIndent(content, lineStart(content, start))
		if !atEOF {
			if next := lineIndent(content, at); next != "" && !closesBlock(content, at) {
				indent = next
			}
		}
		text := render(spec.Template, indent, eol)
		if atEOF {
			return content + eol + text, Applied
		}
		return content[:at] + text + eol + content[at:], Applied
	}
}

// ApplyAll applies specs in order, threading content through each one.
// The returned results line up with specs.
func ApplyAll(content string, specs []Spec) (string, []Result) {
	results := make([]Result, len(specs))
	for i, spec := range specs {
		content, results[i] = Apply(content, spec)
	}
	return content, results
}

// LineEnding returns "\r\n" when content uses CRLF line endings, "\n" otherwise.
func LineEnding(content string) string {
	if strings.Contains(content, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

func replace(content string, spec Spec) (string, Result) {
	if spec.Rewrite == nil || !spec.Anchor.MatchString(content) {
		return content, AnchorNotFound
	}
	out := spec.Anchor.ReplaceAllStringFunc(content, spec.Rewrite)
	if out == content {
		return content, AlreadyPresent
	}
	return out, Applied
}

// render indents every non-empty template line and joins lines with eol.
func render(template, indent, eol string) string {
	template = strings.ReplaceAll(template, "\r\n", "\n")
	template = strings.TrimRight(template, "\n")
	lines := strings.Split(template, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = indent + line
	}
	return strings.Join(lines, eol)
}

// lineStart returns the offset of the first byte of the line holding pos.
func lineStart(content string, pos int) int {
	return strings.LastIndexByte(content[:pos], '\n') + 1
}

// nextLineStart returns the offset of the line after the anchor match.
// atEOF is true when the match sits on the last line and it has no newline.
func nextLineStart(content string, start, end int) (int, bool) {
	if end > start && content[end-1] == '\n' {
		return end, false
	}
	i := strings.IndexByte(content[end:], '\n')
	if i < 0 {
		return len(content), true
	}
	return end + i + 1, false
}

// lineIndent returns the leading blanks of the line starting at at.
func lineIndent(content string, at int) string {
	end := at
	for end < len(content) && (content[end] == ' ' || content[end] == '\t') {
		end++
	}
	return content[at:end]
}

// closesBlock reports whether the line starting at at closes a block
// ("}", ")", "]" or a Ruby "end"), in which case its indentation is one
// level shallower than the block body.
func closesBlock(content string, at int) bool {
	line := content[at:]
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	switch line[0] {
	case '}', ')', ']':
		return true
	}
	return line == "end" || strings.HasPrefix(line, "end ")
}
