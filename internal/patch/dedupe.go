package patch

import (
	"regexp"
	"strings"
)

// Dedupe removes every line matched by pattern except the last one. The
// last line of a list carries no trailing separator, so keeping it leaves
// the list well formed. It returns AlreadyPresent when nothing is removed.
func Dedupe(content string, pattern *regexp.Regexp) (string, Result) {
	if pattern == nil {
		return content, AlreadyPresent
	}
	locs := pattern.FindAllStringIndex(content, -1)
	if len(locs) < 2 {
		return content, AlreadyPresent
	}

	keep := lineStart(content, locs[len(locs)-1][0])
	var b strings.Builder
	b.Grow(len(content))
	last := 0
	removed := false
	for _, loc := range locs[:len(locs)-1] {
		from := lineStart(content, loc[0])
		if from < last || from == keep {
			continue
		}
		to, _ := nextLineStart(content, loc[0], loc[1])
		if to > keep {
			continue
		}
		b.WriteString(content[last:from])
		last = to
		removed = true
	}
	if !removed {
		return content, AlreadyPresent
	}
	b.WriteString(content[last:])
	return b.String(), Applied
}
