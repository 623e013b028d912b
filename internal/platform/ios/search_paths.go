package ios

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/thoreinstein/applink/internal/patch"
)

// DefaultPodsSearchPath is where a library project under
// node_modules/<module>/ios finds the host's Pods when CocoaPods installs
// into ios/Pods.
const DefaultPodsSearchPath = "../../../ios/Pods/**"

const (
	srcRoot   = "$(SRCROOT)"
	inherited = `"$(inherited)"`
)

// searchPathsSetting matches one FRAMEWORK_SEARCH_PATHS assignment, either
// a parenthesized list or a single value.
// Unquoted entries may contain build setting references like $(inherited).
var searchPathsSetting = patch.MustCompile(
	`FRAMEWORK_SEARCH_PATHS = (?:\((?:\s*(?:"[^"]*"|(?:\$\([^)]*\)|[^\s,"();])+)\s*,?)*\s*\)|"[^"]*"|(?:\$\([^)]*\)|[^\s;"(])+);`,
)

var searchPathEntry = regexp.MustCompile(`"[^"]*"|(?:\$\([^)]*\)|[^\s,"();])+`)

// IsDefaultPodsPath reports whether rel, relative to a library project's
// source root, names the default Pods install path. Slash direction,
// trailing "/" and "/**", and letter case are ignored.
func IsDefaultPodsPath(rel string) bool {
	return normalizeSearchPath(rel) == normalizeSearchPath(DefaultPodsSearchPath)
}

func normalizeSearchPath(p string) string {
	p = strings.Trim(p, `"`)
	p = strings.TrimPrefix(p, srcRoot+"/")
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimRight(p, "/")
	p = strings.TrimSuffix(p, "/**")
	p = strings.TrimRight(p, "/")
	return strings.ToLower(p)
}

// RelativePodsPath returns podsPath relative to the source root of the
// library project at pbxprojPath (the directory holding the .xcodeproj).
// A relative podsPath is resolved against root. A trailing "/**" is kept.
func RelativePodsPath(root, pbxprojPath, podsPath string) (string, error) {
	recursive := strings.HasSuffix(filepath.ToSlash(podsPath), "/**")
	podsPath = strings.TrimSuffix(filepath.ToSlash(podsPath), "/**")
	if !filepath.IsAbs(podsPath) {
		podsPath = filepath.Join(root, filepath.FromSlash(podsPath))
	}

	sourceRoot := filepath.Dir(filepath.Dir(pbxprojPath))
	rel, err := filepath.Rel(sourceRoot, podsPath)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if recursive {
		rel += "/**"
	}
	return rel, nil
}

// SearchPathsSpec returns the spec that points every FRAMEWORK_SEARCH_PATHS
// setting at rel. skip is true when rel is the default Pods path, in which
// case no rewrite is needed.
func SearchPathsSpec(rel string) (spec patch.Spec, skip bool) {
	if IsDefaultPodsPath(rel) {
		return patch.Spec{}, true
	}
	entry := `"` + srcRoot + "/" + strings.TrimPrefix(filepath.ToSlash(rel), "./") + `"`
	return patch.Spec{
		Name:     "pbxproj:FRAMEWORK_SEARCH_PATHS",
		Anchor:   searchPathsSetting,
		Position: patch.PositionReplace,
		Rewrite:  func(match string) string { return rewriteSearchPaths(match, entry) },
	}, false
}

// rewriteSearchPaths puts entry into one FRAMEWORK_SEARCH_PATHS setting.
// A default Pods entry is replaced in place, otherwise entry goes first.
// $(inherited) is kept, or appended when missing. The setting's layout
// (single line or one entry per line) is preserved.
func rewriteSearchPaths(setting, entry string) string {
	const key = "FRAMEWORK_SEARCH_PATHS = "
	body := strings.TrimSuffix(strings.TrimPrefix(setting, key), ";")
	isList := strings.HasPrefix(body, "(")
	inner := body
	if isList {
		inner = body[1 : len(body)-1]
	}

	entries := searchPathEntry.FindAllString(inner, -1)
	for _, e := range entries {
		if strings.Trim(e, `"`) == strings.Trim(entry, `"`) {
			return setting
		}
	}

	replaced := false
	hasInherited := false
	for i, e := range entries {
		switch {
		case strings.Trim(e, `"`) == "$(inherited)":
			hasInherited = true
		case !replaced && IsDefaultPodsPath(e):
			entries[i] = entry
			replaced = true
		}
	}
	if !replaced {
		entries = append([]string{entry}, entries...)
	}
	if !hasInherited {
		entries = append(entries, inherited)
	}

	var b strings.Builder
	b.WriteString(key)
	b.WriteByte('(')
	if isList && strings.Contains(inner, "\n") {
		eol := patch.LineEnding(inner)
		closing := inner[strings.LastIndexByte(inner, '\n')+1:]
		indent := closing + "\t"
		if loc := searchPathEntry.FindStringIndex(inner); loc != nil {
			lead := inner[:loc[0]]
			indent = lead[strings.LastIndexByte(lead, '\n')+1:]
		}
		for _, e := range entries {
			b.WriteString(eol + indent + e + ",")
		}
		b.WriteString(eol + closing)
	} else {
		for _, e := range entries {
			b.WriteString(" " + e + ",")
		}
		b.WriteByte(' ')
	}
	b.WriteString(");")
	return b.String()
}
