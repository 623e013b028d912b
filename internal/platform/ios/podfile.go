package ios

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/thoreinstein/applink/internal/integration"
	"github.com/thoreinstein/applink/internal/patch"
)

// podfileTemplate seeds a Podfile for projects that do not use CocoaPods yet.
const podfileTemplate = `target '%[1]s' do
  # Pods for %[1]s
end
`

var (
	// platformDecl matches any platform :ios line, including ones whose
	// version is a Ruby expression such as min_ios_version_supported.
	platformDecl = patch.MustCompile(`(?m)^[ \t]*platform :ios\b`)

	// platformLine matches a platform line with a quoted version literal.
	platformLine = patch.MustCompile(`(?m)^([ \t]*)platform :ios, (['"])([^'"]*)['"]`)
)

func newPodfile(appName string) string {
	return fmt.Sprintf(podfileTemplate, appName)
}

func targetAnchor(appName string) *regexp.Regexp {
	return patch.MustCompile(`(?m)^[ \t]*target ['"]` + regexp.QuoteMeta(appName) + `['"] do\b.*$`)
}

// podSpecs returns one spec per pod. Each pod goes right below the target
// line, so specs are emitted in reverse to keep the pods in request order.
func podSpecs(appName string, pods []integration.Pod) []patch.Spec {
	anchor := targetAnchor(appName)
	specs := make([]patch.Spec, 0, len(pods))
	for _, pod := range slices.Backward(pods) {
		line := fmt.Sprintf("pod '%s'", pod.Name)
		if pod.Version != "" {
			line += fmt.Sprintf(", '~> %s'", pod.Version)
		}
		specs = append(specs, patch.Spec{
			Name:     "podfile:pod " + pod.Name,
			Detect:   patch.MustCompile(`(?m)^[ \t]*pod ['"]` + regexp.QuoteMeta(pod.Name) + `['"]`),
			Anchor:   anchor,
			Template: line,
		})
	}
	return specs
}

// platformSpec adds a platform line above the target when the Podfile has
// none. Any existing platform :ios line counts as present.
func platformSpec(appName, minVersion string) patch.Spec {
	return patch.Spec{
		Name:     "podfile:platform",
		Detect:   platformDecl,
		Anchor:   targetAnchor(appName),
		Template: fmt.Sprintf("platform :ios, '%s'", minVersion),
		Position: patch.PositionBefore,
	}
}

// raisePlatformSpec rewrites a platform line whose version is below minVersion.
func raisePlatformSpec(minVersion string) patch.Spec {
	return patch.Spec{
		Name:     "podfile:platform",
		Anchor:   platformLine,
		Position: patch.PositionReplace,
		Rewrite: func(match string) string {
			m := platformLine.FindStringSubmatch(match)
			if compareVersions(m[3], minVersion) >= 0 {
				return match
			}
			return fmt.Sprintf("%splatform :ios, %s%s%s", m[1], m[2], minVersion, m[2])
		},
	}
}

// platformSpecFor picks between inserting and raising the platform line.
// A platform line without a version literal is left to the host.
func platformSpecFor(content, appName, minVersion string) patch.Spec {
	if platformLine.MatchString(content) {
		return raisePlatformSpec(minVersion)
	}
	return platformSpec(appName, minVersion)
}

// compareVersions compares dotted numeric versions. Missing components
// count as zero and non-numeric components compare as zero.
func compareVersions(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := range max(len(as), len(bs)) {
		var x, y int
		if i < len(as) {
			x, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			y, _ = strconv.Atoi(bs[i])
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}
