package ios

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/thoreinstein/applink/internal/descriptor"
	"github.com/thoreinstein/applink/internal/errors"
)

// Sentinel errors for project layout lookups.
var (
	// ErrNoXcodeProject is returned when ios/ holds no app .xcodeproj.
	ErrNoXcodeProject = errors.New("no Xcode project found")

	// ErrNoAppDelegate is returned when the app target has no AppDelegate.
	ErrNoAppDelegate = errors.New("AppDelegate not found")
)

// appDelegateNames lists AppDelegate implementation files in lookup order.
var appDelegateNames = []string{"AppDelegate.m", "AppDelegate.mm"}

// project is the resolved layout of ios/.
type project struct {
	dir         string // absolute ios/ directory
	appName     string // app target name, from <appName>.xcodeproj
	appDelegate string // absolute AppDelegate path
}

// findProject resolves the app name and AppDelegate under iosDir.
func findProject(iosDir string) (*project, error) {
	name, err := appName(iosDir)
	if err != nil {
		return nil, err
	}
	p := &project{dir: iosDir, appName: name}

	for _, candidate := range appDelegateCandidates(iosDir, name) {
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			p.appDelegate = candidate
			return p, nil
		}
	}
	return nil, errors.Mark(errors.Wrapf(ErrNoAppDelegate, "in %s", iosDir), descriptor.ErrIO)
}

// appName returns the first app project name under iosDir, skipping the
// CocoaPods project.
func appName(iosDir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(iosDir, "*.xcodeproj"))
	if err != nil {
		return "", errors.Wrap(err, "searching for Xcode project")
	}
	sort.Strings(matches)
	for _, m := range matches {
		name := strings.TrimSuffix(filepath.Base(m), ".xcodeproj")
		if name == "Pods" {
			continue
		}
		return name, nil
	}
	return "", errors.Mark(errors.Wrapf(ErrNoXcodeProject, "in %s", iosDir), descriptor.ErrIO)
}

func appDelegateCandidates(iosDir, name string) []string {
	var out []string
	for _, file := range appDelegateNames {
		out = append(out, filepath.Join(iosDir, name, file))
	}
	for _, file := range appDelegateNames {
		matches, _ := filepath.Glob(filepath.Join(iosDir, "*", file))
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out
}
