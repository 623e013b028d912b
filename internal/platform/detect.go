package platform

import (
	"os"
	"path/filepath"

	"github.com/thoreinstein/applink/internal/paths"
)

// DetectStatus indicates whether a native project was found.
type DetectStatus string

const (
	// StatusDetected indicates a marker file exists.
	StatusDetected DetectStatus = "detected"

	// StatusNotDetected indicates no marker file exists.
	StatusNotDetected DetectStatus = "not_detected"
)

// DetectionResult describes one platform's native project under a root.
type DetectionResult struct {
	// Name is the platform identifier (android, ios).
	Name string

	// Dir is the native project directory. It is set even when the
	// directory does not exist.
	Dir string

	// Marker is the file or directory that proved the platform is present.
	Marker string

	Status DetectStatus
}

// markers lists, per platform, glob patterns relative to the platform
// directory. The first match wins.
var markers = map[string][]string{
	paths.PlatformAndroid: {"settings.gradle", filepath.Join("app", "build.gradle")},
	paths.PlatformIOS:     {"*.xcodeproj", "Podfile"},
}

// DetectPlatform checks root for the native project of platform.
// Returns nil if the platform name is invalid.
func DetectPlatform(name, root string) *DetectionResult {
	if !paths.ValidPlatform(name) {
		return nil
	}

	dir := paths.PlatformDir(name, root)
	result := &DetectionResult{Name: name, Dir: dir, Status: StatusNotDetected}
	if !dirExists(dir) {
		return result
	}

	for _, pattern := range markers[name] {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil || len(matches) == 0 {
			continue
		}
		result.Marker = matches[0]
		result.Status = StatusDetected
		break
	}
	return result
}

// DetectAll returns detection results for every platform in link order.
func DetectAll(root string) []*DetectionResult {
	platforms := paths.Platforms()
	results := make([]*DetectionResult, 0, len(platforms))
	for _, name := range platforms {
		if result := DetectPlatform(name, root); result != nil {
			results = append(results, result)
		}
	}
	return results
}

func dirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
