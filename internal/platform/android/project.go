package android

import (
	"io/fs"
	"path/filepath"

	"github.com/thoreinstein/applink/internal/descriptor"
	"github.com/thoreinstein/applink/internal/errors"
)

// Descriptor locations relative to android/.
var (
	settingsGradle  = "settings.gradle"
	appBuildGradle  = filepath.Join("app", "build.gradle")
	manifest        = filepath.Join("app", "src", "main", "AndroidManifest.xml")
	javaSourceRoot  = filepath.Join("app", "src", "main", "java")
	configJSON      = filepath.Join("app", "src", "main", "assets", ConfigFileName)
	mainApplication = "MainApplication.java"
)

// ConfigFileName is the SDK configuration file under app/src/main/assets.
const ConfigFileName = "appcenter-config.json"

// ErrNoMainApplication is returned when no MainApplication.java exists
// under app/src/main/java.
var ErrNoMainApplication = errors.New("MainApplication.java not found")

// errStop ends the source walk at the first match.
var errStop = errors.New("stop")

// findMainApplication returns the first MainApplication.java under the
// app's Java sources, in lexical walk order.
func findMainApplication(androidDir string) (string, error) {
	root := filepath.Join(androidDir, javaSourceRoot)
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == mainApplication {
			found = path
			return errStop
		}
		return nil
	})
	if found != "" {
		return found, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", errors.Mark(errors.Wrapf(err, "searching %s", root), descriptor.ErrIO)
	}
	return "", errors.Mark(errors.Wrapf(ErrNoMainApplication, "under %s", root), descriptor.ErrIO)
}
