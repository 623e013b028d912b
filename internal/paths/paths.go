package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// Platform identifiers in link order.
const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "applink"

// ProjectConfigName is the per-project config file name.
const ProjectConfigName = ".applink.yaml"

var platformDirs = map[string]string{
	PlatformAndroid: "android",
	PlatformIOS:     "ios",
}

var platformDisplayNames = map[string]string{
	PlatformAndroid: "Android",
	PlatformIOS:     "iOS",
}

// ErrHomeDirNotFound indicates the user's home directory could not be determined.
var ErrHomeDirNotFound = errors.New("home directory not found")

// DefaultDirPerm is the permission for directories applink creates for itself.
const DefaultDirPerm = 0o700

// Platforms returns every platform in link order.
func Platforms() []string {
	return []string{PlatformAndroid, PlatformIOS}
}

// ValidPlatform reports whether name is a known platform.
func ValidPlatform(name string) bool {
	_, ok := platformDirs[name]
	return ok
}

// DisplayName returns the human-readable platform name.
func DisplayName(platform string) string {
	return platformDisplayNames[platform]
}

// PlatformDir returns the native project directory for platform under root.
func PlatformDir(platform, root string) string {
	rel, ok := platformDirs[platform]
	if !ok || root == "" {
		return ""
	}
	return filepath.Join(root, rel)
}

// EnsureDir creates path and any parents. A zero perm means DefaultDirPerm.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
func DataHome() string {
	return xdg.DataHome
}

// ConfigDir returns <ConfigHome>/applink.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// UserConfigFile returns <ConfigHome>/applink/config.yaml.
func UserConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// BackupDir returns the default backup root, <DataHome>/applink/backups.
func BackupDir() string {
	return filepath.Join(DataHome(), AppName, "backups")
}

// ProjectConfigFile returns <root>/.applink.yaml.
func ProjectConfigFile(root string) string {
	if root == "" {
		return ""
	}
	return filepath.Join(root, ProjectConfigName)
}

// EnvFile returns <root>/.env.
func EnvFile(root string) string {
	if root == "" {
		return ""
	}
	return filepath.Join(root, ".env")
}

// ProjectKey returns a directory-safe key for a project root, used to keep
// backups of different projects apart.
func ProjectKey(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	base := filepath.Base(abs)
	if base == "." || base == string(filepath.Separator) {
		base = "root"
	}
	return base + "-" + shortHash(abs)
}
