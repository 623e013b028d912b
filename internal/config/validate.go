package config

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/applink/internal/errors"
	"github.com/thoreinstein/applink/internal/paths"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates a version this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidPlatform indicates an unrecognized platform name.
	ErrInvalidPlatform = errors.New("invalid default platform")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidRetention indicates a negative backup retention.
	ErrInvalidRetention = errors.New("backup retention must be >= 0")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, errors.Wrapf(ErrUnsupportedVersion, "%d", cfg.Version))
	}

	for _, platform := range cfg.DefaultPlatforms {
		if !paths.ValidPlatform(platform) {
			errs = append(errs, &PlatformError{Platform: platform, Err: ErrInvalidPlatform})
		}
	}

	for _, f := range []struct{ field, path string }{
		{"pods_path", cfg.PodsPath},
		{"integrations_file", cfg.IntegrationsFile},
		{"backup.dir", cfg.Backup.Dir},
	} {
		if err := validatePath(f.path); err != nil {
			errs = append(errs, &PathError{Field: f.field, Path: f.path, Err: err})
		}
	}

	if cfg.Backup.Retention < 0 {
		errs = append(errs, ErrInvalidRetention)
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths mean "use default".
	if path == "" {
		return nil
	}
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	if cleaned := filepath.Clean(path); cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}
	return nil
}

// PlatformError represents an error for a specific platform.
type PlatformError struct {
	Platform string
	Err      error
}

func (e *PlatformError) Error() string {
	return e.Err.Error() + ": " + e.Platform
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
