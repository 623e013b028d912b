package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/thoreinstein/applink/internal/backup"
	"github.com/thoreinstein/applink/internal/errors"
	"github.com/thoreinstein/applink/internal/integration"
	"github.com/thoreinstein/applink/internal/paths"
	"github.com/thoreinstein/applink/internal/platform"
	"github.com/thoreinstein/applink/internal/platform/android"
	"github.com/thoreinstein/applink/internal/platform/ios"
)

// Output styles. fatih/color disables them when stdout is not a terminal.
var (
	styleHeader  = color.New(color.FgCyan, color.Bold)
	styleSuccess = color.New(color.FgGreen)
	styleWarn    = color.New(color.FgYellow)
	styleError   = color.New(color.FgRed, color.Bold)
	styleMuted   = color.New(color.FgHiBlack)
)

// PrintError writes err and, for an ExitError, its suggestion.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %v\n", styleError.Sprint("Error:"), err)

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", styleMuted.Sprint(exitErr.Suggestion))
	}
}

// loadTable returns the built-in integration table merged with the
// configured integrations file.
func loadTable(root string) (*integration.Table, error) {
	path := ""
	if cfg != nil && cfg.IntegrationsFile != "" {
		path = cfg.IntegrationsFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
	}
	table, err := integration.LoadWithOverrides(path)
	if err != nil {
		return nil, errors.NewConfigError(err)
	}
	return table, nil
}

// adapterOptions carries the per-run adapter settings.
type adapterOptions struct {
	secrets map[string]string
	hook    platform.WriteHook
}

// newAdapters builds the adapters for the selected platforms.
func newAdapters(opts adapterOptions) ([]platform.Adapter, error) {
	podsPath := ios.DefaultPodsPath
	if cfg != nil && cfg.PodsPath != "" {
		podsPath = cfg.PodsPath
	}
	hook := opts.hook
	if hook == nil {
		hook = platform.NoopHook{}
	}

	reg := platform.NewRegistry()
	for _, a := range []platform.Adapter{
		android.New(
			android.WithAppSecret(opts.secrets[paths.PlatformAndroid]),
			android.WithWriteHook(hook),
		),
		ios.New(
			ios.WithPodsPath(podsPath),
			ios.WithAppSecret(opts.secrets[paths.PlatformIOS]),
			ios.WithWriteHook(hook),
		),
	} {
		if err := reg.Register(a); err != nil {
			return nil, err
		}
	}
	return reg.Only(selectedPlatforms()...)
}

// backupsEnabled reports whether link runs snapshot descriptors.
func backupsEnabled() bool {
	return cfg == nil || cfg.Backup.Enabled
}

// newBackupManager returns the backup manager for the configured directory
// and retention.
func newBackupManager() *backup.Manager {
	var opts []backup.Option
	if cfg != nil {
		opts = append(opts,
			backup.WithBackupDir(cfg.Backup.Dir),
			backup.WithRetentionCount(cfg.Backup.Retention),
		)
	}
	return backup.NewManager(opts...)
}
