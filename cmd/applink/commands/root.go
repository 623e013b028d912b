// Package commands implements the CLI commands for applink.
package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/applink/cmd"
	"github.com/thoreinstein/applink/internal/backup"
	"github.com/thoreinstein/applink/internal/config"
	"github.com/thoreinstein/applink/internal/errors"
	"github.com/thoreinstein/applink/internal/logging"
	"github.com/thoreinstein/applink/internal/paths"
)

// projectDir holds the value of the --project flag.
var projectDir string

// platformFlag holds the value of the --platform flag.
var platformFlag []string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// cfg is the configuration loaded for the current project.
var cfg *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "C", "",
		"React Native project root (default: current directory)")
	rootCmd.PersistentFlags().StringSliceVarP(&platformFlag, "platform", "p", nil,
		`target platform(s): android, ios (default: all detected)`)
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: .applink.yaml and ~/.config/applink/config.yaml)")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("applink version {{.Version}}\n")

	backup.Version = cmd.Version

	// Errors are printed by main so exit codes and suggestions stay together.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	cfg, configLoadErr = nil, nil

	root, err := projectRoot()
	if err != nil {
		configLoadErr = err
		return
	}
	config.Init()
	cfg, configLoadErr = config.Load(root, configFile)
}

var rootCmd = &cobra.Command{
	Use:   "applink",
	Short: "Link mobile SDK modules into React Native native projects",
	Long: `applink patches the native build files of a React Native project so an
SDK module is wired into its iOS and Android apps.

It edits AppDelegate, Podfile, Xcode project settings, Gradle scripts,
MainApplication and the Android manifest in place. Every patch is detected
before it is applied, so running applink twice changes nothing the second
time. Each file it rewrites is backed up first.

Use the --platform flag to target one platform, or omit it to link every
platform whose native project is found.`,
	Example: `  # Link the analytics module into the current project
  applink link analytics

  # Preview the changes without writing
  applink link analytics crashes --dry-run

  # Report what is already linked
  applink check analytics

  See Also: applink list, applink backup`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return validatePlatformFlag(cmd, args)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("conflicting flags"), "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity
		if v == 0 {
			if val, ok := os.LookupEnv("APPLINK_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2
				case "2":
					v = 3
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	logger := logging.New(logging.Config{
		Level:  level,
		Format: logging.Format(logFormat),
		Output: cmd.ErrOrStderr(),
	})
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})
		logger = slog.New(logging.NewMultiHandler(logger.Handler(), fileHandler))
	}

	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))
	return nil
}

// validatePlatformFlag checks config loading and that every --platform
// value is a known platform.
func validatePlatformFlag(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "gen-doc" {
		return nil
	}

	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}

	var invalid []string
	for _, p := range platformFlag {
		if !paths.ValidPlatform(p) {
			invalid = append(invalid, p)
		}
	}
	if len(invalid) > 0 {
		err := errors.Newf("invalid platform(s): %s (valid: %s)",
			strings.Join(invalid, ", "),
			strings.Join(paths.Platforms(), ", "))
		return errors.NewUserError(err, "Run 'applink --help' to see valid platforms")
	}
	return nil
}

// projectRoot returns the absolute project root from --project or the
// working directory.
func projectRoot() (string, error) {
	dir := projectDir
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(err, "resolving project root")
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", errors.Wrapf(errors.ErrNotFound, "project directory %s", abs)
	}
	return abs, nil
}

// selectedPlatforms returns --platform when set and the configured
// defaults otherwise.
func selectedPlatforms() []string {
	if len(platformFlag) > 0 {
		return platformFlag
	}
	if cfg != nil && len(cfg.DefaultPlatforms) > 0 {
		return cfg.DefaultPlatforms
	}
	return paths.Platforms()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
