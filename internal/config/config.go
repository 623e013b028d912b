package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/thoreinstein/applink/internal/errors"
	"github.com/thoreinstein/applink/internal/paths"
)

// EnvPrefix prefixes every environment variable applink reads.
const EnvPrefix = "APPLINK"

// Config represents the top-level configuration structure.
type Config struct {
	Version          int      `mapstructure:"version" yaml:"version"`
	DefaultPlatforms []string `mapstructure:"default_platforms" yaml:"default_platforms"`

	// PodsPath is the CocoaPods install directory relative to the project root.
	PodsPath string `mapstructure:"pods_path" yaml:"pods_path"`

	// IntegrationsFile adds to or overrides the built-in integration table.
	IntegrationsFile string `mapstructure:"integrations_file" yaml:"integrations_file"`

	IOS     PlatformSettings `mapstructure:"ios" yaml:"ios"`
	Android PlatformSettings `mapstructure:"android" yaml:"android"`
	Backup  BackupSettings   `mapstructure:"backup" yaml:"backup"`
}

// PlatformSettings holds per-platform values.
type PlatformSettings struct {
	AppSecret string `mapstructure:"app_secret" yaml:"app_secret"`
}

// BackupSettings controls descriptor snapshots.
type BackupSettings struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Retention int    `mapstructure:"retention" yaml:"retention"`
	Dir       string `mapstructure:"dir" yaml:"dir"`
}

// Secret returns the app secret configured for platform.
func (c *Config) Secret(platform string) string {
	switch platform {
	case paths.PlatformIOS:
		return c.IOS.AppSecret
	case paths.PlatformAndroid:
		return c.Android.AppSecret
	default:
		return ""
	}
}

// Init sets defaults and environment bindings on the global Viper instance.
// Call this once at startup before Load.
func Init() {
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("default_platforms", paths.Platforms())
	viper.SetDefault("pods_path", "ios/Pods")
	viper.SetDefault("integrations_file", "")
	viper.SetDefault("ios.app_secret", "")
	viper.SetDefault("android.app_secret", "")
	viper.SetDefault("backup.enabled", true)
	viper.SetDefault("backup.retention", 5)
	viper.SetDefault("backup.dir", "")
}

// LoadEnv loads root/.env into the process environment. Variables that are
// already set win. A missing file is not an error.
func LoadEnv(root string) error {
	path := paths.EnvFile(root)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(errors.Mark(err, errors.ErrInvalidConfig), "loading %s", path)
	}
	return nil
}

// Load reads configuration for the project at root.
// If path is set, only that file is read and it must exist. Otherwise the
// user file and the project file are merged, and both may be absent.
func Load(root, path string) (*Config, error) {
	if err := LoadEnv(root); err != nil {
		return nil, err
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(errors.ErrNotFound, "config file not found at %s", path)
		}
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Wrap(errors.Mark(err, errors.ErrInvalidConfig), "reading config file")
		}
	} else {
		for _, candidate := range []string{paths.UserConfigFile(), paths.ProjectConfigFile(root)} {
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			viper.SetConfigFile(candidate)
			if err := viper.MergeInConfig(); err != nil {
				return nil, errors.Wrapf(errors.Mark(err, errors.ErrInvalidConfig), "reading config file %s", candidate)
			}
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.Mark(err, errors.ErrInvalidConfig), "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errors.Mark(errs[0], errors.ErrInvalidConfig), "validating config")
	}
	return &cfg, nil
}
