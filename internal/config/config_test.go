package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	applinkerrors "github.com/thoreinstein/applink/internal/errors"
)

func reset(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	Init()
}

func TestInit(t *testing.T) {
	reset(t)

	if viper.GetInt("version") != 1 {
		t.Errorf("expected version default 1, got %d", viper.GetInt("version"))
	}
	if got := viper.GetStringSlice("default_platforms"); len(got) != 2 {
		t.Errorf("expected 2 default platforms, got %v", got)
	}
	if !viper.GetBool("backup.enabled") {
		t.Error("expected backups enabled by default")
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	reset(t)

	cfg, err := Load(t.TempDir(), "")
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.PodsPath != "ios/Pods" {
		t.Errorf("PodsPath = %q, want default ios/Pods", cfg.PodsPath)
	}
	if cfg.Backup.Retention != 5 {
		t.Errorf("Backup.Retention = %d, want 5", cfg.Backup.Retention)
	}
}

func TestLoad_ProjectFile(t *testing.T) {
	reset(t)

	root := t.TempDir()
	content := []byte("pods_path: vendor/pods\ndefault_platforms:\n  - ios\nbackup:\n  retention: 2\n")
	if err := os.WriteFile(filepath.Join(root, ".applink.yaml"), content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.PodsPath != "vendor/pods" {
		t.Errorf("PodsPath = %q, want vendor/pods", cfg.PodsPath)
	}
	if len(cfg.DefaultPlatforms) != 1 || cfg.DefaultPlatforms[0] != "ios" {
		t.Errorf("DefaultPlatforms = %v, want [ios]", cfg.DefaultPlatforms)
	}
	if cfg.Backup.Retention != 2 {
		t.Errorf("Backup.Retention = %d, want 2", cfg.Backup.Retention)
	}
}

func TestLoad_SecretsFromDotEnv(t *testing.T) {
	reset(t)

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".env"), []byte("APPLINK_IOS_APP_SECRET=ios-secret\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APPLINK_ANDROID_APP_SECRET", "android-secret")
	// godotenv sets variables directly; make sure the test leaves no trace.
	t.Setenv("APPLINK_IOS_APP_SECRET", "")
	os.Unsetenv("APPLINK_IOS_APP_SECRET")

	cfg, err := Load(root, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := cfg.Secret("ios"); got != "ios-secret" {
		t.Errorf("Secret(ios) = %q, want ios-secret", got)
	}
	if got := cfg.Secret("android"); got != "android-secret" {
		t.Errorf("Secret(android) = %q, want android-secret", got)
	}
	if got := cfg.Secret("windows"); got != "" {
		t.Errorf("Secret(windows) = %q, want empty", got)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	reset(t)

	_, err := Load(t.TempDir(), "/non/existent/path/config.yaml")
	if !applinkerrors.Is(err, applinkerrors.ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"unsupported version", "version: 2\n", ErrUnsupportedVersion},
		{"invalid default platform", "default_platforms:\n  - windows\n", ErrInvalidPlatform},
		{"negative retention", "backup:\n  retention: -1\n", ErrInvalidRetention},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reset(t)

			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}

			_, err := Load(t.TempDir(), configPath)
			if !applinkerrors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
			if !applinkerrors.Is(err, applinkerrors.ErrInvalidConfig) {
				t.Errorf("Load() error = %v, should be marked ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidate_Paths(t *testing.T) {
	cfg := &Config{Version: 1, PodsPath: "bad\x00path"}

	errs := Validate(cfg)
	if len(errs) != 1 {
		t.Fatalf("Validate() returned %d errors, want 1", len(errs))
	}
	var pathErr *PathError
	if !errors.As(errs[0], &pathErr) || pathErr.Field != "pods_path" {
		t.Errorf("expected PathError for pods_path, got %v", errs[0])
	}
}

func TestValidate_Nil(t *testing.T) {
	if errs := Validate(nil); len(errs) != 1 {
		t.Errorf("Validate(nil) = %v, want one error", errs)
	}
}
