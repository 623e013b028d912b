package android

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/thoreinstein/applink/internal/errors"
	"github.com/thoreinstein/applink/internal/integration"
	"github.com/thoreinstein/applink/internal/logging"
	"github.com/thoreinstein/applink/internal/patch"
	"github.com/thoreinstein/applink/internal/paths"
	"github.com/thoreinstein/applink/internal/platform"
)

// Adapter links integrations into android/.
type Adapter struct {
	appSecret string
	hook      platform.WriteHook
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithAppSecret sets the value written to appcenter-config.json.
func WithAppSecret(secret string) Option {
	return func(a *Adapter) {
		a.appSecret = secret
	}
}

// WithWriteHook sets the hook run before each descriptor is written.
func WithWriteHook(h platform.WriteHook) Option {
	return func(a *Adapter) {
		a.hook = h
	}
}

// New creates an Android adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{hook: platform.NoopHook{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the platform identifier.
func (a *Adapter) Name() string {
	return paths.PlatformAndroid
}

// DisplayName returns a human-readable platform name.
func (a *Adapter) DisplayName() string {
	return paths.DisplayName(paths.PlatformAndroid)
}

// Detect reports whether root has an Android project.
func (a *Adapter) Detect(root string) bool {
	result := platform.DetectPlatform(paths.PlatformAndroid, root)
	return result != nil && result.Status == platform.StatusDetected
}

// HasSecretConfig reports whether the app already has an
// appcenter-config.json asset.
func (a *Adapter) HasSecretConfig(root string) bool {
	_, err := os.Stat(filepath.Join(paths.PlatformDir(paths.PlatformAndroid, root), configJSON))
	return err == nil
}

// Link ensures req.Integration's Android changes. Requests without an
// Android section produce an empty outcome.
func (a *Adapter) Link(ctx context.Context, req *platform.Request) (*platform.Outcome, error) {
	s := platform.NewSession(ctx, a.Name(), req, a.hook)
	spec := req.Integration.Android
	if spec == nil {
		logging.FromContext(ctx).Debug("no Android section", "module", req.Integration.Name)
		return s.Outcome(), nil
	}
	dir := paths.PlatformDir(paths.PlatformAndroid, req.Root)

	steps := []func(*platform.Session, string, *integration.Android) error{
		a.linkGradle,
		a.linkMainApplication,
		a.linkManifest,
		a.linkConfig,
	}
	for _, step := range steps {
		if err := step(s, dir, spec); err != nil {
			return s.Outcome(), err
		}
	}
	return s.Commit(ctx)
}

func (a *Adapter) linkGradle(s *platform.Session, dir string, spec *integration.Android) error {
	if spec.Project == "" {
		return nil
	}
	settings, err := s.Load(filepath.Join(dir, settingsGradle))
	if err != nil {
		return err
	}
	s.Apply(settings, settingsSpec(spec.Project, spec.ProjectDir))

	build, err := s.Load(filepath.Join(dir, appBuildGradle))
	if err != nil {
		return err
	}
	s.Apply(build, dependencySpec(spec.Project))
	return nil
}

func (a *Adapter) linkMainApplication(s *platform.Session, dir string, spec *integration.Android) error {
	if spec.Import == "" {
		return nil
	}
	path, err := findMainApplication(dir)
	if err != nil {
		return err
	}
	d, err := s.Load(path)
	if err != nil {
		return err
	}
	s.Apply(d, importSpec(d.Content(), spec.Import))
	if spec.Package != "" {
		s.Apply(d, registrationSpec(d.Content(), spec.Import, spec.Package))
	}
	return nil
}

func (a *Adapter) linkManifest(s *platform.Session, dir string, spec *integration.Android) error {
	if len(spec.Permissions) == 0 {
		return nil
	}
	d, err := s.Load(filepath.Join(dir, manifest))
	if err != nil {
		return err
	}
	for _, p := range spec.Permissions {
		s.Apply(d, permissionSpec(p))
	}
	return nil
}

func (a *Adapter) linkConfig(s *platform.Session, dir string, _ *integration.Android) error {
	if a.appSecret == "" {
		return nil
	}
	d, err := s.LoadOrCreate(filepath.Join(dir, configJSON), "")
	if err != nil {
		return err
	}
	content, result := setSecret(d, a.appSecret)
	d.SetContent(content)
	s.Record(d, "appcenter-config.json:app_secret", result)
	return nil
}

// Deduplicate removes repeated include, dependency, import and
// registration lines for req.Integration. Missing descriptors are skipped.
func (a *Adapter) Deduplicate(ctx context.Context, req *platform.Request) (*platform.Outcome, error) {
	s := platform.NewSession(ctx, a.Name(), req, a.hook)
	spec := req.Integration.Android
	if spec == nil {
		return s.Outcome(), nil
	}
	dir := paths.PlatformDir(paths.PlatformAndroid, req.Root)

	if spec.Project != "" {
		err := dedupe(s, filepath.Join(dir, settingsGradle),
			dedupeRule{"dedupe:include :" + spec.Project, includePattern(spec.Project)},
			dedupeRule{"dedupe:projectDir :" + spec.Project, projectDirPattern(spec.Project)},
		)
		if err != nil {
			return s.Outcome(), err
		}
		err = dedupe(s, filepath.Join(dir, appBuildGradle),
			dedupeRule{"dedupe:implementation :" + spec.Project, dependencyPattern(spec.Project)},
		)
		if err != nil {
			return s.Outcome(), err
		}
	}

	if spec.Import != "" {
		path, err := findMainApplication(dir)
		switch {
		case errors.Is(err, ErrNoMainApplication):
		case err != nil:
			return s.Outcome(), err
		default:
			name := simpleName(spec.Import)
			err = dedupe(s, path,
				dedupeRule{"dedupe:import " + name, importPattern(spec.Import)},
				dedupeRule{"dedupe:register " + name, registrationPattern(spec.Import)},
			)
			if err != nil {
				return s.Outcome(), err
			}
		}
	}
	return s.Commit(ctx)
}

type dedupeRule struct {
	name    string
	pattern *regexp.Regexp
}

func dedupe(s *platform.Session, path string, rules ...dedupeRule) error {
	d, err := s.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, r := range rules {
		content, result := patch.Dedupe(d.Content(), r.pattern)
		d.SetContent(content)
		s.Record(d, r.name, result)
	}
	return nil
}
