package ios

import (
	"context"
	"os"
	"path/filepath"

	"github.com/thoreinstein/applink/internal/errors"
	"github.com/thoreinstein/applink/internal/integration"
	"github.com/thoreinstein/applink/internal/logging"
	"github.com/thoreinstein/applink/internal/patch"
	"github.com/thoreinstein/applink/internal/paths"
	"github.com/thoreinstein/applink/internal/platform"
)

// DefaultPodsPath is the CocoaPods install directory relative to the
// project root.
const DefaultPodsPath = "ios/Pods"

// Adapter links integrations into ios/.
type Adapter struct {
	podsPath  string
	appSecret string
	hook      platform.WriteHook
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithPodsPath sets the CocoaPods install path, absolute or relative to the
// project root. Library projects' FRAMEWORK_SEARCH_PATHS point at it.
func WithPodsPath(path string) Option {
	return func(a *Adapter) {
		if path != "" {
			a.podsPath = path
		}
	}
}

// WithAppSecret sets the value written to AppCenter-Config.plist.
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

// New creates an iOS adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{podsPath: DefaultPodsPath, hook: platform.NoopHook{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the platform identifier.
func (a *Adapter) Name() string {
	return paths.PlatformIOS
}

// DisplayName returns a human-readable platform name.
func (a *Adapter) DisplayName() string {
	return paths.DisplayName(paths.PlatformIOS)
}

// Detect reports whether root has an iOS project.
func (a *Adapter) Detect(root string) bool {
	result := platform.DetectPlatform(paths.PlatformIOS, root)
	return result != nil && result.Status == platform.StatusDetected
}

// HasSecretConfig reports whether the app target already has an
// AppCenter-Config.plist.
func (a *Adapter) HasSecretConfig(root string) bool {
	proj, err := findProject(paths.PlatformDir(paths.PlatformIOS, root))
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Join(proj.dir, proj.appName, ConfigPlistName))
	return err == nil
}

// Link ensures req.Integration's iOS changes. Requests without an iOS
// section produce an empty outcome.
func (a *Adapter) Link(ctx context.Context, req *platform.Request) (*platform.Outcome, error) {
	s := platform.NewSession(ctx, a.Name(), req, a.hook)
	spec := req.Integration.IOS
	if spec == nil {
		logging.FromContext(ctx).Debug("no iOS section", "module", req.Integration.Name)
		return s.Outcome(), nil
	}

	proj, err := findProject(paths.PlatformDir(paths.PlatformIOS, req.Root))
	if err != nil {
		return s.Outcome(), err
	}

	if err := a.linkAppDelegate(s, proj, spec); err != nil {
		return s.Outcome(), err
	}
	if err := a.linkPodfile(s, proj, spec); err != nil {
		return s.Outcome(), err
	}
	if err := a.linkSearchPaths(s, spec); err != nil {
		return s.Outcome(), err
	}
	if err := a.linkConfigPlist(s, proj); err != nil {
		return s.Outcome(), err
	}
	return s.Commit(ctx)
}

func (a *Adapter) linkAppDelegate(s *platform.Session, proj *project, spec *integration.IOS) error {
	specs, err := appDelegateSpecs(spec)
	if err != nil || len(specs) == 0 {
		return err
	}
	d, err := s.Load(proj.appDelegate)
	if err != nil {
		return err
	}
	s.Apply(d, specs...)
	return nil
}

func (a *Adapter) linkPodfile(s *platform.Session, proj *project, spec *integration.IOS) error {
	if len(spec.Pods) == 0 && spec.MinVersion == "" {
		return nil
	}
	d, err := s.LoadOrCreate(filepath.Join(proj.dir, "Podfile"), newPodfile(proj.appName))
	if err != nil {
		return err
	}
	if spec.MinVersion != "" {
		s.Apply(d, platformSpecFor(d.Content(), proj.appName, spec.MinVersion))
	}
	s.Apply(d, podSpecs(proj.appName, spec.Pods)...)
	return nil
}

func (a *Adapter) linkSearchPaths(s *platform.Session, spec *integration.IOS) error {
	if spec.LibraryProject == "" {
		return nil
	}
	pbxproj := s.Path(spec.LibraryProject)
	rel, err := RelativePodsPath(s.Root(), pbxproj, a.podsPath)
	if err != nil {
		return errors.Wrapf(err, "resolving pods path %s", a.podsPath)
	}

	searchSpec, skip := SearchPathsSpec(rel)
	if skip {
		s.Outcome().Add(filepath.ToSlash(spec.LibraryProject), "pbxproj:FRAMEWORK_SEARCH_PATHS", patch.AlreadyPresent)
		return nil
	}
	d, err := s.Load(pbxproj)
	if err != nil {
		return err
	}
	s.Apply(d, searchSpec)
	return nil
}

func (a *Adapter) linkConfigPlist(s *platform.Session, proj *project) error {
	if a.appSecret == "" {
		return nil
	}
	d, err := s.LoadOrCreate(filepath.Join(proj.dir, proj.appName, ConfigPlistName), plistTemplate)
	if err != nil {
		return err
	}
	s.Apply(d, secretSpec(d.Content(), a.appSecret))
	return nil
}
