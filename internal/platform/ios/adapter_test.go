package ios

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/applink/internal/descriptor"
	"github.com/thoreinstein/applink/internal/errors"
	"github.com/thoreinstein/applink/internal/integration"
	"github.com/thoreinstein/applink/internal/logging"
	"github.com/thoreinstein/applink/internal/patch"
	"github.com/thoreinstein/applink/internal/platform"
)

const appDelegateFixture = `#import "AppDelegate.h"

#import <React/RCTBundleURLProvider.h>
#import <React/RCTRootView.h>

@implementation AppDelegate

- (BOOL)application:(UIApplication *)application didFinishLaunchingWithOptions:(NSDictionary *)launchOptions
{
  NSURL *jsCodeLocation;

  jsCodeLocation = [[RCTBundleURLProvider sharedSettings] jsBundleURLForBundleRoot:@"index" fallbackResource:nil];
  return YES;
}

@end
`

const modernAppDelegateFixture = `#import "AppDelegate.h"

#import <React/RCTBundleURLProvider.h>

@implementation AppDelegate

- (BOOL)application:(UIApplication *)application didFinishLaunchingWithOptions:(NSDictionary *)launchOptions
{
  self.moduleName = @"Demo";
  self.initialProps = @{};

  return [super application:application didFinishLaunchingWithOptions:launchOptions];
}

- (NSURL *)sourceURLForBridge:(RCTBridge *)bridge
{
#if DEBUG
  return [[RCTBundleURLProvider sharedSettings] jsBundleURLForBundleRoot:@"index"];
#else
  return [[NSBundle mainBundle] URLForResource:@"main" withExtension:@"jsbundle"];
#endif
}

@end
`

const modernPodfileFixture = `require_relative '../node_modules/react-native/scripts/react_native_pods'

platform :ios, min_ios_version_supported
prepare_react_native_project!

target 'Demo' do
  config = use_native_modules!

  use_react_native!(
    :path => config[:reactNativePath]
  )
end
`

const podfileFixture = `# platform :ios, '9.0'

target 'Demo' do
  pod 'React', :path => '../node_modules/react-native'

  target 'DemoTests' do
    inherit! :search_paths
  end
end
`

const libraryPbxprojFixture = `// !$*UTF8*$!
{
	objects = {
		1A /* Debug */ = {
			buildSettings = {
				FRAMEWORK_SEARCH_PATHS = (
					"$(SRCROOT)/../../../ios/Pods/**",
					"$(inherited)",
				);
			};
		};
		1B /* Release */ = {
			buildSettings = {
				FRAMEWORK_SEARCH_PATHS = (
					"$(SRCROOT)/../../../ios/Pods/**",
					"$(inherited)",
				);
			};
		};
	};
}
`

const libraryProject = "node_modules/appcenter-analytics/ios/AppCenterReactNativeAnalytics.xcodeproj/project.pbxproj"

func analyticsRequest() *integration.Request {
	return &integration.Request{
		Name: "analytics",
		IOS: &integration.IOS{
			Import:         "#import <AppCenterReactNativeAnalytics/AppCenterReactNativeAnalytics.h>",
			Snippet:        "[AppCenterReactNativeAnalytics registerWithInitiallyEnabled:true];  // Initialize AppCenter analytics",
			Detect:         `.*\[AppCenterReactNativeAnalytics register.*`,
			MinVersion:     "9.0",
			LibraryProject: libraryProject,
			Pods: []integration.Pod{
				{Name: "AppCenter/Analytics", Version: "1.13.2"},
				{Name: "AppCenterReactNativeShared", Version: "1.12.2"},
			},
		},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// newProject lays out a minimal React Native iOS project under a temp root.
func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ios", "Demo.xcodeproj"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ios", "Pods.xcodeproj"), 0o755))
	writeFile(t, filepath.Join(root, "ios", "Demo", "AppDelegate.m"), appDelegateFixture)
	writeFile(t, filepath.Join(root, "ios", "Podfile"), podfileFixture)
	writeFile(t, filepath.Join(root, filepath.FromSlash(libraryProject)), libraryPbxprojFixture)
	return root
}

func testContext(t *testing.T) context.Context {
	return logging.NewContext(t.Context(), logging.ForTest(t))
}

func TestAdapter_Link(t *testing.T) {
	root := newProject(t)
	a := New(WithPodsPath("vendor/Pods"), WithAppSecret("ios-secret"))

	outcome, err := a.Link(testContext(t), &platform.Request{Root: root, Integration: analyticsRequest()})
	require.NoError(t, err)
	assert.Zero(t, outcome.Count(patch.AnchorNotFound), "patches: %+v", outcome.Patches)

	delegate := readFile(t, filepath.Join(root, "ios", "Demo", "AppDelegate.m"))
	assert.Contains(t, delegate, "#import \"AppDelegate.h\"\n#import <AppCenterReactNativeAnalytics/AppCenterReactNativeAnalytics.h>\n\n")
	assert.Contains(t, delegate, "{\n  [AppCenterReactNativeAnalytics registerWithInitiallyEnabled:true];  // Initialize AppCenter analytics\n  NSURL *jsCodeLocation;")

	podfile := readFile(t, filepath.Join(root, "ios", "Podfile"))
	assert.Contains(t, podfile, "platform :ios, '9.0'\ntarget 'Demo' do\n"+
		"  pod 'AppCenter/Analytics', '~> 1.13.2'\n"+
		"  pod 'AppCenterReactNativeShared', '~> 1.12.2'\n"+
		"  pod 'React'")

	pbxproj := readFile(t, filepath.Join(root, filepath.FromSlash(libraryProject)))
	assert.Equal(t, 2, strings.Count(pbxproj, `"$(SRCROOT)/../../../vendor/Pods",`))
	assert.NotContains(t, pbxproj, "ios/Pods/**")
	assert.Equal(t, 2, strings.Count(pbxproj, `"$(inherited)",`))

	plist := readFile(t, filepath.Join(root, "ios", "Demo", ConfigPlistName))
	assert.Contains(t, plist, "<dict>\n<key>AppSecret</key>\n<string>ios-secret</string>\n</dict>")

	assert.ElementsMatch(t, []string{
		"ios/Demo/AppDelegate.m",
		"ios/Podfile",
		libraryProject,
		"ios/Demo/" + ConfigPlistName,
	}, outcome.Saved)
}

func TestAdapter_LinkModernProject(t *testing.T) {
	root := newProject(t)
	require.NoError(t, os.Remove(filepath.Join(root, "ios", "Demo", "AppDelegate.m")))
	delegatePath := filepath.Join(root, "ios", "Demo", "AppDelegate.mm")
	writeFile(t, delegatePath, modernAppDelegateFixture)
	podfilePath := filepath.Join(root, "ios", "Podfile")
	writeFile(t, podfilePath, modernPodfileFixture)

	outcome, err := New().Link(testContext(t), &platform.Request{Root: root, Integration: analyticsRequest()})
	require.NoError(t, err)
	assert.Zero(t, outcome.Count(patch.AnchorNotFound), "patches: %+v", outcome.Patches)

	delegate := readFile(t, delegatePath)
	assert.Contains(t, delegate, "{\n  [AppCenterReactNativeAnalytics registerWithInitiallyEnabled:true];  // Initialize AppCenter analytics\n  self.moduleName")
	assert.Equal(t, 1, strings.Count(delegate, "[AppCenterReactNativeAnalytics register"))

	podfile := readFile(t, podfilePath)
	assert.Equal(t, 1, strings.Count(podfile, "platform :ios"))
	assert.Contains(t, podfile, "platform :ios, min_ios_version_supported\n")
	assert.Contains(t, podfile, "target 'Demo' do\n  pod 'AppCenter/Analytics', '~> 1.13.2'\n")
}

func TestAdapter_LinkIsIdempotent(t *testing.T) {
	root := newProject(t)
	a := New(WithPodsPath("vendor/Pods"), WithAppSecret("ios-secret"))
	req := &platform.Request{Root: root, Integration: analyticsRequest()}

	_, err := a.Link(testContext(t), req)
	require.NoError(t, err)

	files := []string{
		filepath.Join(root, "ios", "Demo", "AppDelegate.m"),
		filepath.Join(root, "ios", "Podfile"),
		filepath.Join(root, filepath.FromSlash(libraryProject)),
		filepath.Join(root, "ios", "Demo", ConfigPlistName),
	}
	before := make(map[string]string)
	for _, f := range files {
		before[f] = readFile(t, f)
	}

	second, err := a.Link(testContext(t), req)
	require.NoError(t, err)

	assert.Empty(t, second.Saved)
	for _, p := range second.Patches {
		assert.Equal(t, patch.AlreadyPresent, p.Result, "%s %s", p.File, p.Spec)
	}
	for _, f := range files {
		assert.Equal(t, before[f], readFile(t, f), f)
	}
}

func TestAdapter_DefaultPodsPathSkipsLibraryProject(t *testing.T) {
	root := newProject(t)
	pbxPath := filepath.Join(root, filepath.FromSlash(libraryProject))
	info, err := os.Stat(pbxPath)
	require.NoError(t, err)

	outcome, err := New().Link(testContext(t), &platform.Request{Root: root, Integration: analyticsRequest()})
	require.NoError(t, err)

	assert.Contains(t, outcome.Patches, platform.PatchOutcome{
		File:   libraryProject,
		Spec:   "pbxproj:FRAMEWORK_SEARCH_PATHS",
		Result: patch.AlreadyPresent,
	})
	assert.NotContains(t, outcome.Saved, libraryProject)
	assert.Equal(t, libraryPbxprojFixture, readFile(t, pbxPath))

	after, err := os.Stat(pbxPath)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), after.ModTime())
}

func TestAdapter_CreatesPodfile(t *testing.T) {
	root := newProject(t)
	require.NoError(t, os.Remove(filepath.Join(root, "ios", "Podfile")))

	_, err := New().Link(testContext(t), &platform.Request{Root: root, Integration: analyticsRequest()})
	require.NoError(t, err)

	assert.Equal(t, "platform :ios, '9.0'\n"+
		"target 'Demo' do\n"+
		"  pod 'AppCenter/Analytics', '~> 1.13.2'\n"+
		"  pod 'AppCenterReactNativeShared', '~> 1.12.2'\n"+
		"  # Pods for Demo\n"+
		"end\n", readFile(t, filepath.Join(root, "ios", "Podfile")))
}

func TestAdapter_ReadOnlyAppDelegate(t *testing.T) {
	root := newProject(t)
	path := filepath.Join(root, "ios", "Demo", "AppDelegate.m")
	require.NoError(t, os.Chmod(path, 0o444))

	_, err := New().Link(testContext(t), &platform.Request{Root: root, Integration: analyticsRequest()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, descriptor.ErrIO), "got %v", err)
	assert.Equal(t, appDelegateFixture, readFile(t, path))
}

func TestAdapter_MissingXcodeProject(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ios"), 0o755))

	_, err := New().Link(testContext(t), &platform.Request{Root: root, Integration: analyticsRequest()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoXcodeProject))
	assert.True(t, errors.Is(err, descriptor.ErrIO))
}

func TestAdapter_NoIOSSection(t *testing.T) {
	req := &integration.Request{Name: "android-only", Android: &integration.Android{}}

	outcome, err := New().Link(testContext(t), &platform.Request{Root: t.TempDir(), Integration: req})
	require.NoError(t, err)
	assert.Empty(t, outcome.Patches)
}

func TestAdapter_DryRun(t *testing.T) {
	root := newProject(t)

	outcome, err := New().Link(testContext(t), &platform.Request{Root: root, Integration: analyticsRequest(), DryRun: true})
	require.NoError(t, err)

	assert.True(t, outcome.Changed())
	assert.Empty(t, outcome.Saved)
	assert.Equal(t, appDelegateFixture, readFile(t, filepath.Join(root, "ios", "Demo", "AppDelegate.m")))
	assert.Equal(t, podfileFixture, readFile(t, filepath.Join(root, "ios", "Podfile")))
}

func TestAdapter_Detect(t *testing.T) {
	a := New()
	assert.False(t, a.Detect(t.TempDir()))
	assert.True(t, a.Detect(newProject(t)))
	assert.Equal(t, "ios", a.Name())
	assert.Equal(t, "iOS", a.DisplayName())
}

func TestAdapter_HasSecretConfig(t *testing.T) {
	root := newProject(t)
	a := New()
	assert.False(t, a.HasSecretConfig(root))
	assert.False(t, a.HasSecretConfig(t.TempDir()))

	writeFile(t, filepath.Join(root, "ios", "Demo", ConfigPlistName), plistTemplate)
	assert.True(t, a.HasSecretConfig(root))
}
