package link

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/applink/internal/descriptor"
	"github.com/thoreinstein/applink/internal/errors"
	"github.com/thoreinstein/applink/internal/integration"
	"github.com/thoreinstein/applink/internal/logging"
	"github.com/thoreinstein/applink/internal/patch"
	"github.com/thoreinstein/applink/internal/platform"
	"github.com/thoreinstein/applink/internal/platform/android"
	"github.com/thoreinstein/applink/internal/platform/ios"
)

type mockAdapter struct {
	mock.Mock
	name string
}

func (m *mockAdapter) Name() string        { return m.name }
func (m *mockAdapter) DisplayName() string { return m.name }

func (m *mockAdapter) Detect(root string) bool {
	return m.Called(root).Bool(0)
}

func (m *mockAdapter) Link(ctx context.Context, req *platform.Request) (*platform.Outcome, error) {
	args := m.Called(ctx, req)
	outcome, _ := args.Get(0).(*platform.Outcome)
	return outcome, args.Error(1)
}

type mockDeduper struct {
	mockAdapter
}

func (m *mockDeduper) Deduplicate(ctx context.Context, req *platform.Request) (*platform.Outcome, error) {
	args := m.Called(ctx, req)
	outcome, _ := args.Get(0).(*platform.Outcome)
	return outcome, args.Error(1)
}

func testContext(t *testing.T) context.Context {
	return logging.NewContext(t.Context(), logging.ForTest(t))
}

func request() *integration.Request {
	return &integration.Request{Name: "analytics", IOS: &integration.IOS{}, Android: &integration.Android{}}
}

func outcomeWith(name string, results ...patch.Result) *platform.Outcome {
	o := &platform.Outcome{Platform: name}
	for _, r := range results {
		o.Add("file", "spec", r)
	}
	return o
}

func TestLink_IOSFailsAndroidLinks(t *testing.T) {
	droid := &mockAdapter{name: "android"}
	droid.On("Detect", "/app").Return(true)
	droid.On("Link", mock.Anything, mock.Anything).Return(outcomeWith("android", patch.Applied), nil)

	apple := &mockAdapter{name: "ios"}
	apple.On("Detect", "/app").Return(true)
	readOnly := errors.Mark(errors.Wrap(descriptor.ErrReadOnly, "saving AppDelegate.m"), descriptor.ErrIO)
	apple.On("Link", mock.Anything, mock.Anything).Return(nil, readOnly)

	o := New([]platform.Adapter{apple, droid})
	report, err := o.Link(testContext(t), "/app", request())
	require.NoError(t, err)

	assert.Equal(t, StateLinked, report.Platform("android").State)
	ip := report.Platform("ios")
	assert.Equal(t, StateFailed, ip.State)
	assert.True(t, errors.Is(ip.Err, descriptor.ErrIO))
	assert.NoError(t, report.Err(), "partial success is success")

	droid.AssertExpectations(t)
	apple.AssertExpectations(t)
}

func TestLink_AndroidRunsFirst(t *testing.T) {
	var order []string
	newAdapter := func(name string) *mockAdapter {
		m := &mockAdapter{name: name}
		m.On("Detect", mock.Anything).Return(true)
		m.On("Link", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { order = append(order, name) }).
			Return(outcomeWith(name), nil)
		return m
	}

	o := New([]platform.Adapter{newAdapter("ios"), newAdapter("android")})
	_, err := o.Link(testContext(t), "/app", request())
	require.NoError(t, err)
	assert.Equal(t, []string{"android", "ios"}, order)
}

func TestLink_PanicIsContained(t *testing.T) {
	droid := &mockAdapter{name: "android"}
	droid.On("Detect", mock.Anything).Return(true)
	droid.On("Link", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("nil map")
	})

	apple := &mockAdapter{name: "ios"}
	apple.On("Detect", mock.Anything).Return(true)
	apple.On("Link", mock.Anything, mock.Anything).Return(outcomeWith("ios", patch.AlreadyPresent), nil)

	report, err := New([]platform.Adapter{droid, apple}).Link(testContext(t), "/app", request())
	require.NoError(t, err)

	assert.Equal(t, StateFailed, report.Platform("android").State)
	assert.True(t, errors.Is(report.Platform("android").Err, ErrAdapterPanic))
	assert.Equal(t, StateLinked, report.Platform("ios").State)
}

func TestLink_NothingDetected(t *testing.T) {
	droid := &mockAdapter{name: "android"}
	droid.On("Detect", mock.Anything).Return(false)
	apple := &mockAdapter{name: "ios"}
	apple.On("Detect", mock.Anything).Return(false)

	report, err := New([]platform.Adapter{droid, apple}).Link(testContext(t), "/app", request())
	require.NoError(t, err)

	assert.Equal(t, []string{"android", "ios"}, report.InState(StateNotDetected))
	assert.True(t, errors.Is(report.Err(), ErrNoPlatformDetected))
	droid.AssertNotCalled(t, "Link", mock.Anything, mock.Anything)
	apple.AssertNotCalled(t, "Link", mock.Anything, mock.Anything)
}

func TestLink_AllFailed(t *testing.T) {
	droid := &mockAdapter{name: "android"}
	droid.On("Detect", mock.Anything).Return(true)
	droid.On("Link", mock.Anything, mock.Anything).Return(nil, errors.New("settings.gradle missing"))
	apple := &mockAdapter{name: "ios"}
	apple.On("Detect", mock.Anything).Return(false)

	report, err := New([]platform.Adapter{droid, apple}).Link(testContext(t), "/app", request())
	require.NoError(t, err)

	reportErr := report.Err()
	assert.True(t, errors.Is(reportErr, ErrNoPlatformLinked))
	assert.Contains(t, reportErr.Error(), "settings.gradle missing")
}

func TestLink_DeduplicatesFirst(t *testing.T) {
	var calls []string
	d := &mockDeduper{mockAdapter{name: "android"}}
	d.On("Detect", mock.Anything).Return(true)
	d.On("Deduplicate", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { calls = append(calls, "dedupe") }).
		Return(outcomeWith("android", patch.Applied), nil)
	d.On("Link", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { calls = append(calls, "link") }).
		Return(outcomeWith("android", patch.AlreadyPresent), nil)

	report, err := New([]platform.Adapter{d}).Link(testContext(t), "/app", request())
	require.NoError(t, err)

	assert.Equal(t, []string{"dedupe", "link"}, calls)
	assert.Len(t, report.Platform("android").Outcome.Patches, 2)
}

func TestLink_DedupeDisabled(t *testing.T) {
	d := &mockDeduper{mockAdapter{name: "android"}}
	d.On("Detect", mock.Anything).Return(true)
	d.On("Link", mock.Anything, mock.Anything).Return(outcomeWith("android"), nil)

	_, err := New([]platform.Adapter{d}, WithDedupe(false)).Link(testContext(t), "/app", request())
	require.NoError(t, err)
	d.AssertNotCalled(t, "Deduplicate", mock.Anything, mock.Anything)
}

func TestLink_DryRunReachesAdapters(t *testing.T) {
	droid := &mockAdapter{name: "android"}
	droid.On("Detect", mock.Anything).Return(true)
	droid.On("Link", mock.Anything, mock.MatchedBy(func(r *platform.Request) bool {
		return r.DryRun && r.Root == "/app"
	})).Return(outcomeWith("android"), nil)

	report, err := New([]platform.Adapter{droid}, WithDryRun(true)).Link(testContext(t), "/app", request())
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	droid.AssertExpectations(t)
}

func TestLink_CancelledContext(t *testing.T) {
	droid := &mockAdapter{name: "android"}
	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	_, err := New([]platform.Adapter{droid}).Link(ctx, "/app", request())
	assert.ErrorIs(t, err, context.Canceled)
	droid.AssertNotCalled(t, "Detect", mock.Anything)
}

func TestLink_NilRequest(t *testing.T) {
	_, err := New(nil).Link(testContext(t), "/app", nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestSubscribe(t *testing.T) {
	droid := &mockAdapter{name: "android"}
	droid.On("Detect", mock.Anything).Return(true)
	droid.On("Link", mock.Anything, mock.Anything).Return(outcomeWith("android", patch.Applied, patch.AlreadyPresent), nil)
	apple := &mockAdapter{name: "ios"}
	apple.On("Detect", mock.Anything).Return(false)

	o := New([]platform.Adapter{droid, apple})

	var kinds []EventKind
	var results []patch.Result
	for _, kind := range []EventKind{EventPlatformDetected, EventPlatformSkipped, EventPlatformLinked, EventPlatformFailed} {
		o.Subscribe(kind, func(e Event) { kinds = append(kinds, e.Kind) })
	}
	sub := o.Subscribe(EventPatchResult, func(e Event) {
		assert.Equal(t, "analytics", e.Module)
		results = append(results, e.Patch.Result)
	})

	_, err := o.Link(testContext(t), "/app", request())
	require.NoError(t, err)

	assert.Equal(t, []EventKind{EventPlatformDetected, EventPlatformLinked, EventPlatformSkipped}, kinds)
	assert.Equal(t, []patch.Result{patch.Applied, patch.AlreadyPresent}, results)

	sub.Unsubscribe()
	sub.Unsubscribe()
	_, err = o.Link(testContext(t), "/app", request())
	require.NoError(t, err)
	assert.Len(t, results, 2, "no delivery after Unsubscribe")
}

func TestLink_ReadOnlyIOSWithRealAdapters(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string, perm os.FileMode) {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		require.NoError(t, os.Chmod(path, perm))
	}
	write("android/settings.gradle", "include ':app'\n", 0o644)
	write("android/app/build.gradle", "dependencies {\n    implementation 'x'\n}\n", 0o644)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ios", "Demo.xcodeproj"), 0o755))
	write("ios/Demo/AppDelegate.m", "#import \"AppDelegate.h\"\n\n- (BOOL)application:(UIApplication *)application didFinishLaunchingWithOptions:(NSDictionary *)launchOptions\n{\n  return YES;\n}\n", 0o444)

	req := &integration.Request{
		Name: "analytics",
		IOS: &integration.IOS{
			Import:  "#import <Analytics/Analytics.h>",
			Snippet: "[Analytics register];",
		},
		Android: &integration.Android{
			Project:    "analytics",
			ProjectDir: "../node_modules/analytics/android",
		},
	}

	o := New([]platform.Adapter{ios.New(), android.New()})
	report, err := o.Link(testContext(t), root, req)
	require.NoError(t, err)

	assert.Equal(t, StateLinked, report.Platform("android").State)
	assert.Equal(t, StateFailed, report.Platform("ios").State)
	assert.True(t, errors.Is(report.Platform("ios").Err, descriptor.ErrIO))
	assert.NoError(t, report.Err())

	settings, err := os.ReadFile(filepath.Join(root, "android", "settings.gradle"))
	require.NoError(t, err)
	assert.Contains(t, string(settings), "include ':analytics'")
}
