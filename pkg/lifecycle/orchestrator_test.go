package lifecycle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/xviz-recipe/pkg/buildtool"
	"github.com/platinummonkey/xviz-recipe/pkg/buildtool/buildtooltest"
	"github.com/platinummonkey/xviz-recipe/pkg/descriptors"
	"github.com/platinummonkey/xviz-recipe/pkg/observability"
	"github.com/platinummonkey/xviz-recipe/pkg/options"
	"github.com/platinummonkey/xviz-recipe/pkg/recipe"
	"github.com/platinummonkey/xviz-recipe/pkg/version"
)

var linuxDebug = options.Settings{OS: options.OSLinux, Compiler: "gcc", BuildType: options.BuildTypeDebug, Arch: "x86_64"}

func producer() *recipe.Recipe {
	r := recipe.NewProducer(".", nil)
	r.Version = version.StaticResolver{Version: "1.0.0"}
	return r
}

func newTestOrchestrator(t *testing.T) (*DefaultOrchestrator, *buildtooltest.Recorder, *observability.Metrics) {
	t.Helper()
	tool := buildtooltest.NewRecorder()
	metrics := observability.NewMetrics(nil)
	o := NewOrchestrator(tool, &Config{Metrics: metrics, VerboseTests: true})
	return o, tool, metrics
}

func TestRun_Branches(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]bool
		build     bool
		test      bool
		pack      bool
		steps     []string
		states    []State
		skipped   []State
		invalid   bool
	}{
		{
			name:    "generate only",
			steps:   []string{},
			states:  []State{StateInit, StateOptionsResolved, StateRequirementsResolved, StateGenerated},
			skipped: []State{StateBuilt, StateTested, StatePackaged},
		},
		{
			name:    "build",
			build:   true,
			steps:   []string{buildtool.StepConfigure, buildtool.StepBuild},
			states:  []State{StateInit, StateOptionsResolved, StateRequirementsResolved, StateGenerated, StateBuilt},
			skipped: []State{StateTested, StatePackaged},
		},
		{
			name:    "test implies build",
			test:    true,
			steps:   []string{buildtool.StepConfigure, buildtool.StepBuild, buildtool.StepTest},
			states:  []State{StateInit, StateOptionsResolved, StateRequirementsResolved, StateGenerated, StateBuilt, StateTested},
			skipped: []State{StatePackaged},
		},
		{
			name:      "test requested without build_tests",
			overrides: map[string]bool{options.BuildTests: false},
			test:      true,
			steps:     []string{buildtool.StepConfigure, buildtool.StepBuild},
			states:    []State{StateInit, StateOptionsResolved, StateRequirementsResolved, StateGenerated, StateBuilt},
			skipped:   []State{StateTested, StatePackaged},
		},
		{
			name:   "create",
			build:  true,
			test:   true,
			pack:   true,
			steps:  []string{buildtool.StepConfigure, buildtool.StepBuild, buildtool.StepTest, buildtool.StepInstall},
			states: []State{StateInit, StateOptionsResolved, StateRequirementsResolved, StateGenerated, StateBuilt, StateTested, StatePackaged},
		},
		{
			name:    "package without build",
			pack:    true,
			invalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, tool, _ := newTestOrchestrator(t)
			src := t.TempDir()
			req := &Request{
				Settings:  linuxDebug,
				Overrides: tt.overrides,
				SourceDir: src,
				Build:     tt.build,
				Test:      tt.test,
				Package:   tt.pack,
			}
			if tt.pack {
				req.PackageDir = filepath.Join(t.TempDir(), "pkg")
			}

			result, err := o.Run(context.Background(), producer(), req)
			if tt.invalid {
				require.ErrorIs(t, err, ErrInvalidRequest)
				assert.Empty(t, tool.Steps())
				_, statErr := os.Stat(filepath.Join(src, "build"))
				assert.True(t, os.IsNotExist(statErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.steps, tool.Steps())
			assert.Equal(t, tt.states, result.States)
			assert.Equal(t, tt.skipped, result.Skipped)
			assert.NotEmpty(t, result.PassID)
			assert.Len(t, result.Descriptors, 3)

			for _, c := range tool.Calls() {
				if c.Step == buildtool.StepTest {
					assert.True(t, c.Verbose)
				}
			}
		})
	}
}

func TestRun_ProjectAndDescriptors(t *testing.T) {
	o, tool, metrics := newTestOrchestrator(t)
	src := t.TempDir()

	result, err := o.Run(context.Background(), producer(), &Request{
		Settings:  linuxDebug,
		Overrides: map[string]bool{options.Coverage: true},
		SourceDir: src,
		Build:     true,
	})
	require.NoError(t, err)

	gen := filepath.Join(src, "build", "Debug", "generators")
	assert.Equal(t, gen, result.Layout.GeneratorsDir)
	for _, name := range []string{"xviz-deps.cmake", "xviz-toolchain.cmake", descriptors.LockfileName} {
		assert.FileExists(t, filepath.Join(gen, name))
	}

	calls := tool.Calls()
	require.NotEmpty(t, calls)
	p := calls[0].Project
	assert.Equal(t, filepath.Join(gen, "xviz-toolchain.cmake"), p.ToolchainFile)
	assert.Equal(t, "Debug", p.BuildType)
	assert.Equal(t, map[string]string{
		"XVIZ_VERSION":        "1.0.0",
		"XVIZ_BUILD_TESTS":    "ON",
		"XVIZ_BUILD_EXAMPLES": "OFF",
		"XVIZ_BUILD_COVERAGE": "ON",
	}, p.Variables)

	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.DescriptorsGenerated))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.StepsTotal.WithLabelValues("xviz", "built", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.VersionResolutions.WithLabelValues("xviz", "explicit")))
}

func TestRun_Package(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	pkgDir := filepath.Join(t.TempDir(), "package")

	result, err := o.Run(context.Background(), producer(), &Request{
		Settings:   linuxDebug,
		SourceDir:  t.TempDir(),
		Build:      true,
		Package:    true,
		PackageDir: pkgDir,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(pkgDir, descriptors.PackageInfoName), result.PackageInfoPath)

	data, err := os.ReadFile(result.PackageInfoPath)
	require.NoError(t, err)
	meta, err := descriptors.ReadPackageInfo(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"xviz"}, meta.Libs)
	assert.Equal(t, []string{"lib/cmake/xviz"}, meta.BuildDirs)
	assert.Equal(t, "1.0.0", meta.Version)
}

func TestRun_ConfigurationErrorsNeverReachTool(t *testing.T) {
	consumer := recipe.NewConsumer("XVIZ_LIFECYCLE_TEST_UNSET")

	tests := []struct {
		name   string
		recipe *recipe.Recipe
		req    *Request
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unknown option",
			recipe: producer(),
			req:    &Request{Settings: linuxDebug, Overrides: map[string]bool{"with_qt": true}, Build: true},
			check: func(t *testing.T, err error) {
				assert.True(t, options.IsUnknownOptionError(err))
			},
		},
		{
			name:   "missing consumer version",
			recipe: consumer,
			req:    &Request{Settings: linuxDebug, Build: true, CI: true},
			check: func(t *testing.T, err error) {
				assert.True(t, version.IsMissingVersionOverrideError(err))
			},
		},
		{
			name:   "incomplete settings",
			recipe: producer(),
			req:    &Request{Settings: options.Settings{OS: options.OSLinux}, Test: true},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, recipe.ErrInvalidSettings)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, tool, _ := newTestOrchestrator(t)
			tt.req.SourceDir = t.TempDir()

			result, err := o.Run(context.Background(), tt.recipe, tt.req)
			require.Error(t, err)
			tt.check(t, err)
			assert.True(t, recipe.IsConfigurationError(err))
			assert.Empty(t, tool.Calls())
			assert.Empty(t, result.Descriptors)
			_, statErr := os.Stat(filepath.Join(tt.req.SourceDir, "build"))
			assert.True(t, os.IsNotExist(statErr), "no build directory is created")
		})
	}
}

func TestRun_ToolFailureAborts(t *testing.T) {
	cause := errors.New("ninja: build stopped")
	o, tool, metrics := newTestOrchestrator(t)
	tool.Fail[buildtool.StepBuild] = cause

	result, err := o.Run(context.Background(), producer(), &Request{
		Settings:  linuxDebug,
		SourceDir: t.TempDir(),
		Test:      true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	state, ok := FailedState(err)
	require.True(t, ok)
	assert.Equal(t, StateBuilt, state)
	assert.Equal(t, []string{buildtool.StepConfigure, buildtool.StepBuild}, tool.Steps())
	assert.Equal(t, StateGenerated, result.States[len(result.States)-1])
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.StepsTotal.WithLabelValues("xviz", "built", "failure")))
}

func TestRun_InvalidRequest(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)

	_, err := o.Run(context.Background(), nil, &Request{SourceDir: "."})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = o.Run(context.Background(), producer(), &Request{Settings: linuxDebug})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = o.Run(context.Background(), producer(), &Request{Settings: linuxDebug, SourceDir: ".", Package: true})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestRun_PassIDFromContext(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	ctx := observability.WithPassID(context.Background(), "ci-42")

	result, err := o.Run(ctx, producer(), &Request{Settings: linuxDebug, SourceDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "ci-42", result.PassID)
	assert.Equal(t, "ci-42", result.Resolution.ID)
}

func TestClose(t *testing.T) {
	o, tool, _ := newTestOrchestrator(t)
	require.NoError(t, o.Close())
	assert.True(t, tool.Closed())
}

func TestRun_DescriptorCache(t *testing.T) {
	cache, err := descriptors.NewCache(descriptors.DefaultCacheSize)
	require.NoError(t, err)
	tool := buildtooltest.NewRecorder()
	o := NewOrchestrator(tool, &Config{Cache: cache})
	src := t.TempDir()

	for i := 0; i < 3; i++ {
		result, err := o.Run(context.Background(), producer(), &Request{Settings: linuxDebug, SourceDir: src, Build: true})
		require.NoError(t, err)
		assert.Len(t, result.Descriptors, 3)
	}

	hits, misses := cache.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
	configures := 0
	for _, step := range tool.Steps() {
		if step == buildtool.StepConfigure {
			configures++
		}
	}
	assert.Equal(t, 3, configures, "configure still runs on a cache hit")
}
