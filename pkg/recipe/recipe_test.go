package recipe

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/xviz-recipe/pkg/observability"
	"github.com/platinummonkey/xviz-recipe/pkg/options"
	"github.com/platinummonkey/xviz-recipe/pkg/requirements"
	"github.com/platinummonkey/xviz-recipe/pkg/version"
)

var linuxDebug = options.Settings{OS: options.OSLinux, Compiler: "gcc", BuildType: options.BuildTypeDebug, Arch: "x86_64"}

func testProducer() *Recipe {
	r := NewProducer(".", observability.NopLogger())
	r.Version = version.StaticResolver{Version: "1.0.0"}
	return r
}

func TestResolve_Producer(t *testing.T) {
	all := map[string]bool{
		options.Shared:        false,
		options.FPIC:          true,
		options.BuildTests:    true,
		options.BuildExamples: true,
		options.Coverage:      true,
	}

	tests := []struct {
		name     string
		settings options.Settings
		expected map[string]bool
	}{
		{
			name:     "linux debug keeps everything",
			settings: linuxDebug,
			expected: all,
		},
		{
			name:     "windows drops fPIC and coverage",
			settings: options.Settings{OS: options.OSWindows, Compiler: "msvc", BuildType: options.BuildTypeDebug, Arch: "x86_64"},
			expected: map[string]bool{
				options.Shared:        false,
				options.BuildTests:    true,
				options.BuildExamples: true,
				options.Coverage:      false,
			},
		},
		{
			name:     "release forces coverage off",
			settings: options.Settings{OS: options.OSLinux, Compiler: "gcc", BuildType: options.BuildTypeRelease, Arch: "x86_64"},
			expected: map[string]bool{
				options.Shared:        false,
				options.FPIC:          true,
				options.BuildTests:    true,
				options.BuildExamples: true,
				options.Coverage:      false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := testProducer().Resolve(context.Background(), tt.settings, all, false)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, res.Config.Options.Map())
			assert.Equal(t, "1.0.0", res.Config.Version)
			assert.Equal(t, version.MethodExplicit, res.VersionMethod)
			assert.Equal(t, RoleProducer, res.Role)
			assert.NotEmpty(t, res.ID)
			assert.Len(t, res.Requirements, 5)
		})
	}
}

func TestResolve_PassIDFromContext(t *testing.T) {
	ctx := observability.WithPassID(context.Background(), "pass-1")
	res, err := testProducer().Resolve(ctx, linuxDebug, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "pass-1", res.ID)
	assert.Equal(t, "xviz/1.0.0", res.Reference().String())
}

func TestResolve_Errors(t *testing.T) {
	t.Run("incomplete settings", func(t *testing.T) {
		_, err := testProducer().Resolve(context.Background(), options.Settings{OS: options.OSLinux}, nil, false)
		assert.ErrorIs(t, err, ErrInvalidSettings)
		assert.ErrorIs(t, err, options.ErrMissingSetting)
		assert.True(t, IsConfigurationError(err))
	})

	t.Run("unknown option", func(t *testing.T) {
		_, err := testProducer().Resolve(context.Background(), linuxDebug, map[string]bool{"with_gui": true}, false)
		assert.ErrorIs(t, err, ErrInvalidOptions)
		assert.True(t, options.IsUnknownOptionError(err))
	})

	t.Run("consumer rejects producer options", func(t *testing.T) {
		_, err := NewConsumer("X").Resolve(context.Background(), linuxDebug, map[string]bool{options.BuildTests: true}, false)
		assert.True(t, options.IsUnknownOptionError(err))
	})

	t.Run("missing consumer version", func(t *testing.T) {
		c := NewConsumer("XVIZ_RECIPE_TEST_UNSET_VERSION")
		_, err := c.Resolve(context.Background(), linuxDebug, nil, true)
		assert.ErrorIs(t, err, ErrVersionResolution)
		assert.True(t, version.IsMissingVersionOverrideError(err))
	})

	t.Run("conflicting rules", func(t *testing.T) {
		r := testProducer()
		r.Rules = append(r.Rules, requirements.Rule{
			Name: "tls",
			Apply: func(options.Values, requirements.Context) requirements.Contribution {
				return requirements.Contribution{
					Requires: []requirements.Reference{requirements.Websocketpp},
					Overrides: []requirements.Override{
						{Package: "websocketpp", Key: requirements.OptionWithOpenSSL, Value: "True"},
					},
				}
			},
		})
		_, err := r.Resolve(context.Background(), linuxDebug, map[string]bool{options.BuildExamples: true}, true)
		assert.ErrorIs(t, err, ErrRequirementResolution)
		assert.True(t, requirements.IsConflictingOverrideError(err))
	})
}

func TestResolve_Consumer(t *testing.T) {
	t.Setenv("XVIZ_RECIPE_TEST_VERSION", "0.2.0")

	res, err := NewConsumer("XVIZ_RECIPE_TEST_VERSION").Resolve(context.Background(), linuxDebug, nil, true)
	require.NoError(t, err)
	assert.Equal(t, version.MethodEnvironmentOverride, res.VersionMethod)
	assert.Equal(t, map[string]bool{options.Shared: false, options.FPIC: true}, res.Config.Options.Map())
	require.Len(t, res.Requirements, 3)
	assert.Equal(t, "xviz/0.2.0@local/test", res.Requirements[0].Ref.String())
}

func TestBuildVariables(t *testing.T) {
	r := testProducer()
	cfg, err := r.ResolveOptions(linuxDebug, map[string]bool{options.Coverage: true})
	require.NoError(t, err)
	cfg.Version = "1.0.0"

	assert.Equal(t, map[string]string{
		"XVIZ_VERSION":        "1.0.0",
		"XVIZ_BUILD_TESTS":    "ON",
		"XVIZ_BUILD_EXAMPLES": "OFF",
		"XVIZ_BUILD_COVERAGE": "ON",
	}, r.BuildVariables(cfg))
	assert.Equal(t, []string{"XVIZ_BUILD_COVERAGE", "XVIZ_BUILD_EXAMPLES", "XVIZ_BUILD_TESTS", "XVIZ_VERSION"},
		SortedVariables(r.BuildVariables(cfg)))

	assert.Nil(t, NewConsumer("").BuildVariables(cfg))
}

func TestNewLayout(t *testing.T) {
	l := NewLayout("/src", "", linuxDebug)
	assert.Equal(t, filepath.Join("/src", "build", "Debug"), l.BuildDir)
	assert.Equal(t, filepath.Join("/src", "build", "Debug", "generators"), l.GeneratorsDir)

	l = NewLayout("/src", "/tmp/out", options.Settings{})
	assert.Equal(t, "/tmp/out", l.BuildDir)
	assert.Equal(t, filepath.Join("/tmp/out", "generators"), l.GeneratorsDir)
}

func TestNewProducer_PackageInfo(t *testing.T) {
	r := NewProducer("/src", nil)
	assert.Equal(t, []string{"xviz"}, r.PackageInfo.Libs)
	assert.Equal(t, []string{"lib/cmake/xviz"}, r.PackageInfo.BuildDirs)
	assert.Contains(t, r.ExportSources, "CMakeLists.txt")
	_, ok := r.Version.(*version.GitTagResolver)
	assert.True(t, ok)
}
