package requirements

import (
	"testing"

	"github.com/platinummonkey/xviz-recipe/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func producerValues(t *testing.T, overrides map[string]bool) options.Values {
	t.Helper()
	values, err := options.ProducerSchema().Apply(overrides)
	require.NoError(t, err)
	return values
}

func names(reqs []Requirement) []string {
	out := make([]string, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.Ref.String())
	}
	return out
}

func TestProducerRules(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]bool
		ctx       Context
		expected  []string
		transport map[string]string
	}{
		{
			name:      "defaults",
			overrides: nil,
			expected:  []string{"protobuf/3.21.9", "fmt/9.1.0", "gtest/cci.20210126"},
		},
		{
			name:      "no tests",
			overrides: map[string]bool{options.BuildTests: false},
			expected:  []string{"protobuf/3.21.9", "fmt/9.1.0"},
		},
		{
			name:      "examples",
			overrides: map[string]bool{options.BuildExamples: true, options.Coverage: true},
			expected: []string{
				"protobuf/3.21.9", "fmt/9.1.0", "gtest/cci.20210126",
				"websocketpp/0.8.2", "lodepng/cci.20200615",
			},
			transport: map[string]string{OptionAsio: AsioStandalone},
		},
		{
			name:      "examples on CI",
			overrides: map[string]bool{options.BuildExamples: true, options.BuildTests: false},
			ctx:       Context{CI: true},
			expected:  []string{"protobuf/3.21.9", "fmt/9.1.0", "websocketpp/0.8.2", "lodepng/cci.20200615"},
			transport: map[string]string{OptionAsio: AsioStandalone, OptionWithOpenSSL: "False"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqs, err := NewBuilder(ProducerRules()...).Build(producerValues(t, tt.overrides), tt.ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names(reqs))

			for _, r := range reqs {
				if r.Name() == Websocketpp.Name {
					assert.Equal(t, tt.transport, r.Options)
				} else {
					assert.Empty(t, r.Options, r.Name())
				}
			}
		})
	}
}

func TestBuild_Stable(t *testing.T) {
	values := producerValues(t, map[string]bool{options.BuildExamples: true})
	b := NewBuilder(ProducerRules()...)

	first, err := b.Build(values, Context{CI: true})
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := b.Build(values, Context{CI: true})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBuild_PlatformScenarios(t *testing.T) {
	raw := producerValues(t, map[string]bool{
		options.Shared:        false,
		options.FPIC:          true,
		options.BuildTests:    true,
		options.BuildExamples: true,
		options.Coverage:      true,
	})
	linux := options.Settings{OS: options.OSLinux, BuildType: options.BuildTypeDebug}
	windows := options.Settings{OS: options.OSWindows, BuildType: options.BuildTypeDebug}

	b := NewBuilder(ProducerRules()...)
	onLinux, err := b.Build(options.Prune(linux, raw), Context{})
	require.NoError(t, err)
	onWindows, err := b.Build(options.Prune(windows, raw), Context{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"protobuf/3.21.9", "fmt/9.1.0", "gtest/cci.20210126",
		"websocketpp/0.8.2", "lodepng/cci.20200615",
	}, names(onLinux))
	assert.Equal(t, onLinux, onWindows)
}

func TestConsumerRules(t *testing.T) {
	values, err := options.ConsumerSchema().Apply(nil)
	require.NoError(t, err)

	reqs, err := NewBuilder(ConsumerRules()...).Build(values, Context{Version: "0.4.2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"xviz/0.4.2@local/test", "websocketpp/0.8.2", "lodepng/cci.20200615"}, names(reqs))
	assert.Equal(t, map[string]string{OptionAsio: AsioStandalone, OptionWithOpenSSL: "False"}, reqs[1].Options)
}

func staticRule(name string, c Contribution) Rule {
	return Rule{Name: name, Apply: func(options.Values, Context) Contribution { return c }}
}

func TestBuild_Reconciliation(t *testing.T) {
	ws := Websocketpp.Name

	t.Run("agreeing overrides merge", func(t *testing.T) {
		b := NewBuilder(
			staticRule("a", Contribution{Requires: []Reference{Websocketpp}, Overrides: []Override{{ws, OptionAsio, AsioStandalone}}}),
			staticRule("b", Contribution{Requires: []Reference{Websocketpp}, Overrides: []Override{{ws, OptionAsio, AsioStandalone}, {ws, OptionWithOpenSSL, "False"}}}),
		)
		reqs, err := b.Build(options.NewValues(nil), Context{})
		require.NoError(t, err)
		require.Len(t, reqs, 1)
		assert.Equal(t, map[string]string{OptionAsio: AsioStandalone, OptionWithOpenSSL: "False"}, reqs[0].Options)
	})

	t.Run("conflicting override", func(t *testing.T) {
		b := NewBuilder(
			staticRule("a", Contribution{Requires: []Reference{Websocketpp}, Overrides: []Override{{ws, OptionWithOpenSSL, "False"}}}),
			staticRule("b", Contribution{Overrides: []Override{{ws, OptionWithOpenSSL, "True"}}}),
		)
		_, err := b.Build(options.NewValues(nil), Context{})
		require.Error(t, err)
		assert.True(t, IsConflictingOverrideError(err))
		assert.Contains(t, err.Error(), "websocketpp:with_openssl")
	})

	t.Run("conflicting version", func(t *testing.T) {
		b := NewBuilder(
			staticRule("a", Contribution{Requires: []Reference{Fmt}}),
			staticRule("b", Contribution{Requires: []Reference{MustParseReference("fmt/10.0.0")}}),
		)
		_, err := b.Build(options.NewValues(nil), Context{})
		assert.True(t, IsConflictingVersionError(err))
	})

	t.Run("override without requirement", func(t *testing.T) {
		b := NewBuilder(staticRule("a", Contribution{Overrides: []Override{{ws, OptionAsio, AsioStandalone}}}))
		_, err := b.Build(options.NewValues(nil), Context{})
		assert.ErrorIs(t, err, ErrUnknownDependency)
	})
}

func TestBuilder_Rules(t *testing.T) {
	assert.Equal(t, []string{"base", "tests", "examples"}, NewBuilder(ProducerRules()...).Rules())
}
