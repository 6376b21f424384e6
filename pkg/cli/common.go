package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/xviz-recipe/pkg/buildtool"
	"github.com/platinummonkey/xviz-recipe/pkg/config"
	"github.com/platinummonkey/xviz-recipe/pkg/descriptors"
	"github.com/platinummonkey/xviz-recipe/pkg/lifecycle"
	"github.com/platinummonkey/xviz-recipe/pkg/observability"
	"github.com/platinummonkey/xviz-recipe/pkg/options"
	"github.com/platinummonkey/xviz-recipe/pkg/profile"
	"github.com/platinummonkey/xviz-recipe/pkg/recipe"
	"github.com/platinummonkey/xviz-recipe/pkg/version"
)

// stringList is a repeatable string flag
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// commonFlags are accepted by every command. Empty values keep the
// environment configuration.
type commonFlags struct {
	profile     string
	options     stringList
	settings    stringList
	source      string
	buildDir    string
	tool        string
	ci          bool
	metricsFile string
	logLevel    string
	version     string
}

func (a *app) newFlagSet(name string) (*flag.FlagSet, *commonFlags) {
	c := &commonFlags{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	fs.StringVar(&c.profile, "profile", "", "Profile YAML with settings and options")
	fs.Var(&c.options, "o", "Option override name=value (repeatable)")
	fs.Var(&c.settings, "s", "Setting override key=value (repeatable)")
	fs.StringVar(&c.source, "source", "", "Source directory")
	fs.StringVar(&c.buildDir, "build-dir", "", "Build directory (default $RECIPE_BUILD_DIR, then <source>/build/<build_type>)")
	fs.StringVar(&c.tool, "tool", "", "Build tool: cmake or docker")
	fs.BoolVar(&c.ci, "ci", false, "Mark the run as a CI validation run")
	fs.StringVar(&c.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&c.version, "version", "", "Use this producer version instead of the git tag")

	return fs, c
}

// loadProfile layers the host defaults, the profile file and the -s/-o flags
func (c *commonFlags) loadProfile() (*profile.Profile, error) {
	p := profile.Detect()
	if c.profile != "" {
		loaded, err := profile.Load(c.profile)
		if err != nil {
			return nil, err
		}
		p = p.Merge(loaded)
	}

	p, err := p.WithSettings(c.settings)
	if err != nil {
		return nil, err
	}
	return p.WithOptions(c.options)
}

// session is the resolved configuration of one command invocation
type session struct {
	// ctx carries the session logger
	ctx       context.Context
	cfg       *config.Config
	logger    *observability.Logger
	metrics   *observability.Metrics
	settings  options.Settings
	overrides map[string]bool
	ci        bool
	buildDir  string
	version   string
	// cache is shared by the sessions of a long-running command
	cache *descriptors.Cache
}

func (a *app) newSession(c *commonFlags) (*session, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	if c.source != "" {
		cfg.Build.SourceDir = c.source
	}
	if c.buildDir != "" {
		cfg.Build.BuildDir = c.buildDir
	}
	if c.tool != "" {
		cfg.Build.Tool = buildtool.Kind(strings.ToLower(c.tool))
	}
	if c.metricsFile != "" {
		cfg.Observability.MetricsFile = c.metricsFile
	}
	if c.logLevel != "" {
		cfg.Observability.LogLevel = observability.ParseLogLevel(c.logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p, err := c.loadProfile()
	if err != nil {
		return nil, err
	}
	overrides, err := p.Overrides()
	if err != nil {
		return nil, err
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, a.stderr)
	return &session{
		ctx:       observability.WithLogger(a.ctx, logger),
		cfg:       cfg,
		logger:    logger,
		metrics:   observability.NewMetrics(nil),
		settings:  p.Settings,
		overrides: overrides,
		ci:        c.ci || cfg.Build.CI,
		buildDir:  cfg.Build.BuildDir,
		version:   c.version,
	}, nil
}

func (s *session) producer() *recipe.Recipe {
	r := recipe.NewProducer(s.cfg.Build.SourceDir, s.logger)
	if s.version != "" {
		r.Version = version.StaticResolver{Version: s.version}
	}
	return r
}

func (s *session) consumer() *recipe.Recipe {
	return recipe.NewConsumer(s.cfg.Build.VersionEnv)
}

// request builds a lifecycle request that stops after generation
func (s *session) request() *lifecycle.Request {
	return &lifecycle.Request{
		Settings:  s.settings,
		Overrides: s.overrides,
		CI:        s.ci,
		SourceDir: s.cfg.Build.SourceDir,
		BuildDir:  s.buildDir,
	}
}

func (s *session) orchestrator(a *app) (*lifecycle.DefaultOrchestrator, error) {
	opts := s.cfg.ToolOptions()
	opts.Logger = toolLogger(s.cfg.Observability.LogLevel, a.stderr)

	tool, err := a.newTool(opts)
	if err != nil {
		return nil, err
	}

	return lifecycle.NewOrchestrator(tool, &lifecycle.Config{
		Logger:       s.logger,
		Metrics:      s.metrics,
		Descriptors:  descriptors.DefaultRegistry(),
		Cache:        s.cache,
		VerboseTests: true,
	}), nil
}

// finish writes the metrics textfile when one is configured
func (s *session) finish() error {
	if err := s.metrics.WriteTextfile(s.cfg.Observability.MetricsFile); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// toolLogger receives the output of the native build tool
func toolLogger(level observability.LogLevel, w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	if lvl, err := logrus.ParseLevel(level.String()); err == nil {
		l.SetLevel(lvl)
	}
	return l
}
