package lifecycle

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/platinummonkey/xviz-recipe/pkg/buildtool"
	"github.com/platinummonkey/xviz-recipe/pkg/descriptors"
	"github.com/platinummonkey/xviz-recipe/pkg/observability"
	"github.com/platinummonkey/xviz-recipe/pkg/options"
	"github.com/platinummonkey/xviz-recipe/pkg/recipe"
)

// DefaultOrchestrator implements Orchestrator on top of a buildtool.Tool
type DefaultOrchestrator struct {
	config *Config
	tool   buildtool.Tool
}

// NewOrchestrator creates an orchestrator delegating to tool
func NewOrchestrator(tool buildtool.Tool, config *Config) *DefaultOrchestrator {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = observability.NopLogger()
	}
	if config.Descriptors == nil {
		config.Descriptors = descriptors.DefaultRegistry()
	}
	return &DefaultOrchestrator{config: config, tool: tool}
}

// run holds the mutable state of one Run call
type run struct {
	o       *DefaultOrchestrator
	recipe  *recipe.Recipe
	tracker *Tracker
	result  *Result
	logger  *observability.Logger
}

// Run resolves options, requirements and version, then drives the build tool.
// Resolution errors are returned before the tool is called for the first time.
func (o *DefaultOrchestrator) Run(ctx context.Context, r *recipe.Recipe, req *Request) (*Result, error) {
	if err := validateRequest(r, req); err != nil {
		return nil, err
	}

	passID := observability.GetPassID(ctx)
	if passID == "" {
		passID = uuid.NewString()
		ctx = observability.WithPassID(ctx, passID)
	}

	start := time.Now()
	st := &run{
		o:       o,
		recipe:  r,
		tracker: NewTracker(),
		result:  &Result{PassID: passID},
		logger: o.config.Logger.WithFields(map[string]interface{}{
			"pass_id": passID,
			"recipe":  r.Name,
			"role":    string(r.Role),
		}),
	}
	defer func() {
		st.result.States = st.tracker.History()
		st.result.Duration = time.Since(start)
	}()

	st.logger.Info("starting lifecycle")

	cfg, err := st.resolveOptions(req)
	if err != nil {
		return st.result, err
	}
	res, err := st.resolveRequirements(ctx, cfg, req)
	if err != nil {
		return st.result, err
	}
	st.result.Resolution = res
	st.result.Layout = recipe.NewLayout(req.SourceDir, req.BuildDir, res.Config.Settings)

	project := &buildtool.Project{
		SourceDir:     st.result.Layout.SourceDir,
		BuildDir:      st.result.Layout.BuildDir,
		GeneratorsDir: st.result.Layout.GeneratorsDir,
		ToolchainFile: filepath.Join(st.result.Layout.GeneratorsDir, r.Name+"-toolchain.cmake"),
		BuildType:     res.Config.Settings.BuildType,
		Variables:     r.BuildVariables(res.Config),
		InstallDir:    req.PackageDir,
	}

	if err := st.step(StateGenerated, func() error { return st.generate(ctx, res, project) }); err != nil {
		return st.result, err
	}

	if !(req.Build || req.Test) {
		st.skip(StateBuilt, StateTested, StatePackaged)
		st.logger.Info("lifecycle finished after generation")
		return st.result, nil
	}
	if err := st.step(StateBuilt, func() error { return st.build(ctx, project) }); err != nil {
		return st.result, err
	}

	if req.Test && res.Config.Options.Enabled(options.BuildTests) {
		if err := st.step(StateTested, func() error { return o.tool.Test(ctx, project, o.config.VerboseTests) }); err != nil {
			return st.result, err
		}
	} else {
		if req.Test {
			st.logger.Info("tests requested but build_tests is off")
		}
		st.skip(StateTested)
	}

	if req.Package {
		if err := st.step(StatePackaged, func() error { return st.pack(ctx, res, project) }); err != nil {
			return st.result, err
		}
	} else {
		st.skip(StatePackaged)
	}

	st.logger.WithField("states", st.tracker.History()).Info("lifecycle finished")
	return st.result, nil
}

// Close releases the build tool
func (o *DefaultOrchestrator) Close() error {
	if o.tool != nil {
		return o.tool.Close()
	}
	return nil
}

func validateRequest(r *recipe.Recipe, req *Request) error {
	if r == nil {
		return NewInvalidRequestError("recipe is nil")
	}
	if req == nil {
		return NewInvalidRequestError("request is nil")
	}
	if req.SourceDir == "" {
		return NewInvalidRequestError("source directory is required")
	}
	if req.Package && !(req.Build || req.Test) {
		return NewInvalidRequestError("packaging requires a build")
	}
	if req.Package && req.PackageDir == "" {
		return NewInvalidRequestError("package directory is required to package")
	}
	return nil
}

func (st *run) resolveOptions(req *Request) (recipe.BuildConfiguration, error) {
	start := time.Now()
	cfg, err := st.recipe.ResolveOptions(req.Settings, req.Overrides)
	st.o.config.Metrics.ObserveStep(st.recipe.Name, string(StateOptionsResolved), time.Since(start), err)
	if err != nil {
		st.o.config.Metrics.ObserveResolution(st.recipe.Name, string(st.recipe.Role), "", 0, err)
		st.logger.WithError(err).Error("option resolution failed")
		return cfg, err
	}
	if err := st.tracker.Advance(StateOptionsResolved); err != nil {
		return cfg, err
	}
	st.logger.WithFields(map[string]interface{}{
		"settings": cfg.Settings.String(),
		"options":  cfg.Options.String(),
	}).Debug("options resolved")
	return cfg, nil
}

func (st *run) resolveRequirements(ctx context.Context, cfg recipe.BuildConfiguration, req *Request) (*recipe.Resolution, error) {
	start := time.Now()
	res, err := st.recipe.ResolveRequirements(ctx, cfg, req.CI)
	st.o.config.Metrics.ObserveStep(st.recipe.Name, string(StateRequirementsResolved), time.Since(start), err)
	if err != nil {
		st.o.config.Metrics.ObserveResolution(st.recipe.Name, string(st.recipe.Role), "", 0, err)
		st.logger.WithError(err).Error("requirement resolution failed")
		return nil, err
	}
	st.o.config.Metrics.ObserveResolution(st.recipe.Name, string(st.recipe.Role), string(res.VersionMethod), len(res.Requirements), nil)

	if err := st.tracker.Advance(StateRequirementsResolved); err != nil {
		return nil, err
	}
	st.logger.WithFields(map[string]interface{}{
		"version":      res.Config.Version,
		"method":       string(res.VersionMethod),
		"requirements": len(res.Requirements),
	}).Info("requirements resolved")
	return res, nil
}

// step runs fn for state, records metrics and wraps failures with the state
func (st *run) step(state State, fn func() error) error {
	if !CanTransition(st.tracker.Current(), state) {
		return NewInvalidTransitionError(st.tracker.Current(), state)
	}

	start := time.Now()
	err := fn()
	st.o.config.Metrics.ObserveStep(st.recipe.Name, string(state), time.Since(start), err)
	if err != nil {
		st.logger.WithField("state", string(state)).WithError(err).Error("lifecycle step failed")
		return &StepError{State: state, Err: err}
	}

	st.logger.WithField("state", string(state)).WithField("duration", time.Since(start).String()).Info("lifecycle step completed")
	return st.tracker.Advance(state)
}

func (st *run) skip(states ...State) {
	for _, s := range states {
		st.result.Skipped = append(st.result.Skipped, s)
		st.o.config.Metrics.SkipStep(st.recipe.Name, string(s))
	}
}

func (st *run) generate(ctx context.Context, res *recipe.Resolution, project *buildtool.Project) error {
	dreq := &descriptors.Request{
		Resolution: res,
		Variables:  project.Variables,
	}
	var files []descriptors.File
	var err error
	if st.o.config.Cache != nil {
		var hit bool
		files, hit, err = st.o.config.Cache.Generate(st.o.config.Descriptors, dreq)
		if hit {
			st.logger.Debug("descriptors unchanged since last render")
		}
	} else {
		files, err = st.o.config.Descriptors.Generate(dreq)
	}
	if err != nil {
		return err
	}
	paths, err := descriptors.Write(project.GeneratorsDir, files)
	if err != nil {
		return err
	}
	st.result.Descriptors = paths
	st.o.config.Metrics.AddDescriptors(len(paths))
	st.logger.WithField("files", paths).Debug("descriptors written")
	return nil
}

// build configures the native build system with the build variables, then compiles
func (st *run) build(ctx context.Context, project *buildtool.Project) error {
	if err := st.o.tool.Configure(ctx, project); err != nil {
		return err
	}
	return st.o.tool.Build(ctx, project)
}

func (st *run) pack(ctx context.Context, res *recipe.Resolution, project *buildtool.Project) error {
	if err := st.o.tool.Install(ctx, project); err != nil {
		return err
	}

	info, err := descriptors.PackageInfoFile(res, st.recipe.PackageInfo)
	if err != nil {
		return err
	}
	paths, err := descriptors.Write(project.InstallDir, []descriptors.File{info})
	if err != nil {
		return fmt.Errorf("failed to write package metadata: %w", err)
	}
	st.result.PackageInfoPath = paths[0]
	return nil
}
