package recipe

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/platinummonkey/xviz-recipe/pkg/observability"
	"github.com/platinummonkey/xviz-recipe/pkg/options"
	"github.com/platinummonkey/xviz-recipe/pkg/requirements"
	"github.com/platinummonkey/xviz-recipe/pkg/version"
)

const (
	// ConsumerName is the name of the consumer validation package
	ConsumerName = "xviz_consumer_example"

	// BuildDirsHint is where the packaged library keeps its CMake config files
	BuildDirsHint = "lib/cmake/xviz"
)

// DefaultExportSources are the paths packaged with the producer's sources
var DefaultExportSources = []string{
	"CMakeLists.txt",
	"README.md",
	"cmake/*",
	"docs/*",
	"include/*",
	"proto/*",
	"src/*",
}

// NewProducer creates the library recipe, versioned from git tags in sourceDir
func NewProducer(sourceDir string, logger *observability.Logger) *Recipe {
	return &Recipe{
		Name:    requirements.ProducerName,
		Role:    RoleProducer,
		Schema:  options.ProducerSchema(),
		Rules:   requirements.ProducerRules(),
		Version: version.NewGitTagResolver(sourceDir, logger),
		PackageInfo: PackageInfo{
			Libs:      []string{requirements.ProducerName},
			BuildDirs: []string{BuildDirsHint},
		},
		ExportSources:  append([]string(nil), DefaultExportSources...),
		VariablePrefix: "XVIZ",
	}
}

// NewConsumer creates the validation recipe, versioned from the envKey variable
func NewConsumer(envKey string) *Recipe {
	return &Recipe{
		Name:    ConsumerName,
		Role:    RoleConsumer,
		Schema:  options.ConsumerSchema(),
		Rules:   requirements.ConsumerRules(),
		Version: version.NewEnvResolver(envKey),
	}
}

// ResolveOptions layers overrides on the schema defaults and prunes them for settings
func (r *Recipe) ResolveOptions(settings options.Settings, overrides map[string]bool) (BuildConfiguration, error) {
	if err := settings.Validate(); err != nil {
		return BuildConfiguration{}, wrap(ErrInvalidSettings, r.Name, err)
	}

	values, err := r.Schema.Apply(overrides)
	if err != nil {
		return BuildConfiguration{}, wrap(ErrInvalidOptions, r.Name, err)
	}
	pruned := options.Prune(settings, values)
	if err := r.Schema.Validate(pruned); err != nil {
		return BuildConfiguration{}, wrap(ErrInvalidOptions, r.Name, err)
	}

	return BuildConfiguration{Settings: settings, Options: pruned}, nil
}

// ResolveRequirements resolves the version and builds the requirement list
// for an already pruned configuration
func (r *Recipe) ResolveRequirements(ctx context.Context, cfg BuildConfiguration, ci bool) (*Resolution, error) {
	if r.Version == nil {
		return nil, wrap(ErrVersionResolution, r.Name, version.ErrEmptyVersion)
	}
	v, err := r.Version.Resolve(ctx)
	if err != nil {
		return nil, wrap(ErrVersionResolution, r.Name, err)
	}
	cfg.Version = v.Version

	reqs, err := requirements.NewBuilder(r.Rules...).Build(cfg.Options, requirements.Context{
		CI:      ci,
		Version: v.Version,
	})
	if err != nil {
		return nil, wrap(ErrRequirementResolution, r.Name, err)
	}

	id := observability.GetPassID(ctx)
	if id == "" {
		id = uuid.NewString()
	}

	return &Resolution{
		ID:            id,
		Recipe:        r.Name,
		Role:          r.Role,
		Config:        cfg,
		VersionMethod: v.Method,
		Requirements:  reqs,
	}, nil
}

// Resolve runs a complete resolution pass. Every configuration error is
// reported here, before any external tool is started.
func (r *Recipe) Resolve(ctx context.Context, settings options.Settings, overrides map[string]bool, ci bool) (*Resolution, error) {
	cfg, err := r.ResolveOptions(settings, overrides)
	if err != nil {
		return nil, err
	}
	return r.ResolveRequirements(ctx, cfg, ci)
}

// BuildVariables maps a configuration to the variables passed to the build
// system. Only options present after pruning are emitted.
func (r *Recipe) BuildVariables(cfg BuildConfiguration) map[string]string {
	if r.VariablePrefix == "" {
		return nil
	}
	vars := map[string]string{r.VariablePrefix + "_VERSION": cfg.Version}
	for name, suffix := range map[string]string{
		options.BuildTests:    "_BUILD_TESTS",
		options.BuildExamples: "_BUILD_EXAMPLES",
		options.Coverage:      "_BUILD_COVERAGE",
	} {
		if enabled, ok := cfg.Options.Get(name); ok {
			vars[r.VariablePrefix+suffix] = onOff(enabled)
		}
	}
	return vars
}

// SortedVariables returns the keys of vars in sorted order
func SortedVariables(vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

// Layout is the on-disk layout of a build
type Layout struct {
	SourceDir     string
	BuildDir      string
	GeneratorsDir string
}

// NewLayout derives the build layout. An empty buildDir means
// <source>/build/<build_type>.
func NewLayout(sourceDir, buildDir string, settings options.Settings) Layout {
	if buildDir == "" {
		buildType := settings.BuildType
		if buildType == "" {
			buildType = options.BuildTypeRelease
		}
		buildDir = filepath.Join(sourceDir, "build", buildType)
	}
	return Layout{
		SourceDir:     sourceDir,
		BuildDir:      buildDir,
		GeneratorsDir: filepath.Join(buildDir, "generators"),
	}
}
