package lifecycle

import (
	"context"
	"time"

	"github.com/platinummonkey/xviz-recipe/pkg/descriptors"
	"github.com/platinummonkey/xviz-recipe/pkg/observability"
	"github.com/platinummonkey/xviz-recipe/pkg/options"
	"github.com/platinummonkey/xviz-recipe/pkg/recipe"
)

// Orchestrator runs a recipe through the lifecycle
type Orchestrator interface {
	// Run executes one single-pass lifecycle for the recipe
	Run(ctx context.Context, r *recipe.Recipe, req *Request) (*Result, error)

	// Close releases the build tool
	Close() error
}

// Request selects the optional states of a run
type Request struct {
	Settings  options.Settings
	Overrides map[string]bool
	// CI marks a CI validation run
	CI bool

	SourceDir string
	// BuildDir defaults to <SourceDir>/build/<build_type>
	BuildDir string

	Build bool
	Test  bool
	// Package runs the install step; it requires Build or Test
	Package bool
	// PackageDir receives the installed package; required with Package
	PackageDir string
}

// Result describes a completed or failed run
type Result struct {
	PassID     string
	Resolution *recipe.Resolution
	Layout     recipe.Layout
	// States lists every state entered, starting with init
	States []State
	// Skipped lists optional states that were not run
	Skipped         []State
	Descriptors     []string
	PackageInfoPath string
	Duration        time.Duration
}

// Config holds orchestrator configuration
type Config struct {
	Logger      *observability.Logger
	Metrics     *observability.Metrics
	Descriptors *descriptors.Registry
	// Cache reuses rendered descriptors across runs; nil renders every time
	Cache *descriptors.Cache
	// VerboseTests requests verbose output from the test runner
	VerboseTests bool
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Logger:       observability.NopLogger(),
		Descriptors:  descriptors.DefaultRegistry(),
		VerboseTests: true,
	}
}
