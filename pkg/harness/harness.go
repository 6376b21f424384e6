// Package harness validates that a published package can be consumed in
// isolation.
//
// The harness resolves the consumer recipe, whose only interesting
// requirement is the published package at the version named by the CI
// override variable, and runs it through generation and build.
package harness

import (
	"context"
	"errors"

	"github.com/platinummonkey/xviz-recipe/pkg/lifecycle"
	"github.com/platinummonkey/xviz-recipe/pkg/observability"
	"github.com/platinummonkey/xviz-recipe/pkg/options"
	"github.com/platinummonkey/xviz-recipe/pkg/recipe"
)

// ErrMissingOrchestrator is returned when the harness has nothing to run on
var ErrMissingOrchestrator = errors.New("harness requires an orchestrator")

// Request configures one validation run
type Request struct {
	Settings  options.Settings
	Overrides map[string]bool
	// SourceDir holds the consumer example project
	SourceDir string
	BuildDir  string
}

// Harness runs the consumer recipe through the lifecycle
type Harness struct {
	Recipe       *recipe.Recipe
	Orchestrator lifecycle.Orchestrator
	Logger       *observability.Logger
}

// New creates a harness for the consumer recipe reading its version from envKey
func New(orch lifecycle.Orchestrator, envKey string, logger *observability.Logger) *Harness {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Harness{
		Recipe:       recipe.NewConsumer(envKey),
		Orchestrator: orch,
		Logger:       logger,
	}
}

// Validate generates and builds the consumer. A missing version override
// fails before the build tool is started.
func (h *Harness) Validate(ctx context.Context, req Request) (*lifecycle.Result, error) {
	if h.Orchestrator == nil {
		return nil, ErrMissingOrchestrator
	}

	result, err := h.Orchestrator.Run(ctx, h.Recipe, &lifecycle.Request{
		Settings:  req.Settings,
		Overrides: req.Overrides,
		CI:        true,
		SourceDir: req.SourceDir,
		BuildDir:  req.BuildDir,
		Build:     true,
	})
	if err != nil {
		h.Logger.WithError(err).Error("consumer validation failed")
		return result, err
	}

	h.Logger.WithFields(map[string]interface{}{
		"package": result.Resolution.Requirements[0].Ref.String(),
		"pass_id": result.PassID,
	}).Info("published package is consumable")
	return result, nil
}
