package buildtool

import (
	"context"
)

// Tool runs the steps of the external native build tool. Implementations do
// not retry; a failed step is returned to the caller as is.
type Tool interface {
	// Configure generates the native build system from the descriptors
	Configure(ctx context.Context, p *Project) error

	// Build compiles the configured project
	Build(ctx context.Context, p *Project) error

	// Test runs the test suite of a built project
	Test(ctx context.Context, p *Project, verbose bool) error

	// Install copies the build results into p.InstallDir
	Install(ctx context.Context, p *Project) error

	// Close releases resources
	Close() error
}

// Project is the input shared by every step
type Project struct {
	SourceDir     string
	BuildDir      string
	GeneratorsDir string
	// ToolchainFile is the toolchain descriptor, usually inside GeneratorsDir
	ToolchainFile string
	BuildType     string
	// Variables are passed to the configure step as -D definitions
	Variables  map[string]string
	InstallDir string
}

// Kind names a Tool implementation
type Kind string

const (
	KindCMake  Kind = "cmake"
	KindDocker Kind = "docker"
)

// Step names used in errors and logs
const (
	StepConfigure = "configure"
	StepBuild     = "build"
	StepTest      = "test"
	StepInstall   = "install"
)
