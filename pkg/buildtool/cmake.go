package buildtool

import (
	"context"
	"io"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// CommandRunner runs name with args in dir, streaming its output
type CommandRunner func(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error

// CMakeTool runs cmake and ctest on the host
type CMakeTool struct {
	CMake  string
	CTest  string
	Run    CommandRunner
	Logger *logrus.Logger
}

// NewCMakeTool creates a host tool; empty binaries default to cmake and ctest on PATH
func NewCMakeTool(cmake, ctest string, logger *logrus.Logger) *CMakeTool {
	if cmake == "" {
		cmake = "cmake"
	}
	if ctest == "" {
		ctest = "ctest"
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &CMakeTool{
		CMake:  cmake,
		CTest:  ctest,
		Run:    execRunner,
		Logger: logger,
	}
}

// Configure runs cmake -S -B with the toolchain and variables
func (t *CMakeTool) Configure(ctx context.Context, p *Project) error {
	return t.step(ctx, StepConfigure, p.SourceDir, t.CMake, ConfigureArgs(p, nil))
}

// Build runs cmake --build
func (t *CMakeTool) Build(ctx context.Context, p *Project) error {
	return t.step(ctx, StepBuild, p.BuildDir, t.CMake, BuildArgs(p, nil))
}

// Test runs ctest in the build directory
func (t *CMakeTool) Test(ctx context.Context, p *Project, verbose bool) error {
	return t.step(ctx, StepTest, p.BuildDir, t.CTest, TestArgs(p, verbose, nil))
}

// Install runs cmake --install into p.InstallDir
func (t *CMakeTool) Install(ctx context.Context, p *Project) error {
	if p.InstallDir == "" {
		return ErrMissingInstallDir
	}
	return t.step(ctx, StepInstall, p.BuildDir, t.CMake, InstallArgs(p, nil))
}

// Close is a no-op for the host tool
func (t *CMakeTool) Close() error {
	return nil
}

func (t *CMakeTool) step(ctx context.Context, step, dir, name string, args []string) error {
	entry := t.Logger.WithFields(logrus.Fields{"step": step, "tool": name})
	entry.WithField("args", args).Debug("running build tool")

	stdout := entry.WriterLevel(logrus.InfoLevel)
	defer stdout.Close()
	stderr := entry.WriterLevel(logrus.WarnLevel)
	defer stderr.Close()

	run := t.Run
	if run == nil {
		run = execRunner
	}
	if err := run(ctx, dir, stdout, stderr, name, args...); err != nil {
		return NewStepFailedError(step, err)
	}
	return nil
}

func execRunner(ctx context.Context, dir string, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}
