package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/platinummonkey/xviz-recipe/pkg/buildtool"
	"github.com/platinummonkey/xviz-recipe/pkg/observability"
)

// ErrUnhealthy is returned by doctor when a required check fails
var ErrUnhealthy = errors.New("toolchain is not ready")

func (a *app) newDoctorCommand() *Command {
	fs, common := a.newFlagSet("doctor")

	cmd := &Command{
		Name:        "doctor",
		Description: "Check that the build toolchain is available",
		Flags:       fs,
	}
	cmd.Run = func(args []string) error {
		if err := fs.Parse(args); err != nil {
			return err
		}
		s, err := a.newSession(common)
		if err != nil {
			return err
		}

		status := observability.NewHealthChecker(a.checks(s)...).Check(s.ctx)
		for _, name := range status.Names() {
			dep := status.Dependencies[name]
			line := fmt.Sprintf("%-10s %s", name, dep.Status)
			if dep.Message != "" {
				line += ": " + dep.Message
			}
			fmt.Fprintln(a.stdout, line)
		}
		fmt.Fprintf(a.stdout, "status: %s\n", status.Status)

		if err := s.finish(); err != nil {
			return err
		}
		if status.Status == observability.StatusUnhealthy {
			return ErrUnhealthy
		}
		return nil
	}
	return cmd
}

// checks lists the probes for the configured tool. git and the artifact
// bucket are optional: the version falls back and upload is a separate step.
func (a *app) checks(s *session) []observability.Check {
	binary := func(name string) func(context.Context) error {
		return func(context.Context) error {
			_, err := a.lookPath(name)
			return err
		}
	}

	var checks []observability.Check
	if s.cfg.Build.Tool == buildtool.KindCMake {
		checks = append(checks,
			observability.Check{Name: "cmake", Required: true, Run: binary(s.cfg.Build.CMakeBin)},
			observability.Check{Name: "ctest", Required: true, Run: binary(s.cfg.Build.CTestBin)},
		)
	}
	checks = append(checks,
		observability.Check{Name: "build-tool", Required: true, Run: func(context.Context) error {
			tool, err := a.newTool(s.cfg.ToolOptions())
			if err != nil {
				return err
			}
			return tool.Close()
		}},
		observability.Check{Name: "git", Run: binary("git")},
		observability.Check{Name: "bucket", Run: func(context.Context) error {
			if s.cfg.Artifacts.Bucket == "" {
				return errors.New("RECIPE_ARTIFACT_BUCKET is not set")
			}
			return nil
		}},
	)
	return checks
}
