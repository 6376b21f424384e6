package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/platinummonkey/xviz-recipe/pkg/harness"
	"github.com/platinummonkey/xviz-recipe/pkg/lifecycle"
	"github.com/platinummonkey/xviz-recipe/pkg/observability"
	"github.com/platinummonkey/xviz-recipe/pkg/options"
	"github.com/platinummonkey/xviz-recipe/pkg/recipe"
)

// TestPackageDir is the consumer project inside the source tree
const TestPackageDir = "test_package"

func (a *app) newGenerateCommand() *Command {
	fs, common := a.newFlagSet("generate")

	cmd := &Command{
		Name:        "generate",
		Description: "Resolve the recipe and write the build descriptors",
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
		return a.runLifecycle(s, s.producer(), s.request())
	}
	return cmd
}

func (a *app) newBuildCommand() *Command {
	fs, common := a.newFlagSet("build")
	test := fs.Bool("test", false, "Run the test suite after building")

	cmd := &Command{
		Name:        "build",
		Description: "Generate descriptors and build the library",
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
		req := s.request()
		req.Build = true
		req.Test = *test
		return a.runLifecycle(s, s.producer(), req)
	}
	return cmd
}

func (a *app) newCreateCommand() *Command {
	fs, common := a.newFlagSet("create")
	packageDir := fs.String("package-dir", "", "Directory receiving the packaged library")

	cmd := &Command{
		Name:        "create",
		Description: "Build, test and package the library",
		Flags:       fs,
	}
	cmd.Run = func(args []string) error {
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *packageDir == "" {
			return errors.New("--package-dir is required")
		}
		s, err := a.newSession(common)
		if err != nil {
			return err
		}
		req := s.request()
		req.Build = true
		req.Test = true
		req.Package = true
		req.PackageDir = *packageDir
		return a.runLifecycle(s, s.producer(), req)
	}
	return cmd
}

func (a *app) newTestPackageCommand() *Command {
	fs, common := a.newFlagSet("test-package")

	cmd := &Command{
		Name:        "test-package",
		Description: "Build the consumer example against the published package",
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

		sourceDir := common.source
		if sourceDir == "" {
			sourceDir = filepath.Join(s.cfg.Build.SourceDir, TestPackageDir)
		}
		buildDir := s.buildDir
		if buildDir != "" {
			buildDir = filepath.Join(buildDir, TestPackageDir)
		}

		orch, err := s.orchestrator(a)
		if err != nil {
			return err
		}
		defer orch.Close()

		h := harness.New(orch, s.cfg.Build.VersionEnv, s.logger)
		result, err := h.Validate(s.ctx, harness.Request{
			Settings:  s.settings,
			Overrides: consumerOverrides(s.overrides, s.logger),
			SourceDir: sourceDir,
			BuildDir:  buildDir,
		})
		if result != nil && result.Resolution != nil {
			a.printResult(result)
		}
		if ferr := s.finish(); err == nil {
			err = ferr
		}
		return err
	}
	return cmd
}

// consumerOverrides keeps the overrides the consumer declares. Profiles and -o
// flags are shared with the producer, whose test and example toggles the
// consumer does not have.
func consumerOverrides(overrides map[string]bool, logger *observability.Logger) map[string]bool {
	schema := options.ConsumerSchema()
	kept := make(map[string]bool, len(overrides))
	var dropped []string
	for name, value := range overrides {
		if _, ok := schema.Lookup(name); ok {
			kept[name] = value
			continue
		}
		dropped = append(dropped, name)
	}
	if len(dropped) > 0 {
		sort.Strings(dropped)
		logger.WithField("options", dropped).Info("ignoring producer options for the consumer")
	}
	return kept
}

// runLifecycle drives r through the states selected by req
func (a *app) runLifecycle(s *session, r *recipe.Recipe, req *lifecycle.Request) error {
	orch, err := s.orchestrator(a)
	if err != nil {
		return err
	}
	defer orch.Close()

	result, err := orch.Run(s.ctx, r, req)
	if result != nil && result.Resolution != nil {
		a.printResult(result)
	}
	if ferr := s.finish(); err == nil {
		err = ferr
	}
	return err
}

func (a *app) printResult(result *lifecycle.Result) {
	states := make([]string, 0, len(result.States))
	for _, st := range result.States {
		states = append(states, string(st))
	}
	fmt.Fprintf(a.stdout, "%s (%s): %s\n", result.Resolution.Reference(), result.PassID, strings.Join(states, " -> "))
	for _, path := range result.Descriptors {
		fmt.Fprintf(a.stdout, "  generated %s\n", path)
	}
	if result.PackageInfoPath != "" {
		fmt.Fprintf(a.stdout, "  packaged %s\n", result.PackageInfoPath)
	}
}
