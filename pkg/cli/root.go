package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"

	"github.com/platinummonkey/xviz-recipe/pkg/artifacts"
	"github.com/platinummonkey/xviz-recipe/pkg/buildtool"
	"github.com/platinummonkey/xviz-recipe/pkg/config"
)

// Command represents a CLI command
type Command struct {
	Name        string
	Description string
	Run         func(args []string) error
	Subcommands map[string]*Command
	Flags       *flag.FlagSet
}

// uploader stores a package folder
type uploader interface {
	Upload(ctx context.Context, req *artifacts.UploadRequest) (*artifacts.UploadResult, error)
}

// app carries the process-wide dependencies of every command
type app struct {
	ctx         context.Context
	stdout      io.Writer
	stderr      io.Writer
	loadConfig  func() (*config.Config, error)
	newTool     func(buildtool.Options) (buildtool.Tool, error)
	newUploader func(ctx context.Context, cfg *artifacts.Config) (uploader, error)
	lookPath    func(file string) (string, error)
}

func defaultApp(ctx context.Context) *app {
	return &app{
		ctx:        ctx,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		loadConfig: config.LoadConfig,
		newTool:    buildtool.New,
		newUploader: func(ctx context.Context, cfg *artifacts.Config) (uploader, error) {
			return artifacts.NewS3Manager(ctx, cfg)
		},
		lookPath: exec.LookPath,
	}
}

// NewRootCommand creates the root command
func NewRootCommand(ctx context.Context) *Command {
	return newRootCommand(defaultApp(ctx))
}

func newRootCommand(a *app) *Command {
	root := &Command{
		Name:        "xviz-recipe",
		Description: "Build recipe for the xviz library",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("xviz-recipe", flag.ContinueOnError),
	}

	for _, cmd := range []*Command{
		a.newResolveCommand(),
		a.newGenerateCommand(),
		a.newBuildCommand(),
		a.newCreateCommand(),
		a.newTestPackageCommand(),
		a.newUploadCommand(),
		a.newWatchCommand(),
		a.newDoctorCommand(),
	} {
		root.Subcommands[cmd.Name] = cmd
	}

	return root
}

// Execute runs the command with the process arguments
func (c *Command) Execute() error {
	return c.ExecuteArgs(os.Args[1:])
}

// ExecuteArgs runs the subcommand named by args[0]
func (c *Command) ExecuteArgs(args []string) error {
	if len(args) == 0 {
		return c.usage(os.Stdout)
	}

	if args[0] == "-h" || args[0] == "--help" {
		return c.usage(os.Stdout)
	}

	if subcmd, ok := c.Subcommands[args[0]]; ok {
		return subcmd.Run(args[1:])
	}

	return fmt.Errorf("unknown command: %s", args[0])
}

// usage prints the command usage
func (c *Command) usage(w io.Writer) error {
	fmt.Fprintf(w, "Usage: %s <command> [args]\n\n", c.Name)
	fmt.Fprintf(w, "Commands:\n")
	names := make([]string, 0, len(c.Subcommands))
	for name := range c.Subcommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-15s %s\n", name, c.Subcommands[name].Description)
	}
	return nil
}
