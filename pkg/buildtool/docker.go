package buildtool

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/sirupsen/logrus"
)

// DefaultImage ships cmake, ctest and a C++ toolchain
const DefaultImage = "xviz/toolchain:latest"

// DefaultMemoryLimit is applied when DockerTool.MemoryLimit is zero
const DefaultMemoryLimit int64 = 2 * 1024 * 1024 * 1024

// Mount points inside the container
const (
	containerSource     = "/workspace/src"
	containerBuild      = "/workspace/build"
	containerGenerators = "/workspace/generators"
	containerPackage    = "/workspace/package"
)

// dockerAPI is the subset of the Docker client used by DockerTool
type dockerAPI interface {
	ImageInspect(ctx context.Context, imageID string, opts ...client.ImageInspectOption) (image.InspectResponse, error)
	ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	Close() error
}

var _ dockerAPI = (*client.Client)(nil)

// DockerTool runs cmake and ctest inside a toolchain container. The source
// tree is mounted read-only; build, generators and install directories are
// mounted read-write.
type DockerTool struct {
	client      dockerAPI
	Image       string
	MemoryLimit int64
	Logger      *logrus.Logger
	pulled      map[string]bool
}

// NewDockerTool connects to the Docker daemon from the environment
func NewDockerTool(imageRef string, memoryLimit int64, logger *logrus.Logger) (*DockerTool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDockerNotAvailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil, fmt.Errorf("%w: %w", ErrDockerNotAvailable, err)
	}

	return newDockerTool(cli, imageRef, memoryLimit, logger), nil
}

func newDockerTool(api dockerAPI, imageRef string, memoryLimit int64, logger *logrus.Logger) *DockerTool {
	if imageRef == "" {
		imageRef = DefaultImage
	}
	if memoryLimit == 0 {
		memoryLimit = DefaultMemoryLimit
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &DockerTool{
		client:      api,
		Image:       imageRef,
		MemoryLimit: memoryLimit,
		Logger:      logger,
		pulled:      make(map[string]bool),
	}
}

// Configure runs the configure step in the container
func (t *DockerTool) Configure(ctx context.Context, p *Project) error {
	return t.run(ctx, StepConfigure, p, func(q *Project) []string {
		return append([]string{"cmake"}, ConfigureArgs(q, containerPaths(q))...)
	})
}

// Build runs the build step in the container
func (t *DockerTool) Build(ctx context.Context, p *Project) error {
	return t.run(ctx, StepBuild, p, func(q *Project) []string {
		return append([]string{"cmake"}, BuildArgs(q, containerPaths(q))...)
	})
}

// Test runs ctest in the container
func (t *DockerTool) Test(ctx context.Context, p *Project, verbose bool) error {
	return t.run(ctx, StepTest, p, func(q *Project) []string {
		return append([]string{"ctest"}, TestArgs(q, verbose, containerPaths(q))...)
	})
}

// Install runs the install step with the install directory mounted
func (t *DockerTool) Install(ctx context.Context, p *Project) error {
	if p.InstallDir == "" {
		return ErrMissingInstallDir
	}
	return t.run(ctx, StepInstall, p, func(q *Project) []string {
		return append([]string{"cmake"}, InstallArgs(q, containerPaths(q))...)
	})
}

// Close releases the Docker client
func (t *DockerTool) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

func (t *DockerTool) pull(ctx context.Context) error {
	if t.pulled[t.Image] {
		return nil
	}
	if _, err := t.client.ImageInspect(ctx, t.Image); err == nil {
		t.pulled[t.Image] = true
		return nil
	}

	reader, err := t.client.ImagePull(ctx, t.Image, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrImagePullFailed, t.Image, err)
	}
	defer reader.Close()
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrImagePullFailed, t.Image, err)
	}

	t.pulled[t.Image] = true
	return nil
}

func (t *DockerTool) run(ctx context.Context, step string, p *Project, command func(*Project) []string) error {
	p, err := absProject(p)
	if err != nil {
		return NewStepFailedError(step, err)
	}
	if err := t.pull(ctx); err != nil {
		return NewStepFailedError(step, err)
	}
	cmd := command(p)

	entry := t.Logger.WithFields(logrus.Fields{"step": step, "image": t.Image})
	entry.WithField("cmd", cmd).Debug("running build tool in container")

	resp, err := t.client.ContainerCreate(ctx, &container.Config{
		Image:        t.Image,
		Cmd:          cmd,
		WorkingDir:   containerBuild,
		AttachStdout: true,
		AttachStderr: true,
	}, &container.HostConfig{
		Binds: binds(p),
		Resources: container.Resources{
			Memory: t.MemoryLimit,
		},
	}, nil, nil, "")
	if err != nil {
		return NewStepFailedError(step, err)
	}
	defer t.client.ContainerRemove(context.Background(), resp.ID, container.RemoveOptions{Force: true})

	if err := t.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return NewStepFailedError(step, err)
	}

	var exitCode int64
	statusCh, errCh := t.client.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		if err != nil {
			return NewStepFailedError(step, err)
		}
	case status := <-statusCh:
		exitCode = status.StatusCode
	case <-ctx.Done():
		return NewStepFailedError(step, ctx.Err())
	}

	if logs, err := t.client.ContainerLogs(ctx, resp.ID, container.LogsOptions{ShowStdout: true, ShowStderr: true}); err == nil {
		stdout := entry.WriterLevel(logrus.InfoLevel)
		stderr := entry.WriterLevel(logrus.WarnLevel)
		_, _ = stdcopy.StdCopy(stdout, stderr, logs)
		stdout.Close()
		stderr.Close()
		logs.Close()
	}

	if exitCode != 0 {
		return NewStepFailedError(step, fmt.Errorf("exit code %d", exitCode))
	}
	return nil
}

// absProject returns a copy of p with every host path made absolute.
// Bind mounts only accept absolute host paths.
func absProject(p *Project) (*Project, error) {
	q := *p
	for _, path := range []*string{&q.SourceDir, &q.BuildDir, &q.GeneratorsDir, &q.ToolchainFile, &q.InstallDir} {
		if *path == "" {
			continue
		}
		abs, err := filepath.Abs(*path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", *path, err)
		}
		*path = abs
	}
	return &q, nil
}

func binds(p *Project) []string {
	b := []string{
		p.SourceDir + ":" + containerSource + ":ro",
		p.BuildDir + ":" + containerBuild,
	}
	if p.GeneratorsDir != "" && !within(p.BuildDir, p.GeneratorsDir) {
		b = append(b, p.GeneratorsDir+":"+containerGenerators)
	}
	if p.InstallDir != "" {
		b = append(b, p.InstallDir+":"+containerPackage)
	}
	return b
}

// containerPaths maps host paths below one of the mounted directories to
// their location inside the container. The longest matching mount wins.
func containerPaths(p *Project) PathMapper {
	mounts := []struct{ host, target string }{
		{p.GeneratorsDir, containerGenerators},
		{p.InstallDir, containerPackage},
		{p.BuildDir, containerBuild},
		{p.SourceDir, containerSource},
	}
	if within(p.BuildDir, p.GeneratorsDir) {
		mounts[0].host = ""
	}

	return func(hostPath string) string {
		best, target := "", ""
		for _, m := range mounts {
			if m.host == "" || !within(m.host, hostPath) {
				continue
			}
			if len(m.host) > len(best) {
				best, target = m.host, m.target
			}
		}
		if best == "" {
			return hostPath
		}
		rel, _ := filepath.Rel(best, hostPath)
		return filepath.ToSlash(filepath.Join(target, rel))
	}
}

func within(dir, path string) bool {
	if dir == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
