package version

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/platinummonkey/xviz-recipe/pkg/observability"
)

// CommandFunc runs an external command in dir and returns its stdout and stderr
type CommandFunc func(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)

// GitTagResolver derives the version from a tag pointing exactly at HEAD.
// Every failure falls back to Fallback; Resolve never returns an error.
type GitTagResolver struct {
	Dir      string
	Fallback string
	Run      CommandFunc
	// Logger defaults to the context logger
	Logger *observability.Logger
}

// NewGitTagResolver creates a resolver for the repository containing dir
func NewGitTagResolver(dir string, logger *observability.Logger) *GitTagResolver {
	return &GitTagResolver{
		Dir:      dir,
		Fallback: DefaultVersion,
		Run:      execCommand,
		Logger:   logger,
	}
}

// Resolve returns the exact tag at HEAD or the fallback version
func (r *GitTagResolver) Resolve(ctx context.Context) (Result, error) {
	fallback := r.Fallback
	if fallback == "" {
		fallback = DefaultVersion
	}
	logger := r.Logger
	if logger == nil {
		logger = observability.FromContext(ctx)
	}
	run := r.Run
	if run == nil {
		run = execCommand
	}

	stdout, stderr, err := run(ctx, r.Dir, "git", "describe", "--tags", "--exact-match")
	tag := strings.TrimSpace(string(stdout))
	if err == nil && tag != "" {
		logger.WithField("tag", tag).Debug("version resolved from tag")
		return Result{Version: tag, Method: MethodVCSTag}, nil
	}

	entry := logger.WithField("fallback", fallback)
	if err != nil {
		entry = entry.WithError(err)
	}
	if isUntagged(stderr) {
		entry.Debug("no tag at current revision, using fallback version")
	} else {
		entry.WithField("stderr", strings.TrimSpace(string(stderr))).Warn("git describe failed, using fallback version")
	}

	return Result{Version: fallback, Method: MethodStaticFallback}, nil
}

// isUntagged distinguishes an intentionally untagged revision from a broken
// or missing repository. Only the log level depends on it.
func isUntagged(stderr []byte) bool {
	msg := strings.ToLower(string(stderr))
	return strings.Contains(msg, "no tag exactly matches") ||
		strings.Contains(msg, "no names found")
}

func execCommand(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
