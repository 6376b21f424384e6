package buildtool

import (
	"errors"
	"fmt"
)

var (
	// ErrStepFailed is returned when the build tool exits unsuccessfully
	ErrStepFailed = errors.New("build tool step failed")

	// ErrDockerNotAvailable is returned when the Docker daemon cannot be reached
	ErrDockerNotAvailable = errors.New("docker is not available")

	// ErrImagePullFailed is returned when the toolchain image cannot be pulled
	ErrImagePullFailed = errors.New("failed to pull toolchain image")

	// ErrMissingInstallDir is returned when Install is called without a destination
	ErrMissingInstallDir = errors.New("install directory not set")

	// ErrUnknownTool is returned for an unsupported tool kind
	ErrUnknownTool = errors.New("unknown build tool")
)

// IsStepFailedError checks if the error is or wraps ErrStepFailed
func IsStepFailedError(err error) bool {
	return errors.Is(err, ErrStepFailed)
}

// NewStepFailedError wraps the failure of one step
func NewStepFailedError(step string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrStepFailed, step, cause)
}

// NewUnknownToolError names the unsupported tool
func NewUnknownToolError(kind string) error {
	return fmt.Errorf("%w: %q (expected cmake or docker)", ErrUnknownTool, kind)
}
