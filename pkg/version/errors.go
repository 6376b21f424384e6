package version

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingVersionOverride is returned when the consumer version variable is unset
	ErrMissingVersionOverride = errors.New("required version override is not set")

	// ErrEmptyVersion is returned when an explicit version is empty
	ErrEmptyVersion = errors.New("version cannot be empty")
)

// IsMissingVersionOverrideError checks if the error is or wraps ErrMissingVersionOverride
func IsMissingVersionOverrideError(err error) bool {
	return errors.Is(err, ErrMissingVersionOverride)
}

// NewMissingVersionOverrideError names the environment variable that must be set
func NewMissingVersionOverrideError(key string) error {
	return fmt.Errorf("%w: set %s to the package version under test", ErrMissingVersionOverride, key)
}
