package recipe

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSettings is returned when the platform settings are incomplete
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrInvalidOptions is returned when user option overrides cannot be applied
	ErrInvalidOptions = errors.New("invalid options")

	// ErrVersionResolution is returned when the version resolver fails
	ErrVersionResolution = errors.New("version resolution failed")

	// ErrRequirementResolution is returned when the requirement graph cannot be built
	ErrRequirementResolution = errors.New("requirement resolution failed")
)

// IsConfigurationError reports whether err is a fatal configuration error
// raised before any external tool was involved
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidSettings) ||
		errors.Is(err, ErrInvalidOptions) ||
		errors.Is(err, ErrVersionResolution) ||
		errors.Is(err, ErrRequirementResolution)
}

func wrap(kind error, recipe string, err error) error {
	return fmt.Errorf("%w for %s: %w", kind, recipe, err)
}
