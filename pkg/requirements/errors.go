package requirements

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidReference is returned for a malformed package reference
	ErrInvalidReference = errors.New("invalid package reference")

	// ErrConflictingOverride is returned when two rules force different values
	// onto the same option of the same dependency
	ErrConflictingOverride = errors.New("conflicting sub-option override")

	// ErrConflictingVersion is returned when a dependency is required at two versions
	ErrConflictingVersion = errors.New("conflicting dependency version")

	// ErrUnknownDependency is returned when an override targets a package that is not required
	ErrUnknownDependency = errors.New("override targets a dependency that is not required")
)

// IsConflictingOverrideError checks if the error is or wraps ErrConflictingOverride
func IsConflictingOverrideError(err error) bool {
	return errors.Is(err, ErrConflictingOverride)
}

// IsConflictingVersionError checks if the error is or wraps ErrConflictingVersion
func IsConflictingVersionError(err error) bool {
	return errors.Is(err, ErrConflictingVersion)
}

// NewInvalidReferenceError creates an invalid reference error with the offending text
func NewInvalidReferenceError(ref string) error {
	return fmt.Errorf("%w: %q (expected name/version[@user/channel])", ErrInvalidReference, ref)
}

// NewConflictingOverrideError names the dependency, option and both values
func NewConflictingOverrideError(pkg, key, existing, value string) error {
	return fmt.Errorf("%w: %s:%s is %q, cannot also be %q", ErrConflictingOverride, pkg, key, existing, value)
}

// NewConflictingVersionError names the dependency and both versions
func NewConflictingVersionError(pkg, existing, version string) error {
	return fmt.Errorf("%w: %s required as %s and %s", ErrConflictingVersion, pkg, existing, version)
}

// NewUnknownDependencyError names the package an override was written onto
func NewUnknownDependencyError(pkg, key string) error {
	return fmt.Errorf("%w: %s:%s", ErrUnknownDependency, pkg, key)
}
