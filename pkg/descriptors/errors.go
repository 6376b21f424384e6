package descriptors

import (
	"errors"
	"fmt"
)

var (
	// ErrGeneratorNotFound is returned for an unregistered generator name
	ErrGeneratorNotFound = errors.New("descriptor generator not found")

	// ErrTemplateExecutionFailed is returned when a descriptor cannot be rendered
	ErrTemplateExecutionFailed = errors.New("failed to render descriptor")

	// ErrMissingRequiredField is returned when a request lacks the resolution
	// or another input a generator needs
	ErrMissingRequiredField = errors.New("descriptor request is incomplete")
)

// IsGeneratorNotFoundError checks if the error is or wraps ErrGeneratorNotFound
func IsGeneratorNotFoundError(err error) bool {
	return errors.Is(err, ErrGeneratorNotFound)
}

// NewGeneratorNotFoundError names the generator that was asked for
func NewGeneratorNotFoundError(name string) error {
	return fmt.Errorf("%w: %s", ErrGeneratorNotFound, name)
}

// NewTemplateExecutionFailedError names the descriptor that failed and keeps the cause
func NewTemplateExecutionFailedError(descriptor string, cause error) error {
	return fmt.Errorf("%w %s: %w", ErrTemplateExecutionFailed, descriptor, cause)
}

// NewMissingRequiredFieldError names the missing input
func NewMissingRequiredFieldError(field string) error {
	return fmt.Errorf("%w: %s missing", ErrMissingRequiredField, field)
}
