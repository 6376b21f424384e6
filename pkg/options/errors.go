package options

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOption is returned when an option is not declared by the schema
	ErrUnknownOption = errors.New("unknown option")

	// ErrInvalidOptionValue is returned when a value is outside an option's domain
	ErrInvalidOptionValue = errors.New("invalid option value")

	// ErrUnknownSetting is returned for a settings key other than os, compiler, build_type or arch
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrMissingSetting is returned when a required setting is empty
	ErrMissingSetting = errors.New("missing setting")
)

// IsUnknownOptionError checks if the error is or wraps ErrUnknownOption
func IsUnknownOptionError(err error) bool {
	return errors.Is(err, ErrUnknownOption)
}

// IsInvalidOptionValueError checks if the error is or wraps ErrInvalidOptionValue
func IsInvalidOptionValueError(err error) bool {
	return errors.Is(err, ErrInvalidOptionValue)
}

// NewUnknownOptionError names the offending option
func NewUnknownOptionError(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownOption, name)
}

// NewInvalidOptionValueError names the option and the rejected value
func NewInvalidOptionValueError(name string, value interface{}) error {
	return fmt.Errorf("%w: %s=%v", ErrInvalidOptionValue, name, value)
}

// NewMissingSettingError names the empty setting
func NewMissingSettingError(key string) error {
	return fmt.Errorf("%w: %s", ErrMissingSetting, key)
}
