package lifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when a state does not follow the current one
	ErrInvalidTransition = errors.New("invalid lifecycle transition")

	// ErrInvalidRequest is returned for an incomplete request
	ErrInvalidRequest = errors.New("invalid lifecycle request")
)

// StepError reports the state whose delegated work failed
type StepError struct {
	State State
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.State, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedState returns the state a run failed in, if err carries one
func FailedState(err error) (State, bool) {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.State, true
	}
	return "", false
}

// NewInvalidTransitionError names both states
func NewInvalidTransitionError(from, to State) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// NewInvalidRequestError names the missing or inconsistent field
func NewInvalidRequestError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, reason)
}
