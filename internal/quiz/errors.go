package quiz

import (
	"errors"
	"fmt"
)

// ErrNotFound means the source has no quiz (or no questions) for an id.
var ErrNotFound = errors.New("quiz not found")

// ErrInvalidTransition marks an operation rejected by the state machine.
// The state it was applied to is returned unchanged.
var ErrInvalidTransition = errors.New("invalid quiz transition")

// LoadError wraps a failure to load a quiz from its source.
type LoadError struct {
	QuizID string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load quiz %q: %v", e.QuizID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// NotFound reports whether the load failed because no quiz exists.
func (e *LoadError) NotFound() bool {
	return errors.Is(e.Err, ErrNotFound)
}

func rejectf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...))
}
