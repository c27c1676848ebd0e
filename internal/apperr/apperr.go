package apperr

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the assessment core. Callers wrap them with
// fmt.Errorf("...: %w", Kind) and test with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("stale session")
	ErrUpstream   = errors.New("upstream failure")
	ErrExhausted  = errors.New("no questions available")
)

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

func Validation(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

func Conflict(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}

func Upstream(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrUpstream)
}

func Exhausted(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrExhausted)
}

// Kind returns the sentinel kind carried by err, or nil when err is not
// one of ours.
func Kind(err error) error {
	for _, k := range []error{ErrNotFound, ErrValidation, ErrConflict, ErrUpstream, ErrExhausted} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
