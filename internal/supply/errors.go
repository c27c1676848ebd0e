package supply

import (
	"fmt"

	"github.com/synaptrix4/skillatics-io/internal/apperr"
)

// GenerationError is returned when no configured model produced usable
// questions. Err is the failure of the last model tried.
type GenerationError struct {
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("question generation failed (model %s): %v", e.Model, e.Err)
}

// Unwrap exposes both the cause and the upstream kind, so callers can use
// errors.Is(err, apperr.ErrUpstream).
func (e *GenerationError) Unwrap() []error {
	return []error{e.Err, apperr.ErrUpstream}
}
