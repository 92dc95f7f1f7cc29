package contest

import "errors"

var (
	ErrNotFound          = errors.New("contest not found")
	ErrForbidden         = errors.New("not allowed for this contest")
	ErrValidation        = errors.New("validation error")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotEditable       = errors.New("contest is no longer editable")
)
