package submission

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrNotRegistered    = errors.New("user is not registered for this contest")
	ErrDeadlinePassed   = errors.New("submission deadline has passed")
	ErrAlreadySubmitted = errors.New("user has already submitted to this contest")
	ErrAlreadyDeclared  = errors.New("winners have already been declared for this contest")
	ErrTooEarly         = errors.New("cannot declare winners before the deadline")
	ErrInvalidState     = errors.New("contest is not in a valid state for this operation")
	ErrBadRunnerUp      = errors.New("runner-up submission is invalid")
)
