package auth

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrAdminMismatch   = errors.New("stored admin role does not match configured admin identity")
	ErrBanned          = errors.New("account is banned")
	ErrNotFound        = errors.New("user not found")
	ErrRequestPending  = errors.New("creator request already pending")
	ErrAlreadyCreator  = errors.New("user is already a creator")
	ErrInvalidStatus   = errors.New("invalid creator status transition")
	ErrForbidden       = errors.New("operation not permitted")
)
