package payment

import "errors"

var (
	ErrNotFound            = errors.New("contest not found")
	ErrInvalidState        = errors.New("contest is not open for registration")
	ErrDeadlinePassed      = errors.New("contest deadline has passed")
	ErrAlreadyRegistered   = errors.New("user already registered for this contest")
	ErrPaymentNotCompleted = errors.New("payment has not completed")
	ErrBelowMinimum        = errors.New("amount is below the minimum withdrawal")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrVerificationFailed  = errors.New("withdrawal verification failed")
)
