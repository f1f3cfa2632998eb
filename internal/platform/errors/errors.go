package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNoActiveSession     = errors.New("no active session")
	ErrActiveSessionExists = errors.New("active session already exists")
	ErrNoBankAccount       = errors.New("no bank account connected")
	ErrClosed              = errors.New("tracker is closed")
)
