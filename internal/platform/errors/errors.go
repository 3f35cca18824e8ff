package apperrors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrDuplicateSession  = errors.New("session already recorded")
	ErrSessionClosed     = errors.New("session closed")
	ErrCorruptProfile    = errors.New("corrupt profile")
)
