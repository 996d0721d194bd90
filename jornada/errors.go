package jornada

import "errors"

var (
	ErrInvalidInterval   = errors.New("invalid interval: end precedes start or crosses midnight")
	ErrAlreadyActive     = errors.New("a session is already active for this day")
	ErrNoActiveSession   = errors.New("no active session for this day")
	ErrDivisionUndefined = errors.New("daily average undefined: no worked days")

	ErrNotFound      = errors.New("not found")
	ErrSessionClosed = errors.New("session already closed")
)
