package domain

import "errors"

// Sentinel errors shared across services. Controllers map these to HTTP
// status codes; the messages are the user-visible failure reasons.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("you do not have permission to perform this action")
	ErrInvalidInput = errors.New("invalid input")
)
