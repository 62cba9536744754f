package integration

import "errors"

var (
	ErrNotFound          = errors.New("integration not found")
	ErrInvalidProvider   = errors.New("invalid provider")
	ErrInvalidAPIURL     = errors.New("invalid api url")
	ErrInvalidTransition = errors.New("invalid status transition")
)
