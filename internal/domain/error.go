package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotAuthorized   = errors.New("not authorized for this action")
	ErrResolution      = errors.New("intent resolution failed")
)
