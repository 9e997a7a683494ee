package crud

import "errors"

var (
	ErrUnknownOperation = errors.New("crud: unknown operation")
	ErrAlreadyMapped    = errors.New("crud: controller already mapped")
	ErrNotConfigured    = errors.New("crud: controller not configured")
	ErrUnknownModule    = errors.New("crud: unknown endpoint module")
	ErrNotEndpoint      = errors.New("crud: resolved value is not an endpoint")
)
