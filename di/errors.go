package di

import "errors"

var (
	ErrNotRegistered   = errors.New("di: service not registered")
	ErrDuplicate       = errors.New("di: service already registered")
	ErrCycle           = errors.New("di: dependency cycle")
	ErrTypeMismatch    = errors.New("di: resolved value has unexpected type")
	ErrInvalidProvider = errors.New("di: invalid provider")
	ErrScopeClosed     = errors.New("di: scope closed")
	ErrNoScope         = errors.New("di: no scope in context")

	// ErrCaptiveDependency is returned when a singleton depends on a
	// scoped service.
	ErrCaptiveDependency = errors.New("di: singleton depends on scoped service")
)
