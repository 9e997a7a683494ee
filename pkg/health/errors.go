package health

import "errors"

var (
	// ErrCheckFailed leads the error Evaluate returns when a backend check fails.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout marks a check that outlived the readiness timeout.
	ErrCheckTimeout = errors.New("health: check timed out")
)
