package registry

import (
	"errors"

	"github.com/dmitrymomot/crudforge/crud"
)

var (
	ErrDuplicateEntry     = errors.New("registry: duplicate entry")
	ErrInvalidEntry       = errors.New("registry: invalid entry")
	ErrSealed             = errors.New("registry: services already registered")
	ErrNotRegistered      = errors.New("registry: services not registered")
	ErrDuplicateBasePath  = errors.New("registry: duplicate controller base path")
	ErrUnknownController  = errors.New("registry: unknown controller")
	ErrUnexpectedInstance = errors.New("registry: factory returned an unexpected type")

	// ErrUnknownModule is returned when a controller includes a module no
	// endpoint was registered in.
	ErrUnknownModule = crud.ErrUnknownModule
)
