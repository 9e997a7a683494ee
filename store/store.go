package store

import "context"

// Model is a record exposing a read/write identity.
// Implementations must be pointer types so SetID and decoding can mutate them.
type Model[ID comparable] interface {
	GetID() ID
	SetID(id ID)
}

// Assigner lets a model control how incoming values overwrite its fields.
// When absent, ApplyValues falls back to a JSON overwrite.
type Assigner[M any] interface {
	Assign(src M)
}

// Store is one collection of models in a persistence backend.
// It is safe for concurrent use; each request works through its own Session.
type Store[M Model[ID], ID comparable] interface {
	// Collection returns the collection name.
	Collection() string

	// Session opens a unit of work. Sessions are not shared between requests.
	Session() Session[M, ID]
}

// Session stages changes and applies them atomically on Commit.
// Reads always observe committed state only.
type Session[M Model[ID], ID comparable] interface {
	// All returns every committed model in insertion order.
	All(ctx context.Context) ([]M, error)

	// Find returns the committed model with the given identity.
	// Returns ErrNotFound if it does not exist.
	Find(ctx context.Context, id ID) (M, error)

	// Insert stages a new model. A zero identity is filled by the
	// store's ID generator, if one is configured.
	Insert(m M)

	// Remove stages the deletion of a model.
	Remove(m M)

	// ApplyCurrentValues overwrites target's values with source's,
	// keeping target's identity, and stages target as modified.
	ApplyCurrentValues(target, source M) error

	// Commit applies staged changes atomically.
	Commit(ctx context.Context) error
}
