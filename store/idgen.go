package store

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Integer is the set of identity types Sequence can generate.
type Integer interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

// Sequence returns a process-local generator yielding start, start+1, ...
// It does not survive restarts; persistent stores with integer identities
// should seed it past the highest stored identity.
func Sequence[ID Integer](start ID) func() ID {
	var n atomic.Int64
	n.Store(int64(start) - 1)
	return func() ID {
		return ID(n.Add(1))
	}
}

// UUIDGenerator returns a generator of time-ordered (v7) UUIDs.
func UUIDGenerator() func() uuid.UUID {
	return func() uuid.UUID {
		return uuid.Must(uuid.NewV7())
	}
}

// UUIDStringGenerator is UUIDGenerator for string identities.
func UUIDStringGenerator() func() string {
	gen := UUIDGenerator()
	return func() string {
		return gen().String()
	}
}
