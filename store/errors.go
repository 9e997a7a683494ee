package store

import "errors"

var (
	ErrNotFound        = errors.New("store: entity not found")
	ErrDuplicate       = errors.New("store: entity already exists")
	ErrEncode          = errors.New("store: failed to encode entity")
	ErrDecode          = errors.New("store: failed to decode entity")
	ErrInvalidID       = errors.New("store: invalid identity")
	ErrEmptyCollection = errors.New("store: empty collection name")
)
