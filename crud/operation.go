package crud

import (
	"fmt"
	"strings"
)

// Operation is a generated CRUD operation kind.
type Operation uint8

const (
	// List returns every entity.
	List Operation = iota + 1
	// GetByID returns one entity by identity.
	GetByID
	// Create inserts an entity.
	Create
	// Update overwrites an existing entity.
	Update
	// Delete removes an entity.
	Delete
	// All addresses every operation at once.
	All
)

// Operations returns the generated operations in mapping order.
func Operations() []Operation {
	return []Operation{List, GetByID, Create, Update, Delete}
}

// Valid reports whether o is a declared operation kind, All included.
func (o Operation) Valid() bool {
	return o >= List && o <= All
}

func (o Operation) String() string {
	switch o {
	case List:
		return "list"
	case GetByID:
		return "get"
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	case All:
		return "all"
	default:
		return fmt.Sprintf("operation(%d)", uint8(o))
	}
}

// ParseOperation parses an operation name. Matching is case-insensitive;
// "getbyid" and "get_by_id" are accepted as aliases of "get".
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "list":
		return List, nil
	case "get", "getbyid", "get_by_id":
		return GetByID, nil
	case "create":
		return Create, nil
	case "update":
		return Update, nil
	case "delete":
		return Delete, nil
	case "all", "*":
		return All, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

// MarshalText implements encoding.TextMarshaler.
func (o Operation) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOperation, uint8(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so operations can be
// read from YAML and JSON configuration.
func (o *Operation) UnmarshalText(text []byte) error {
	op, err := ParseOperation(string(text))
	if err != nil {
		return err
	}
	*o = op
	return nil
}
