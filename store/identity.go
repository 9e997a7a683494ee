package store

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
)

// FormatID renders an identity as text, the form used in URLs and as
// storage keys.
func FormatID[ID comparable](id ID) string {
	switch v := any(id).(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case encoding.TextMarshaler:
		if b, err := v.MarshalText(); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(id)
}

// ParseID parses the textual form of an identity.
// Supports string and integer kinds, and types implementing
// encoding.TextUnmarshaler (e.g. uuid.UUID).
func ParseID[ID comparable](s string) (ID, error) {
	var id ID

	if u, ok := any(&id).(encoding.TextUnmarshaler); ok {
		if err := u.UnmarshalText([]byte(s)); err != nil {
			return id, fmt.Errorf("%w: %q: %w", ErrInvalidID, s, err)
		}
		return id, nil
	}

	v := reflect.ValueOf(&id).Elem()
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return id, fmt.Errorf("%w: %q", ErrInvalidID, s)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return id, fmt.Errorf("%w: %q", ErrInvalidID, s)
		}
		v.SetUint(n)
	default:
		return id, fmt.Errorf("%w: unsupported identity type %T", ErrInvalidID, id)
	}
	return id, nil
}

// IsZero reports whether id is the zero value of its type.
func IsZero[ID comparable](id ID) bool {
	var zero ID
	return id == zero
}
