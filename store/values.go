package store

import (
	"encoding/json"
	"errors"
	"reflect"
)

// ApplyValues overwrites target's field values with source's while keeping
// target's identity. Models implementing Assigner decide for themselves;
// others are replaced by a fresh decode of source's JSON representation, so
// fields source leaves empty are cleared rather than merged.
func ApplyValues[M Model[ID], ID comparable](target, source M) error {
	id := target.GetID()

	if a, ok := any(target).(Assigner[M]); ok {
		a.Assign(source)
		target.SetID(id)
		return nil
	}

	dst := reflect.ValueOf(target)
	if dst.Kind() != reflect.Pointer || dst.IsNil() {
		return errors.Join(ErrDecode, errors.New("target must be a non-nil pointer"))
	}

	data, err := json.Marshal(source)
	if err != nil {
		return errors.Join(ErrEncode, err)
	}
	fresh, err := Decode[M](data)
	if err != nil {
		return err
	}

	if src := reflect.ValueOf(fresh); src.Kind() == reflect.Pointer && !src.IsNil() {
		dst.Elem().Set(src.Elem())
	} else {
		dst.Elem().SetZero()
	}
	target.SetID(id)
	return nil
}

// Encode serializes a model for storage.
func Encode[M any](m M) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	return data, nil
}

// Decode deserializes a stored model into a fresh value.
func Decode[M any](data []byte) (M, error) {
	var m M
	if err := json.Unmarshal(data, &m); err != nil {
		return m, errors.Join(ErrDecode, err)
	}
	return m, nil
}
