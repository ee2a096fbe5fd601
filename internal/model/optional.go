package model

import "encoding/json"

// Optional wraps a value together with whether it was supplied at all.
//
// When decoding JSON, Set becomes true as soon as the key is present, even
// if its value is null. This lets a partial update tell "leave the field
// alone" apart from "clear the field".
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns an Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Get returns the value and whether it was set
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// IsZero lets the omitzero json option skip unset values
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

// UnmarshalJSON implements json.Unmarshaler
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = v
	o.Set = true
	return nil
}

// MarshalJSON implements json.Marshaler
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

// SchemaType exposes the wrapped type to the OpenAPI schema generator
func (o Optional[T]) SchemaType() any {
	var v T
	return v
}
