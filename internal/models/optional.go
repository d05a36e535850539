// ABOUTME: Tri-state optional value for partial updates.
// ABOUTME: Separates "not mentioned" from "explicitly null" from "set to a value".

package models

import (
	"bytes"
	"encoding/json"
)

// Optional is unset by default. Set and Null build the other two states.
// In JSON an absent key stays unset, `null` becomes Null, anything else Set.
type Optional[T any] struct {
	set   bool
	valid bool
	value T
}

func Set[T any](v T) Optional[T] {
	return Optional[T]{set: true, valid: true, value: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{set: true}
}

// IsSet reports whether the caller mentioned the field at all.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// IsNull reports an explicit clear.
func (o Optional[T]) IsNull() bool {
	return o.set && !o.valid
}

// Get returns the value and whether one is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.valid
}

// IsZero lets encoding/json omit unset fields with `omitzero`.
func (o Optional[T]) IsZero() bool {
	return !o.set
}

// Apply merges the patch into cur: unset keeps cur, null clears it,
// a value replaces it.
func (o Optional[T]) Apply(cur *T) *T {
	switch {
	case !o.set:
		return cur
	case !o.valid:
		return nil
	default:
		v := o.value
		return &v
	}
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.valid = false
		o.value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.value); err != nil {
		return err
	}
	o.valid = true
	return nil
}
