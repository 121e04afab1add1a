package schema

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"
)

var jsonNull = []byte("null")

// NullableTime is a date field that tells an absent key (Set == false) apart from an
// explicit null (Set == true, Valid == false). Any date-coercible string is accepted.
type NullableTime struct {
	Set   bool
	Valid bool
	Time  time.Time

	raw any
}

// NullTime returns an explicit null.
func NullTime() NullableTime {
	return NullableTime{Set: true}
}

// SomeTime returns a set, non-null value.
func SomeTime(t time.Time) NullableTime {
	return NullableTime{Set: true, Valid: true, Time: t.UTC()}
}

// UnmarshalJSON records the raw value; coercion happens in resolve so that a bad
// date shows up as a field error instead of aborting the whole decode.
func (n *NullableTime) UnmarshalJSON(b []byte) error {
	n.Set = true
	n.Valid = false
	n.raw = nil
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		return nil
	}
	return json.Unmarshal(b, &n.raw)
}

// MarshalJSON writes null or an RFC 3339 timestamp. Use with `omitzero` to drop unset values.
func (n NullableTime) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return jsonNull, nil
	}
	return json.Marshal(n.Time.UTC().Format(time.RFC3339Nano))
}

// IsZero reports whether the key was absent.
func (n NullableTime) IsZero() bool {
	return !n.Set
}

// Ptr returns nil for null/absent values.
func (n NullableTime) Ptr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

func (n *NullableTime) resolve(field string, verr *ValidationError) {
	if !n.Set || n.raw == nil {
		return
	}
	s, ok := n.raw.(string)
	if !ok {
		verr.add(field, "date", "must be a date string or null")
		return
	}
	t, err := cast.ToTimeE(strings.TrimSpace(s))
	if err != nil {
		verr.add(field, "date", "must be a valid date")
		return
	}
	n.Valid = true
	n.Time = t.UTC()
}

// Nullable is an optional JSON value that may also be an explicit null.
// A value of the wrong JSON type is recorded and reported by check instead of
// aborting the decode.
type Nullable[T any] struct {
	Set   bool
	Valid bool
	Value T

	mistyped bool
}

// Some returns a set, non-null value.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Valid: true, Value: v}
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	var zero T
	n.Set = true
	n.Valid = false
	n.mistyped = false
	n.Value = zero
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		return nil
	}
	if err := json.Unmarshal(b, &n.Value); err != nil {
		n.Value = zero
		n.mistyped = true
		return nil
	}
	n.Valid = true
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return jsonNull, nil
	}
	return json.Marshal(n.Value)
}

func (n Nullable[T]) IsZero() bool {
	return !n.Set
}

// Ptr returns nil for null/absent values.
func (n Nullable[T]) Ptr() *T {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// checkType reports a present key of the wrong JSON type. Null is accepted.
func (n Nullable[T]) checkType(field string, verr *ValidationError) bool {
	if n.mistyped {
		verr.add(field, "type", "must be of type "+jsonKind(reflect.TypeFor[T]()))
		return false
	}
	return true
}

// check is checkType for fields that may be omitted but not null.
// It returns true when the value is absent or usable.
func (n Nullable[T]) check(field string, verr *ValidationError) bool {
	if !n.Set {
		return true
	}
	if !n.checkType(field, verr) {
		return false
	}
	if !n.Valid {
		verr.add(field, "null", "must not be null")
		return false
	}
	return true
}
