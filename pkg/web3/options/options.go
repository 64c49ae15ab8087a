// pkg/web3/options/options.go

// Package options provides the dynamically shaped property bags that every
// web3 config object is built on, plus a generic fluent setter.
package options

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Object is a dynamically typed object keyed by camelCase JSON property names.
type Object map[string]any

// New returns an empty Object.
func New() Object {
	return Object{}
}

// Set assigns key on obj and returns the same handle so calls can be chained.
// A nil handle is allocated on first use.
func Set[T ~map[string]any](obj T, key string, value any) T {
	if obj == nil {
		obj = T{}
	}
	obj[key] = value
	return obj
}

// Get returns the raw value stored under key.
func Get[T ~map[string]any](obj T, key string) (any, bool) {
	if obj == nil {
		return nil, false
	}
	v, ok := obj[key]
	return v, ok
}

// Has reports whether key is present and not null.
func Has[T ~map[string]any](obj T, key string) bool {
	v, ok := Get(obj, key)
	return ok && v != nil
}

// Delete removes key and returns the same handle.
func Delete[T ~map[string]any](obj T, key string) T {
	delete(obj, key)
	return obj
}

// Merge copies every property of src into dst, overwriting existing keys.
func Merge[T ~map[string]any, S ~map[string]any](dst T, src S) T {
	for k, v := range src {
		dst = Set(dst, k, v)
	}
	return dst
}

// Clone returns a shallow copy.
func Clone[T ~map[string]any](obj T) T {
	if obj == nil {
		return nil
	}
	out := make(T, len(obj))
	for k, v := range obj {
		out[k] = v
	}
	return out
}

// Set is the method form of the generic Set for plain Objects.
func (o Object) Set(key string, value any) Object {
	return Set(o, key, value)
}

// Get is the method form of the generic Get for plain Objects.
func (o Object) Get(key string) (any, bool) {
	return Get(o, key)
}

// Has is the method form of the generic Has for plain Objects.
func (o Object) Has(key string) bool {
	return Has(o, key)
}

// AsObject reports whether v is an object-shaped value and returns it as Object.
func AsObject(v any) (Object, bool) {
	switch t := v.(type) {
	case Object:
		return t, t != nil
	case map[string]any:
		return Object(t), t != nil
	default:
		return nil, false
	}
}

// AsArray reports whether v is an array-shaped value.
func AsArray(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []Object:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	default:
		return nil, false
	}
}

// Decode parses a wire payload into dynamic values. Numbers stay json.Number so
// 64-bit integers survive the round trip.
func Decode(raw []byte) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	return normalize(v), nil
}

// normalize turns decoded map[string]any nodes into Object so callers can use
// one type switch for both host-built and wire-decoded values.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		obj := make(Object, len(t))
		for k, val := range t {
			obj[k] = normalize(val)
		}
		return obj
	case []any:
		for i := range t {
			t[i] = normalize(t[i])
		}
		return t
	default:
		return v
	}
}
