package collection

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrDuplicateKey is returned when inserting a key that already exists.
var ErrDuplicateKey = errors.New("collection: duplicate key")

// Ordered is a string-keyed map that remembers insertion order.
type Ordered[V any] struct {
	keys   []string
	values map[string]V
}

// NewOrdered constructs an empty ordered map.
func NewOrdered[V any]() *Ordered[V] {
	return &Ordered[V]{values: make(map[string]V)}
}

// Len returns the number of entries.
func (o *Ordered[V]) Len() int {
	return len(o.keys)
}

// Has reports whether key is present.
func (o *Ordered[V]) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// KeyAt returns the key stored at position i.
func (o *Ordered[V]) KeyAt(i int) string {
	if i < 0 || i >= len(o.keys) {
		return ""
	}
	return o.keys[i]
}

// IndexOf returns the position of key or -1.
func (o *Ordered[V]) IndexOf(key string) int {
	for i, k := range o.keys {
		if k == key {
			return i
		}
	}
	return -1
}

// Get returns the value for key.
func (o *Ordered[V]) Get(key string) (V, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Insert appends a new key. It fails if the key already exists.
func (o *Ordered[V]) Insert(key string, value V) error {
	if o.values == nil {
		o.values = make(map[string]V)
	}
	if _, ok := o.values[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	o.keys = append(o.keys, key)
	o.values[key] = value
	return nil
}

// Set replaces the value for an existing key or appends a new one.
func (o *Ordered[V]) Set(key string, value V) {
	if o.values == nil {
		o.values = make(map[string]V)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Delete removes key and reports whether it was present.
func (o *Ordered[V]) Delete(key string) bool {
	idx := o.IndexOf(key)
	if idx < 0 {
		return false
	}
	o.keys = append(o.keys[:idx], o.keys[idx+1:]...)
	delete(o.values, key)
	return true
}

// Move relocates the entry at from to position to (see Move).
func (o *Ordered[V]) Move(from, to int) {
	o.keys = Move(o.keys, from, to)
}

// Keys returns a copy of the keys in order.
func (o *Ordered[V]) Keys() []string {
	return append([]string(nil), o.keys...)
}

type orderedEntry[V any] struct {
	Key   string `json:"key"`
	Value V      `json:"value"`
}

// MarshalJSON encodes the map as an ordered array of key/value pairs.
func (o *Ordered[V]) MarshalJSON() ([]byte, error) {
	entries := make([]orderedEntry[V], 0, len(o.keys))
	for _, k := range o.keys {
		entries = append(entries, orderedEntry[V]{Key: k, Value: o.values[k]})
	}
	return json.Marshal(entries)
}

// UnmarshalJSON decodes the array form written by MarshalJSON and falls back
// to a plain JSON object (keys are then sorted by the decoder's order).
func (o *Ordered[V]) UnmarshalJSON(data []byte) error {
	o.keys = nil
	o.values = make(map[string]V)
	var entries []orderedEntry[V]
	if err := json.Unmarshal(data, &entries); err == nil {
		for _, e := range entries {
			o.Set(e.Key, e.Value)
		}
		return nil
	}
	var plain map[string]V
	if err := json.Unmarshal(data, &plain); err != nil {
		return err
	}
	for _, k := range sortedKeys(plain) {
		o.Set(k, plain[k])
	}
	return nil
}
