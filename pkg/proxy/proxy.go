// Package proxy adapts concrete collections to the contracts the editing
// controller drives. A proxy wraps a backing store without owning it.
package proxy

import (
	"fmt"
	"reflect"
)

// Content is the per-item editing surface built for a row.
type Content interface {
	View() string
}

// Label is plain text content.
type Label string

// View returns the label text.
func (l Label) View() string {
	return string(l)
}

// ElementFunc builds the content for the item at index (and key, for maps).
type ElementFunc func(index int, key string, value any) Content

// DefaultElement renders the value with fmt, dereferencing pointers.
func DefaultElement(_ int, _ string, value any) Content {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return Label("<nil>")
	}
	if s, ok := value.(fmt.Stringer); ok {
		return Label(s.String())
	}
	return Label(fmt.Sprintf("%+v", rv.Interface()))
}

// List is an index-addressed collection.
type List interface {
	Count() int
	// ItemType is the declared element type.
	ItemType() reflect.Type
	CanAdd() bool
	CanAddType(t reflect.Type) bool
	CanRemove(index int) bool
	CanReorder() bool
	// AddItem appends a new item of type t (nil for the element type). It
	// returns false when the backend cannot hold or create such an item.
	AddItem(t reflect.Type) bool
	RemoveItem(index int)
	// ReorderItem moves the item at from so that it ends up at to.
	ReorderItem(from, to int)
	CreateElement(index int) Content
}

// Map is a string-keyed collection with a stable key order.
type Map interface {
	Count() int
	// ItemType is the declared value type.
	ItemType() reflect.Type
	KeyAt(index int) string
	CanAdd() bool
	CanAddKey(key string) bool
	CanAddType(t reflect.Type) bool
	CanRemove(index int, key string) bool
	CanReorder() bool
	// AddItem inserts key with a new value of type t (nil for the value
	// type). It returns false when the backend refuses.
	AddItem(key string, t reflect.Type) bool
	RemoveItem(index int, key string)
	ReorderItem(from, to int)
	CreateElement(index int, key string) Content
}

// assignableItem resolves the concrete type to create for a slot of type
// elem, or reports false.
func assignableItem(elem, t reflect.Type) (reflect.Type, bool) {
	if t == nil {
		t = elem
	}
	if !t.AssignableTo(elem) {
		return nil, false
	}
	return t, true
}
