// Package property exposes the fields of a Go value as addressable
// properties with change notification. It stands in for the object graph the
// editing engine reads and writes.
package property

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrNotFound is returned when a path does not name an exported field.
	ErrNotFound = errors.New("property: not found")
	// ErrNilPointer is returned when a path crosses a nil pointer.
	ErrNilPointer = errors.New("property: nil pointer on path")
	// ErrType is returned when Set receives a value of an incompatible type.
	ErrType = errors.New("property: incompatible value")
)

// Property is one addressable field in an object graph.
type Property interface {
	// Path is the dotted path from the root, e.g. "Scene.Shapes".
	Path() string
	// Name is the last path element.
	Name() string
	// Type is the static type of the field.
	Type() reflect.Type
	// Value returns the current value.
	Value() any
	// Set assigns v and notifies watchers.
	Set(v any) error
	// Addr returns a pointer to the field.
	Addr() any
	// Owner returns a pointer to the struct declaring the field.
	Owner() any
	// Sibling resolves name relative to the declaring struct.
	Sibling(name string) (Property, bool)
	// Watch registers fn for value changes and returns a cancel func.
	Watch(fn func(old, new any)) (cancel func())
}

// IsScalar reports whether t is a bool, number, or string kind. Only scalar
// properties take part in live sibling binding.
func IsScalar(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

type node struct {
	tree *Tree
	path string
}

var _ Property = (*node)(nil)

func (n *node) Path() string {
	return n.path
}

func (n *node) Name() string {
	if i := strings.LastIndexByte(n.path, '.'); i >= 0 {
		return n.path[i+1:]
	}
	return n.path
}

func (n *node) Type() reflect.Type {
	_, _, sf, err := n.tree.lookup(n.path)
	if err != nil {
		return nil
	}
	return sf.Type
}

func (n *node) Value() any {
	v, _, _, err := n.tree.lookup(n.path)
	if err != nil {
		return nil
	}
	return v.Interface()
}

func (n *node) Addr() any {
	v, _, _, err := n.tree.lookup(n.path)
	if err != nil || !v.CanAddr() {
		return nil
	}
	return v.Addr().Interface()
}

func (n *node) Owner() any {
	_, owner, _, err := n.tree.lookup(n.path)
	if err != nil || !owner.CanAddr() {
		return nil
	}
	return owner.Addr().Interface()
}

func (n *node) Set(v any) error {
	field, _, _, err := n.tree.lookup(n.path)
	if err != nil {
		return err
	}
	rv, err := coerce(v, field.Type())
	if err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrType, n.path, err)
	}
	old := field.Interface()
	field.Set(rv)
	n.tree.changed(n.path, old, field.Interface())
	return nil
}

func (n *node) Sibling(name string) (Property, bool) {
	if name == "" {
		return nil, false
	}
	parent := ""
	if i := strings.LastIndexByte(n.path, '.'); i >= 0 {
		parent = n.path[:i]
	}
	path := name
	if parent != "" {
		path = parent + "." + name
	}
	if path == n.path {
		return nil, false
	}
	p, err := n.tree.Get(path)
	if err != nil {
		return nil, false
	}
	return p, true
}

func (n *node) Watch(fn func(old, new any)) func() {
	return n.tree.watch(n.path, fn)
}

func coerce(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if IsScalar(rv.Type()) && IsScalar(t) && rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", rv.Type(), t)
}
