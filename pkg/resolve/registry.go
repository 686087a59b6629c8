package resolve

import (
	"fmt"
	"reflect"
	"sync"
)

type staticKind int

const (
	staticMethod staticKind = iota
	staticProperty
	staticField
)

type static struct {
	kind staticKind
	// fn is the callable for methods and properties.
	fn reflect.Value
	// value holds a field: a pointer for mutable fields, the value itself
	// for constants.
	value    reflect.Value
	readonly bool
}

// Registry holds static (type-level) members. Go has no static members, so
// package-level functions and variables are attached to a declaring type here.
type Registry struct {
	mu      sync.RWMutex
	members map[reflect.Type]map[string][]static
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{members: make(map[reflect.Type]map[string][]static)}
}

// StaticMethod attaches fn as a static method name of owner. fn may take up
// to two parameters.
func (r *Registry) StaticMethod(owner reflect.Type, name string, fn any) error {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return fmt.Errorf("resolve: static method %s must be a func, got %T", name, fn)
	}
	r.add(owner, name, static{kind: staticMethod, fn: rv})
	return nil
}

// StaticProperty attaches a zero-argument getter as a static property.
func (r *Registry) StaticProperty(owner reflect.Type, name string, getter any) error {
	rv := reflect.ValueOf(getter)
	if rv.Kind() != reflect.Func || rv.IsNil() || rv.Type().NumIn() != 0 || rv.Type().NumOut() != 1 {
		return fmt.Errorf("resolve: static property %s must be func() T, got %T", name, getter)
	}
	r.add(owner, name, static{kind: staticProperty, fn: rv})
	return nil
}

// StaticField attaches a static field. A pointer is a mutable variable read
// through the pointer on each poll; any other value is a constant.
func (r *Registry) StaticField(owner reflect.Type, name string, v any) error {
	if v == nil {
		return fmt.Errorf("resolve: static field %s is nil", name)
	}
	rv := reflect.ValueOf(v)
	s := static{kind: staticField, value: rv}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return fmt.Errorf("resolve: static field %s is a nil pointer", name)
		}
	} else {
		s.readonly = true
	}
	r.add(owner, name, s)
	return nil
}

func (r *Registry) add(owner reflect.Type, name string, s static) {
	for owner.Kind() == reflect.Pointer {
		owner = owner.Elem()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.members[owner] == nil {
		r.members[owner] = make(map[string][]static)
	}
	r.members[owner][name] = append(r.members[owner][name], s)
}

func (r *Registry) lookup(owner reflect.Type, name string, kind staticKind) []static {
	if owner == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []static
	for _, s := range r.members[owner][name] {
		if s.kind == kind {
			out = append(out, s)
		}
	}
	return out
}
