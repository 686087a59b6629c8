// Package typesel catalogs the concrete types an item slot may hold and
// hands the choice to a host chooser.
//
// Go has no class inheritance, so the hierarchy is declared explicitly:
// Register records a type and its base. Interface types are abstract, and a
// concrete type registered without a base belongs under every registered
// interface it implements.
package typesel

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// ErrNotCreatable is returned by New for types without a usable zero value.
var ErrNotCreatable = errors.New("typesel: type is not creatable")

type entry struct {
	typ    reflect.Type
	parent reflect.Type
	name   string
}

// Registry is the explicit type hierarchy. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	types  map[reflect.Type]*entry
	byName map[string]reflect.Type
	order  []reflect.Type

	lists sync.Map // "<includeAbstract>-<base>" -> *List
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:  make(map[reflect.Type]*entry),
		byName: make(map[string]reflect.Type),
	}
}

// Register declares t with base parent (nil for a root). Registering again
// replaces the base. Cached catalogs are dropped.
func (r *Registry) Register(t, parent reflect.Type) error {
	if t == nil {
		return errors.New("typesel: nil type")
	}
	if parent == t {
		return fmt.Errorf("typesel: %s cannot be its own base", t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for p := parent; p != nil; {
		if p == t {
			return fmt.Errorf("typesel: cycle registering %s under %s", t, parent)
		}
		e, ok := r.types[p]
		if !ok {
			break
		}
		p = e.parent
	}
	name := TypeName(t)
	if other, ok := r.byName[name]; ok && other != t {
		return fmt.Errorf("typesel: name %q already used by %s", name, other)
	}
	if _, ok := r.types[t]; !ok {
		r.order = append(r.order, t)
	}
	r.types[t] = &entry{typ: t, parent: parent, name: name}
	r.byName[name] = t
	r.lists.Range(func(k, _ any) bool {
		r.lists.Delete(k)
		return true
	})
	return nil
}

// MustRegister is Register that panics on error. It suits package init.
func (r *Registry) MustRegister(t, parent reflect.Type) {
	if err := r.Register(t, parent); err != nil {
		panic(err)
	}
}

// Lookup returns the registered type with the given display name.
func (r *Registry) Lookup(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// Name returns the display name of t.
func (r *Registry) Name(t reflect.Type) string {
	if t == nil {
		return ""
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.types[t]; ok {
		return e.name
	}
	return TypeName(t)
}

// Types returns every registered type in registration order.
func (r *Registry) Types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]reflect.Type(nil), r.order...)
}

// Parent returns the declared base of t, or nil.
func (r *Registry) Parent(t reflect.Type) reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.types[t]; ok {
		return e.parent
	}
	return nil
}

// DerivesFrom reports whether t sits below base in the hierarchy.
func (r *Registry) DerivesFrom(t, base reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.derivesFrom(t, base)
}

func (r *Registry) derivesFrom(t, base reflect.Type) bool {
	if t == nil || base == nil || t == base {
		return false
	}
	for p := r.parentOf(t); p != nil; p = r.parentOf(p) {
		if p == base {
			return true
		}
	}
	return base.Kind() == reflect.Interface && t.Implements(base)
}

func (r *Registry) parentOf(t reflect.Type) reflect.Type {
	if e, ok := r.types[t]; ok {
		return e.parent
	}
	return nil
}

// TypeName is the display name used for t: the named type without package,
// pointers unwrapped.
func TypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if n := t.Name(); n != "" {
		return n
	}
	return t.String()
}

// IsAbstract reports whether t can only serve as a base.
func IsAbstract(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface
}

// Creatable reports whether New can build a value of t.
func Creatable(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Invalid:
		return false
	case reflect.Pointer:
		return Creatable(t.Elem())
	}
	return true
}

// New builds a fresh value of t: pointers point at a new zero value, maps
// are made empty, everything else is the zero value.
func New(t reflect.Type) (reflect.Value, error) {
	if !Creatable(t) {
		return reflect.Value{}, fmt.Errorf("%w: %v", ErrNotCreatable, t)
	}
	switch t.Kind() {
	case reflect.Pointer:
		return reflect.New(t.Elem()), nil
	case reflect.Map:
		return reflect.MakeMap(t), nil
	}
	return reflect.New(t).Elem(), nil
}

// List returns the catalog of types that can fill a slot of type base. The
// result is cached per base and includeAbstract until the next Register.
func (r *Registry) List(base reflect.Type, includeAbstract bool) *List {
	key := fmt.Sprintf("%t-%v", includeAbstract, base)
	if v, ok := r.lists.Load(key); ok {
		return v.(*List)
	}
	l := r.build(base, includeAbstract)
	v, _ := r.lists.LoadOrStore(key, l)
	return v.(*List)
}

func (r *Registry) build(base reflect.Type, includeAbstract bool) *List {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l := &List{Base: base}
	if base == nil {
		return l
	}
	var derived []reflect.Type
	for _, t := range r.order {
		if !r.derivesFrom(t, base) {
			continue
		}
		if !includeAbstract && !Creatable(t) {
			continue
		}
		derived = append(derived, t)
	}

	isParent := make(map[reflect.Type]bool)
	for _, t := range derived {
		for p := r.parentOf(t); p != nil && p != base; p = r.parentOf(p) {
			isParent[p] = true
		}
	}

	if Creatable(base) {
		l.Entries = append(l.Entries, Entry{Path: r.nameOf(base), Type: base})
	}
	for _, t := range derived {
		parts := []string{r.nameOf(t)}
		for p := r.parentOf(t); p != nil && p != base; p = r.parentOf(p) {
			parts = append([]string{r.nameOf(p)}, parts...)
		}
		if isParent[t] {
			parts = append(parts, r.nameOf(t))
		}
		l.Entries = append(l.Entries, Entry{Path: strings.Join(parts, "/"), Type: t})
	}
	sort.SliceStable(l.Entries, func(i, j int) bool {
		return l.Entries[i].Path < l.Entries[j].Path
	})
	return l
}

func (r *Registry) nameOf(t reflect.Type) string {
	if e, ok := r.types[t]; ok {
		return e.name
	}
	return TypeName(t)
}
