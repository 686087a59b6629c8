package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"tableflip.dev/coledit/pkg/collection"
	"tableflip.dev/coledit/pkg/store"
	"tableflip.dev/coledit/pkg/typesel"
)

// StoreMap is a Map over one collection of a store.Persistence. Values are
// stored as JSON alongside their registered type name.
type StoreMap struct {
	p          store.Persistence
	collection string
	types      *typesel.Registry
	base       reflect.Type
	keys       []string

	Element ElementFunc
	// OnError receives store failures; mutators otherwise swallow them.
	OnError func(error)
}

var _ Map = (*StoreMap)(nil)

// NewStoreMap opens collection coll holding values assignable to base.
// Concrete value types are named through types.
func NewStoreMap(ctx context.Context, p store.Persistence, coll string, types *typesel.Registry, base reflect.Type) (*StoreMap, error) {
	m := &StoreMap{p: p, collection: coll, types: types, base: base}
	if err := m.Reload(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Collection returns the collection name.
func (m *StoreMap) Collection() string {
	return m.collection
}

// Reload re-reads the key order from the store. Call it when the store
// reports an external change.
func (m *StoreMap) Reload(ctx context.Context) error {
	keys, err := m.p.Keys(ctx, m.collection)
	if err != nil {
		return fmt.Errorf("proxy: load %s: %w", m.collection, err)
	}
	m.keys = keys
	return nil
}

// Keys returns a copy of the key order as last read or written.
func (m *StoreMap) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Value decodes the value stored under key.
func (m *StoreMap) Value(key string) (any, error) {
	rec, err := m.p.Get(m.collection, key)
	if err != nil {
		return nil, err
	}
	t, ok := m.types.Lookup(rec.Type)
	if !ok {
		return nil, fmt.Errorf("proxy: %s/%s: unknown type %q", m.collection, key, rec.Type)
	}
	v, err := typesel.New(t)
	if err != nil {
		return nil, err
	}
	target := v
	if t.Kind() != reflect.Pointer {
		target = reflect.New(t)
		target.Elem().Set(v)
	}
	if err := json.Unmarshal(rec.Value, target.Interface()); err != nil {
		return nil, fmt.Errorf("proxy: decode %s/%s: %w", m.collection, key, err)
	}
	if t.Kind() != reflect.Pointer {
		return target.Elem().Interface(), nil
	}
	return target.Interface(), nil
}

func (m *StoreMap) Count() int {
	return len(m.keys)
}

func (m *StoreMap) ItemType() reflect.Type {
	return m.base
}

func (m *StoreMap) KeyAt(index int) string {
	if index < 0 || index >= len(m.keys) {
		return ""
	}
	return m.keys[index]
}

func (m *StoreMap) indexOf(key string) int {
	for i, k := range m.keys {
		if k == key {
			return i
		}
	}
	return -1
}

func (m *StoreMap) CanAdd() bool {
	return true
}

func (m *StoreMap) CanAddKey(key string) bool {
	return key != "" && m.indexOf(key) < 0
}

func (m *StoreMap) CanAddType(t reflect.Type) bool {
	t, ok := assignableItem(m.base, t)
	if !ok || !typesel.Creatable(t) {
		return false
	}
	_, named := m.types.Lookup(m.types.Name(t))
	return named
}

func (m *StoreMap) CanRemove(_ int, key string) bool {
	return m.indexOf(key) >= 0
}

func (m *StoreMap) CanReorder() bool {
	return true
}

func (m *StoreMap) AddItem(key string, t reflect.Type) bool {
	if !m.CanAddKey(key) || !m.CanAddType(t) {
		return false
	}
	t, _ = assignableItem(m.base, t)
	v, err := typesel.New(t)
	if err != nil {
		return false
	}
	data, err := json.Marshal(v.Interface())
	if err != nil {
		m.fail(err)
		return false
	}
	rec := store.Record{Key: key, Type: m.types.Name(t), Value: data}
	if err := m.p.Put(m.collection, rec); err != nil {
		m.fail(err)
		return false
	}
	m.keys = append(m.keys, key)
	return true
}

func (m *StoreMap) RemoveItem(_ int, key string) {
	idx := m.indexOf(key)
	if idx < 0 {
		return
	}
	if err := m.p.Delete(m.collection, key); err != nil {
		m.fail(err)
		return
	}
	m.keys = append(m.keys[:idx], m.keys[idx+1:]...)
}

func (m *StoreMap) ReorderItem(from, to int) {
	keys := collection.Move(append([]string(nil), m.keys...), from, to)
	if err := m.p.SetOrder(m.collection, keys); err != nil {
		m.fail(err)
		return
	}
	m.keys = keys
}

func (m *StoreMap) CreateElement(index int, key string) Content {
	element := m.Element
	if element == nil {
		element = DefaultElement
	}
	v, err := m.Value(key)
	if err != nil {
		return Label(fmt.Sprintf("<%v>", err))
	}
	return element(index, key, v)
}

func (m *StoreMap) fail(err error) {
	if m.OnError != nil {
		m.OnError(err)
	}
}
