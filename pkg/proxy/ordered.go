package proxy

import (
	"reflect"

	"tableflip.dev/coledit/pkg/collection"
	"tableflip.dev/coledit/pkg/typesel"
)

// OrderedMap is a Map over a collection.Ordered.
type OrderedMap[V any] struct {
	m *collection.Ordered[V]

	Element ElementFunc
	Fixed   bool
}

var _ Map = (*OrderedMap[int])(nil)

// NewOrderedMap wraps m.
func NewOrderedMap[V any](m *collection.Ordered[V]) *OrderedMap[V] {
	return &OrderedMap[V]{m: m}
}

func (o *OrderedMap[V]) Count() int {
	return o.m.Len()
}

func (o *OrderedMap[V]) ItemType() reflect.Type {
	return reflect.TypeFor[V]()
}

func (o *OrderedMap[V]) KeyAt(index int) string {
	return o.m.KeyAt(index)
}

func (o *OrderedMap[V]) CanAdd() bool {
	return true
}

func (o *OrderedMap[V]) CanAddKey(key string) bool {
	return key != "" && !o.m.Has(key)
}

func (o *OrderedMap[V]) CanAddType(t reflect.Type) bool {
	t, ok := assignableItem(o.ItemType(), t)
	return ok && typesel.Creatable(t)
}

func (o *OrderedMap[V]) CanRemove(_ int, key string) bool {
	return o.m.Has(key)
}

func (o *OrderedMap[V]) CanReorder() bool {
	return !o.Fixed
}

func (o *OrderedMap[V]) AddItem(key string, t reflect.Type) bool {
	if !o.CanAddKey(key) {
		return false
	}
	t, ok := assignableItem(o.ItemType(), t)
	if !ok {
		return false
	}
	v, err := typesel.New(t)
	if err != nil {
		return false
	}
	item := reflect.New(o.ItemType()).Elem()
	item.Set(v)
	val, _ := item.Interface().(V)
	return o.m.Insert(key, val) == nil
}

func (o *OrderedMap[V]) RemoveItem(_ int, key string) {
	o.m.Delete(key)
}

func (o *OrderedMap[V]) ReorderItem(from, to int) {
	o.m.Move(from, to)
}

func (o *OrderedMap[V]) CreateElement(index int, key string) Content {
	element := o.Element
	if element == nil {
		element = DefaultElement
	}
	v, _ := o.m.Get(key)
	return element(index, key, v)
}
