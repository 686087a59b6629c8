package proxy

import (
	"fmt"
	"reflect"

	"tableflip.dev/coledit/pkg/typesel"
)

// Slice is a List over a *[]T. When T is an interface type the slice is a
// reference list: it holds any concrete type implementing T.
type Slice struct {
	ptr  reflect.Value
	elem reflect.Type

	// Element builds row content; DefaultElement when nil.
	Element ElementFunc
	// Fixed disables reordering.
	Fixed bool
}

var _ List = (*Slice)(nil)

// NewSlice wraps ptr, which must be a non-nil pointer to a slice.
func NewSlice(ptr any) (*Slice, error) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Slice {
		return nil, fmt.Errorf("proxy: want a pointer to a slice, got %T", ptr)
	}
	return &Slice{ptr: rv, elem: rv.Elem().Type().Elem()}, nil
}

func (s *Slice) slice() reflect.Value {
	return s.ptr.Elem()
}

func (s *Slice) Count() int {
	return s.slice().Len()
}

func (s *Slice) ItemType() reflect.Type {
	return s.elem
}

// IsReference reports whether elements are interface values.
func (s *Slice) IsReference() bool {
	return s.elem.Kind() == reflect.Interface
}

func (s *Slice) CanAdd() bool {
	return true
}

func (s *Slice) CanAddType(t reflect.Type) bool {
	t, ok := assignableItem(s.elem, t)
	return ok && typesel.Creatable(t)
}

func (s *Slice) CanRemove(index int) bool {
	return index >= 0 && index < s.Count()
}

func (s *Slice) CanReorder() bool {
	return !s.Fixed
}

func (s *Slice) AddItem(t reflect.Type) bool {
	t, ok := assignableItem(s.elem, t)
	if !ok {
		return false
	}
	v, err := typesel.New(t)
	if err != nil {
		return false
	}
	item := reflect.New(s.elem).Elem()
	item.Set(v)
	s.slice().Set(reflect.Append(s.slice(), item))
	return true
}

func (s *Slice) RemoveItem(index int) {
	if !s.CanRemove(index) {
		return
	}
	cur := s.slice()
	n := cur.Len()
	reflect.Copy(cur.Slice(index, n), cur.Slice(index+1, n))
	cur.Index(n - 1).Set(reflect.Zero(s.elem))
	cur.Set(cur.Slice(0, n-1))
}

func (s *Slice) ReorderItem(from, to int) {
	cur := s.slice()
	n := cur.Len()
	if from == to || from < 0 || to < 0 || from >= n || to >= n {
		return
	}
	item := reflect.New(s.elem).Elem()
	item.Set(cur.Index(from))
	if from < to {
		reflect.Copy(cur.Slice(from, to), cur.Slice(from+1, to+1))
	} else {
		reflect.Copy(cur.Slice(to+1, from+1), cur.Slice(to, from))
	}
	cur.Index(to).Set(item)
}

func (s *Slice) CreateElement(index int) Content {
	element := s.Element
	if element == nil {
		element = DefaultElement
	}
	if index < 0 || index >= s.Count() {
		return element(index, "", nil)
	}
	return element(index, "", s.slice().Index(index).Interface())
}
