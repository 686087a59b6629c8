package property

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Tree is a reflection-backed property graph rooted at a struct pointer.
// It is not safe for concurrent use; all calls belong on the dispatch thread.
type Tree struct {
	root reflect.Value

	nextID   int
	watchers map[string]map[int]func(old, new any)
	snapshot map[string]any

	sizeWatchers map[string]map[int]func(old, new int)
	sizes        map[string]int
}

// NewTree wraps root, which must be a non-nil pointer to a struct.
func NewTree(root any) (*Tree, error) {
	rv := reflect.ValueOf(root)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("property: root must be a struct pointer, got %T", root)
	}
	return &Tree{
		root:         rv.Elem(),
		watchers:     make(map[string]map[int]func(old, new any)),
		snapshot:     make(map[string]any),
		sizeWatchers: make(map[string]map[int]func(old, new int)),
		sizes:        make(map[string]int),
	}, nil
}

// Root returns the pointer the tree was built from.
func (t *Tree) Root() any {
	return t.root.Addr().Interface()
}

// Get returns the property at path.
func (t *Tree) Get(path string) (Property, error) {
	if _, _, _, err := t.lookup(path); err != nil {
		return nil, err
	}
	return &node{tree: t, path: path}, nil
}

// Paths lists the exported field paths of the root struct, one level deep.
func (t *Tree) Paths() []string {
	var paths []string
	typ := t.root.Type()
	for i := 0; i < typ.NumField(); i++ {
		if f := typ.Field(i); f.IsExported() {
			paths = append(paths, f.Name)
		}
	}
	sort.Strings(paths)
	return paths
}

// WatchSize registers fn to be told when the length of the slice or map at
// path changes. Changes are observed on Set of that path and on Sync.
func (t *Tree) WatchSize(path string, fn func(old, new int)) (func(), error) {
	v, _, _, err := t.lookup(path)
	if err != nil {
		return nil, err
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
	default:
		return nil, fmt.Errorf("property: %s has no size (%s)", path, v.Kind())
	}
	if t.sizeWatchers[path] == nil {
		t.sizeWatchers[path] = make(map[int]func(old, new int))
	}
	id := t.nextID
	t.nextID++
	t.sizeWatchers[path][id] = fn
	t.sizes[path] = v.Len()
	return func() {
		delete(t.sizeWatchers[path], id)
		if len(t.sizeWatchers[path]) == 0 {
			delete(t.sizeWatchers, path)
			delete(t.sizes, path)
		}
	}, nil
}

// Sync compares watched properties against their last known state and fires
// notifications for anything changed outside Set. It returns how many
// notifications fired.
func (t *Tree) Sync() int {
	fired := 0
	for _, path := range sortedPaths(t.watchers) {
		v, _, _, err := t.lookup(path)
		if err != nil {
			continue
		}
		cur := v.Interface()
		if old := t.snapshot[path]; !reflect.DeepEqual(old, cur) {
			t.notify(path, old, cur)
			fired++
		}
	}
	for _, path := range sortedPaths(t.sizeWatchers) {
		if t.checkSize(path) {
			fired++
		}
	}
	return fired
}

// Resync records the current size of the collection at path without
// notifying its size watchers. Owners call it after changing the collection
// themselves so the next Sync does not report their own change.
func (t *Tree) Resync(path string) {
	if _, ok := t.sizeWatchers[path]; !ok {
		return
	}
	if v, _, _, err := t.lookup(path); err == nil {
		t.sizes[path] = v.Len()
	}
}

func (t *Tree) lookup(path string) (reflect.Value, reflect.Value, reflect.StructField, error) {
	var (
		owner reflect.Value
		sf    reflect.StructField
	)
	if path == "" {
		return reflect.Value{}, owner, sf, fmt.Errorf("%w: empty path", ErrNotFound)
	}
	cur := t.root
	for _, part := range strings.Split(path, ".") {
		for cur.Kind() == reflect.Pointer {
			if cur.IsNil() {
				return reflect.Value{}, owner, sf, fmt.Errorf("%w: %s", ErrNilPointer, path)
			}
			cur = cur.Elem()
		}
		if cur.Kind() != reflect.Struct {
			return reflect.Value{}, owner, sf, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		f, ok := cur.Type().FieldByName(part)
		if !ok || !f.IsExported() {
			return reflect.Value{}, owner, sf, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		owner = cur
		sf = f
		cur = cur.FieldByIndex(f.Index)
	}
	return cur, owner, sf, nil
}

func (t *Tree) watch(path string, fn func(old, new any)) func() {
	if t.watchers[path] == nil {
		t.watchers[path] = make(map[int]func(old, new any))
	}
	id := t.nextID
	t.nextID++
	t.watchers[path][id] = fn
	if v, _, _, err := t.lookup(path); err == nil {
		t.snapshot[path] = v.Interface()
	}
	return func() {
		delete(t.watchers[path], id)
		if len(t.watchers[path]) == 0 {
			delete(t.watchers, path)
			delete(t.snapshot, path)
		}
	}
}

func (t *Tree) changed(path string, old, cur any) {
	if !reflect.DeepEqual(old, cur) {
		t.notify(path, old, cur)
	}
	if _, ok := t.sizeWatchers[path]; ok {
		t.checkSize(path)
	}
}

func (t *Tree) notify(path string, old, cur any) {
	if _, ok := t.watchers[path]; ok {
		t.snapshot[path] = cur
	}
	for _, id := range sortedIDs(t.watchers[path]) {
		if fn, ok := t.watchers[path][id]; ok {
			fn(old, cur)
		}
	}
}

func (t *Tree) checkSize(path string) bool {
	v, _, _, err := t.lookup(path)
	if err != nil {
		return false
	}
	old, cur := t.sizes[path], v.Len()
	if old == cur {
		return false
	}
	t.sizes[path] = cur
	for _, id := range sortedIDs(t.sizeWatchers[path]) {
		if fn, ok := t.sizeWatchers[path][id]; ok {
			fn(old, cur)
		}
	}
	return true
}

func sortedPaths[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedIDs[V any](m map[int]V) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
