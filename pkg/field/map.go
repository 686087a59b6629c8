package field

import (
	"context"
	"errors"
	"reflect"

	"tableflip.dev/coledit/pkg/dispatch"
	"tableflip.dev/coledit/pkg/events"
	"tableflip.dev/coledit/pkg/proxy"
	"tableflip.dev/coledit/pkg/report"
)

// KeyState is the validity of the pending map key.
type KeyState int

const (
	// KeyEmpty means no key was entered.
	KeyEmpty KeyState = iota
	// KeyValid means the key can be added.
	KeyValid
	// KeyInvalid means the key is taken or refused.
	KeyInvalid
)

func (k KeyState) String() string {
	switch k {
	case KeyValid:
		return "valid"
	case KeyInvalid:
		return "invalid"
	default:
		return "empty"
	}
}

// MapField edits a string-keyed collection. New items take the pending key.
type MapField struct {
	base
	proxy      proxy.Map
	pendingKey string
}

// NewMap constructs a map field. It shows nothing until SetProxy.
func NewMap(id events.ComponentID, cfg Config, opts ...Option) *MapField {
	f := &MapField{base: newBase(id, cfg, "dictionary", opts)}
	f.machine = f.newMachine(f.count, f.Reorder, f.canReorder)
	return f
}

// Proxy returns the current proxy, possibly nil.
func (f *MapField) Proxy() proxy.Map { return f.proxy }

// SetProxy binds the field to p and refreshes. See ListField.SetProxy.
func (f *MapField) SetProxy(p proxy.Map) error {
	if p == nil {
		return errors.New("field: nil proxy")
	}
	if err := f.checkItemType("field.SetProxy", p.ItemType()); err != nil {
		return err
	}
	f.machine.Abort()
	f.proxy = p
	f.itemType = p.ItemType()
	f.trim(0)
	f.Refresh()
	return nil
}

func (f *MapField) count() int {
	if f.proxy == nil {
		return 0
	}
	return f.proxy.Count()
}

func (f *MapField) canReorder() bool {
	return f.proxy != nil && f.proxy.CanReorder()
}

func (f *MapField) canRemove(index int, key string) bool {
	return f.cfg.AllowRemove != Never && f.proxy.CanRemove(index, key)
}

func (f *MapField) canAdd() bool {
	return f.proxy != nil &&
		f.cfg.AllowAdd != Never &&
		f.underLimit(f.proxy.Count()) &&
		f.proxy.CanAdd() &&
		f.typeValid(f.proxy.CanAddType)
}

// PendingKey returns the key the next Add uses.
func (f *MapField) PendingKey() string { return f.pendingKey }

// SetPendingKey updates the pending key and the add affordance.
func (f *MapField) SetPendingKey(key string) {
	f.pendingKey = key
	f.addEnabled = f.canAdd() && f.KeyState() == KeyValid
}

// KeyState reports whether the pending key can be added.
func (f *MapField) KeyState() KeyState {
	if f.pendingKey == "" {
		return KeyEmpty
	}
	if f.proxy != nil && f.proxy.CanAddKey(f.pendingKey) {
		return KeyValid
	}
	return KeyInvalid
}

// Refresh brings the rows in line with the proxy. Rows are identified by key
// and rebuilt only when the key at their position changed.
func (f *MapField) Refresh() {
	n := f.count()
	f.trim(n)
	for i := 0; i < n; i++ {
		key := f.proxy.KeyAt(i)
		if i < len(f.rows) {
			r := f.rows[i]
			if r.Key != key {
				r.Key = key
				r.Content = f.proxy.CreateElement(i, key)
				r.Generation = f.nextGeneration()
			}
		} else {
			f.rows = append(f.rows, &Row{
				Key:        key,
				Content:    f.proxy.CreateElement(i, key),
				Generation: f.nextGeneration(),
			})
		}
		r := f.rows[i]
		r.Index = i
		r.Odd = i%2 == 1
		r.RemoveEnabled = f.canRemove(i, key)
	}
	f.empty = n == 0
	f.addEnabled = f.canAdd() && f.KeyState() == KeyValid
}

// Add inserts the pending key. With derived types on and several to choose
// from, a chooser opens and the item is added on a later dispatch turn.
func (f *MapField) Add() {
	if f.pending || f.KeyState() != KeyValid || !f.canAdd() {
		return
	}
	key := f.pendingKey
	f.chooseType(func(t reflect.Type) {
		f.AddType(key, t)
	})
}

// AddType inserts key with a value of type t (nil for the declared type),
// checking every guard again.
func (f *MapField) AddType(key string, t reflect.Type) {
	if key == "" || !f.canAdd() || !f.proxy.CanAddKey(key) || !f.proxy.CanAddType(t) {
		return
	}
	before := f.proxy.Count()
	if !f.proxy.AddItem(key, t) {
		f.report("field.Add", report.KindBackend, report.ErrAddFailed)
		return
	}
	if f.pendingKey == key {
		f.pendingKey = ""
	}
	f.Refresh()
	if !f.settle("field.Add", before, 1) {
		return
	}
	f.emit(events.ItemAdded{Component: f.id, Index: f.indexOf(key), Key: key})
}

func (f *MapField) indexOf(key string) int {
	for i, r := range f.rows {
		if r.Key == key {
			return i
		}
	}
	return -1
}

// Remove deletes the item shown by row. Other keys are unaffected. A
// refused guard is a silent no-op.
func (f *MapField) Remove(row int) {
	if f.proxy == nil || row < 0 || row >= len(f.rows) {
		return
	}
	index, key := f.rows[row].Index, f.rows[row].Key
	if !f.canRemove(index, key) {
		return
	}
	before := f.proxy.Count()
	f.proxy.RemoveItem(index, key)
	f.Refresh()
	if !f.settle("field.Remove", before, -1) {
		return
	}
	f.emit(events.ItemRemoved{Component: f.id, Index: index, Key: key})
}

// RemoveKey deletes key if present.
func (f *MapField) RemoveKey(key string) {
	if i := f.indexOf(key); i >= 0 {
		f.Remove(i)
	}
}

// Reorder moves the entry at from so it ends up at to.
func (f *MapField) Reorder(from, to int) {
	if f.proxy == nil || from == to || !f.cfg.AllowReorder || !f.proxy.CanReorder() {
		return
	}
	n := f.proxy.Count()
	if from < 0 || to < 0 || from >= n || to >= n {
		return
	}
	f.proxy.ReorderItem(from, to)
	f.Refresh()
	if !f.settle("field.Reorder", n, 0) {
		return
	}
	f.emit(events.ItemReordered{Component: f.id, From: from, To: to})
}

// ItemsChanged handles a size change made outside the field.
func (f *MapField) ItemsChanged() {
	f.Refresh()
	f.emit(events.ItemsChanged{Component: f.id})
}

func (f *MapField) settle(op string, before, delta int) bool {
	f.afterMutation()
	if f.verify(op, before, f.proxy.Count(), delta) {
		return true
	}
	f.trim(0)
	f.Refresh()
	f.emit(events.ItemsChanged{Component: f.id})
	return false
}

// Attach starts the bound sources. Cancelling ctx detaches on the dispatch
// thread.
func (f *MapField) Attach(ctx context.Context, sched dispatch.Scheduler) {
	f.attach(ctx, sched, f.Detach)
}

// Detach stops every bound source and aborts a drag. It is idempotent.
func (f *MapField) Detach() {
	f.detach()
}

// SetMaxItems sets the item limit (negative for none).
func (f *MapField) SetMaxItems(n int) {
	f.maxItems = n
	f.addEnabled = f.canAdd() && f.KeyState() == KeyValid
}

// SetLabel replaces the frame label.
func (f *MapField) SetLabel(s string) {
	f.label = s
}

// Revalidate recomputes affordance enablement without rebuilding content.
func (f *MapField) Revalidate() {
	if f.proxy == nil {
		return
	}
	for i, r := range f.rows {
		r.RemoveEnabled = f.canRemove(i, r.Key)
	}
	f.addEnabled = f.canAdd() && f.KeyState() == KeyValid
}
