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

// ListField edits an index-addressed collection.
type ListField struct {
	base
	proxy proxy.List
}

// NewList constructs a list field. It shows nothing until SetProxy.
func NewList(id events.ComponentID, cfg Config, opts ...Option) *ListField {
	f := &ListField{base: newBase(id, cfg, "list", opts)}
	f.machine = f.newMachine(f.count, f.Reorder, f.canReorder)
	return f
}

// Proxy returns the current proxy, possibly nil.
func (f *ListField) Proxy() proxy.List { return f.proxy }

// SetProxy binds the field to p and refreshes. A declared item type that
// cannot be created while derived types are off is a TypeError: it is
// reported, returned, and the field stays unbound.
func (f *ListField) SetProxy(p proxy.List) error {
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

func (f *ListField) count() int {
	if f.proxy == nil {
		return 0
	}
	return f.proxy.Count()
}

func (f *ListField) canReorder() bool {
	return f.proxy != nil && f.proxy.CanReorder()
}

func (f *ListField) canRemove(index int) bool {
	return f.cfg.AllowRemove != Never && f.proxy.CanRemove(index)
}

func (f *ListField) canAdd() bool {
	return f.proxy != nil &&
		f.cfg.AllowAdd != Never &&
		f.underLimit(f.proxy.Count()) &&
		f.proxy.CanAdd() &&
		f.typeValid(f.proxy.CanAddType)
}

// Refresh brings the rows in line with the proxy. List rows are identified
// by position only, so every surviving row gets fresh content.
func (f *ListField) Refresh() {
	n := f.count()
	f.trim(n)
	for i := 0; i < n; i++ {
		if i < len(f.rows) {
			r := f.rows[i]
			r.Content = f.proxy.CreateElement(i)
			r.Generation = f.nextGeneration()
		} else {
			f.rows = append(f.rows, &Row{
				Index:      i,
				Content:    f.proxy.CreateElement(i),
				Generation: f.nextGeneration(),
			})
		}
		r := f.rows[i]
		r.Index = i
		r.Odd = i%2 == 1
		r.RemoveEnabled = f.canRemove(i)
	}
	f.empty = n == 0
	f.addEnabled = f.canAdd()
}

// Add appends an item. With derived types on and several to choose from,
// a chooser opens and the item is added on a later dispatch turn.
func (f *ListField) Add() {
	if f.pending || !f.canAdd() {
		return
	}
	f.chooseType(f.AddType)
}

// AddType appends an item of type t (nil for the declared type). Guards are
// checked again since a chooser may complete after the state changed.
func (f *ListField) AddType(t reflect.Type) {
	if !f.canAdd() || !f.proxy.CanAddType(t) {
		return
	}
	before := f.proxy.Count()
	if !f.proxy.AddItem(t) {
		f.report("field.Add", report.KindBackend, report.ErrAddFailed)
		return
	}
	f.Refresh()
	if !f.settle("field.Add", before, 1) {
		return
	}
	f.emit(events.ItemAdded{Component: f.id, Index: f.proxy.Count() - 1})
}

// Remove deletes the item shown by row. A refused guard is a silent no-op.
func (f *ListField) Remove(row int) {
	if f.proxy == nil || row < 0 || row >= len(f.rows) {
		return
	}
	index := f.rows[row].Index
	if !f.canRemove(index) {
		return
	}
	before := f.proxy.Count()
	f.proxy.RemoveItem(index)
	f.Refresh()
	if !f.settle("field.Remove", before, -1) {
		return
	}
	f.emit(events.ItemRemoved{Component: f.id, Index: index})
}

// Reorder moves the item at from so it ends up at to. The drag machine
// calls it on release.
func (f *ListField) Reorder(from, to int) {
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
func (f *ListField) ItemsChanged() {
	f.Refresh()
	f.emit(events.ItemsChanged{Component: f.id})
}

// settle verifies the count after a mutation; on a breach the rows are
// rebuilt and ItemsChanged replaces the specific event.
func (f *ListField) settle(op string, before, delta int) bool {
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
func (f *ListField) Attach(ctx context.Context, sched dispatch.Scheduler) {
	f.attach(ctx, sched, f.Detach)
}

// Detach stops every bound source and aborts a drag. It is idempotent.
func (f *ListField) Detach() {
	f.detach()
}

// SetMaxItems sets the item limit (negative for none) and refreshes the add
// affordance.
func (f *ListField) SetMaxItems(n int) {
	f.maxItems = n
	f.addEnabled = f.canAdd()
}

// SetLabel replaces the frame label.
func (f *ListField) SetLabel(s string) {
	f.label = s
}

// Revalidate recomputes affordance enablement without rebuilding content.
func (f *ListField) Revalidate() {
	if f.proxy == nil {
		return
	}
	for i, r := range f.rows {
		r.RemoveEnabled = f.canRemove(i)
	}
	f.addEnabled = f.canAdd()
}
