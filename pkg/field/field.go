// Package field implements the list and map editing controllers. A field
// keeps its rows in step with a proxy, validates and performs structural
// mutations, and emits events once a mutation and the following refresh
// are complete.
//
// Fields are single threaded: every method must be called on the dispatch
// thread that drains the field's dispatcher.
package field

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"tableflip.dev/coledit/pkg/dispatch"
	"tableflip.dev/coledit/pkg/drag"
	"tableflip.dev/coledit/pkg/events"
	"tableflip.dev/coledit/pkg/proxy"
	"tableflip.dev/coledit/pkg/report"
	"tableflip.dev/coledit/pkg/typesel"
)

// Row is the visual wrapper for one item.
type Row struct {
	// Index is the row position.
	Index int
	// Key is the map key; empty for lists.
	Key string
	// Odd is the parity flag used for striping.
	Odd bool
	// Dragging is set while the row follows the pointer.
	Dragging bool
	// RemoveEnabled tells whether the remove affordance is active.
	RemoveEnabled bool
	// Content is the item editing surface built by the proxy.
	Content proxy.Content
	// Generation increases every time Content is rebuilt.
	Generation int
}

// Tooltips are the static affordance hints.
type Tooltips struct {
	Empty, Add, Remove, Reorder string
}

// Option configures a field.
type Option func(*base)

// WithHandler sets where errors are reported; the global report handler
// when unset.
func WithHandler(h report.Handler) Option {
	return func(b *base) { b.handler = h }
}

// WithDispatcher sets the dispatcher used for type selection completion and
// context-driven detach. A field given types but no queued dispatcher makes
// its own queue, returned by Dispatcher, since a type choice must never
// complete inside the Add that asked for it.
func WithDispatcher(d dispatch.Dispatcher) Option {
	return func(b *base) { b.dispatcher = d }
}

// WithTypes offers the derived types registered in reg when AllowDerived is
// set, presented through chooser.
func WithTypes(reg *typesel.Registry, chooser typesel.Chooser) Option {
	return func(b *base) {
		b.types = reg
		b.chooser = chooser
	}
}

// WithHost forwards drag visuals to h in addition to the row flags the field
// maintains itself.
func WithHost(h drag.Host) Option {
	return func(b *base) { b.host = h }
}

// base holds what list and map fields share.
type base struct {
	id      events.ComponentID
	cfg     Config
	handler report.Handler

	dispatcher dispatch.Dispatcher
	types      *typesel.Registry
	chooser    typesel.Chooser
	provider   *typesel.Provider
	anchor     typesel.Anchor
	itemType   reflect.Type

	bus        events.Bus
	rows       []*Row
	generation int
	empty      bool
	addEnabled bool
	pending    bool

	label     string
	maxItems  int
	collapsed bool

	machine     *drag.Machine
	host        drag.Host
	placeholder int

	mutated  map[int]func()
	nextHook int

	bindings []func(dispatch.Scheduler) func()
	cancels  []func()
	sched    dispatch.Scheduler
	attached bool
	detached chan struct{}
}

func newBase(id events.ComponentID, cfg Config, noun string, opts []Option) base {
	b := base{
		id:          id,
		cfg:         cfg.withDefaults(noun),
		maxItems:    -1,
		placeholder: -1,
		empty:       true,
	}
	b.label = b.cfg.Label
	for _, opt := range opts {
		opt(&b)
	}
	if b.types != nil && b.chooser != nil {
		if _, immediate := b.dispatcher.(dispatch.Immediate); immediate || b.dispatcher == nil {
			b.dispatcher = dispatch.NewQueue()
		}
		b.provider = &typesel.Provider{Registry: b.types, Chooser: b.chooser, Dispatcher: b.dispatcher}
	}
	if b.dispatcher == nil {
		b.dispatcher = dispatch.Immediate{}
	}
	return b
}

// Dispatcher returns where the field posts deferred work. Whoever drives the
// field drains it.
func (b *base) Dispatcher() dispatch.Dispatcher { return b.dispatcher }

// ID returns the component id carried by emitted events.
func (b *base) ID() events.ComponentID { return b.id }

// Config returns the effective configuration, defaults applied.
func (b *base) Config() Config { return b.cfg }

// Subscribe registers l for this field's events.
func (b *base) Subscribe(l events.Listener) (cancel func()) {
	return b.bus.Subscribe(l)
}

// Rows returns a snapshot of the rows.
func (b *base) Rows() []Row {
	out := make([]Row, len(b.rows))
	for i, r := range b.rows {
		out[i] = *r
	}
	return out
}

// Empty reports whether the collection has no items.
func (b *base) Empty() bool { return b.empty }

// AddEnabled reports whether the add affordance is active.
func (b *base) AddEnabled() bool { return b.addEnabled }

// Pending reports whether a type selection is open.
func (b *base) Pending() bool { return b.pending }

// Label returns the frame label, which a label source may update.
func (b *base) Label() string { return b.label }

// Tooltips returns the affordance hints.
func (b *base) Tooltips() Tooltips {
	return Tooltips{
		Empty:   b.cfg.EmptyTooltip,
		Add:     b.cfg.AddTooltip,
		Remove:  b.cfg.RemoveTooltip,
		Reorder: b.cfg.ReorderTooltip,
	}
}

// Collapsed reports whether the enclosing frame is folded.
func (b *base) Collapsed() bool { return b.collapsed }

// SetCollapsed folds or unfolds the frame when IsCollapsable is set.
func (b *base) SetCollapsed(c bool) {
	if b.cfg.IsCollapsable {
		b.collapsed = c
	}
}

// MaxItems returns the item limit, negative for none.
func (b *base) MaxItems() int { return b.maxItems }

// Drag returns the reorder state machine.
func (b *base) Drag() *drag.Machine { return b.machine }

// Placeholder returns the drop slot while dragging, or -1.
func (b *base) Placeholder() int { return b.placeholder }

// SetLayout sets where the drag machine finds row centers.
func (b *base) SetLayout(l drag.Layout) {
	b.machine.Layout = l
}

// SetAddAnchor sets where the type chooser opens.
func (b *base) SetAddAnchor(a typesel.Anchor) { b.anchor = a }

// Bind registers a subscription started on Attach and stopped on Detach.
// Bindings added while attached start immediately.
func (b *base) Bind(start func(dispatch.Scheduler) (cancel func())) {
	b.bindings = append(b.bindings, start)
	if b.attached {
		b.cancels = append(b.cancels, start(b.sched))
	}
}

// AfterMutation registers fn to run after each of the field's own proxy
// mutations, before the matching event is emitted.
func (b *base) AfterMutation(fn func()) (cancel func()) {
	if b.mutated == nil {
		b.mutated = make(map[int]func())
	}
	id := b.nextHook
	b.nextHook++
	b.mutated[id] = fn
	return func() { delete(b.mutated, id) }
}

func (b *base) afterMutation() {
	ids := make([]int, 0, len(b.mutated))
	for id := range b.mutated {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := b.mutated[id]; ok {
			fn()
		}
	}
}

// Attached reports whether the field is attached.
func (b *base) Attached() bool { return b.attached }

func (b *base) attach(ctx context.Context, sched dispatch.Scheduler, detach func()) {
	if b.attached {
		return
	}
	b.attached = true
	b.sched = sched
	for _, start := range b.bindings {
		b.cancels = append(b.cancels, start(sched))
	}
	if ctx == nil {
		return
	}
	done := make(chan struct{})
	b.detached = done
	go func() {
		select {
		case <-ctx.Done():
			b.dispatcher.Post(func() {
				select {
				case <-done:
				default:
					detach()
				}
			})
		case <-done:
		}
	}()
}

func (b *base) detach() {
	if !b.attached {
		return
	}
	b.attached = false
	b.machine.Abort()
	for i := len(b.cancels) - 1; i >= 0; i-- {
		b.cancels[i]()
	}
	b.cancels = nil
	if b.detached != nil {
		close(b.detached)
		b.detached = nil
	}
}

func (b *base) emit(e events.Event) {
	b.bus.Emit(e)
}

func (b *base) report(op string, kind report.Kind, err error) {
	report.Report(b.handler, report.New(op, kind, string(b.id), err))
}

func (b *base) nextGeneration() int {
	b.generation++
	return b.generation
}

// trim drops trailing rows beyond n.
func (b *base) trim(n int) {
	for len(b.rows) > n {
		b.rows[len(b.rows)-1] = nil
		b.rows = b.rows[:len(b.rows)-1]
	}
}

func (b *base) underLimit(count int) bool {
	return b.maxItems < 0 || count < b.maxItems
}

// verify checks the count after a mutation. On mismatch it reports an
// invariant breach and returns false; the caller rebuilds and emits
// ItemsChanged instead of its own event.
func (b *base) verify(op string, before, after, delta int) bool {
	if after == before+delta {
		return true
	}
	b.report(op, report.KindInvariant, fmt.Errorf("%w: count %d -> %d, want %+d", report.ErrCountMismatch, before, after, delta))
	return false
}

// chooseType resolves the type to add and calls add with it, possibly on a
// later dispatch turn. A nil type means the declared item type.
func (b *base) chooseType(add func(t reflect.Type)) {
	if !b.cfg.AllowDerived || b.types == nil {
		add(nil)
		return
	}
	list := b.types.List(b.itemType, false)
	switch list.Len() {
	case 0:
		add(nil)
	case 1:
		t, _ := list.Single()
		add(t)
	default:
		if b.provider == nil {
			add(nil)
			return
		}
		b.pending = true
		b.provider.Open(b.anchor, b.itemType, false, func(t reflect.Type, ok bool) {
			b.pending = false
			if ok {
				add(t)
			}
		})
	}
}

// typeValid reports whether some type can be added through canAddType.
func (b *base) typeValid(canAddType func(reflect.Type) bool) bool {
	if canAddType(nil) {
		return true
	}
	if !b.cfg.AllowDerived || b.types == nil {
		return false
	}
	for _, e := range b.types.List(b.itemType, false).Entries {
		if canAddType(e.Type) {
			return true
		}
	}
	return false
}

func (b *base) checkItemType(op string, t reflect.Type) error {
	if t == nil {
		err := fmt.Errorf("%w: no item type", report.ErrNotCreatable)
		b.report(op, report.KindType, err)
		return report.New(op, report.KindType, string(b.id), err)
	}
	if !b.cfg.AllowDerived && !typesel.Creatable(t) {
		err := fmt.Errorf("%w: %v", report.ErrNotCreatable, t)
		b.report(op, report.KindType, err)
		return report.New(op, report.KindType, string(b.id), err)
	}
	return nil
}
