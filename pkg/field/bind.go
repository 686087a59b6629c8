package field

import (
	"reflect"

	"tableflip.dev/coledit/pkg/dispatch"
	"tableflip.dev/coledit/pkg/events"
	"tableflip.dev/coledit/pkg/property"
	"tableflip.dev/coledit/pkg/proxy"
	"tableflip.dev/coledit/pkg/resolve"
)

var (
	intType    = reflect.TypeFor[int]()
	stringType = reflect.TypeFor[string]()
)

// BindList resolves the configured sources and callbacks of f against t,
// wraps p with the resulting guards and hands it to f. Sources that fail to
// resolve are reported as configuration warnings and fall back to their
// defaults.
func BindList(f *ListField, r *resolve.Resolver, t resolve.Target, p proxy.List) error {
	cfg := f.cfg
	guard := proxy.ListGuard{}
	if named(cfg.AllowAdd) {
		src := resolve.ValueOr(r, t, cfg.AllowAdd, true)
		guard.CanAdd = src.Get
		f.Bind(revalidateOn(src, f.Revalidate))
	}
	if named(cfg.AllowRemove) {
		if pred, err := resolve.Predicate[int](r, t, cfg.AllowRemove); err == nil {
			guard.CanRemove = pred
		} else {
			src := resolve.ValueOr(r, t, cfg.AllowRemove, true)
			guard.CanRemove = func(int) bool { return src.Get() }
			f.Bind(revalidateOn(src, f.Revalidate))
		}
	}
	bindCommon(&f.base, r, t, f.SetMaxItems, f.SetLabel)
	bindCallbacks(&f.base, r, t, intType)
	return f.SetProxy(&proxy.GuardList{List: p, Guard: guard})
}

// BindMap is BindList for map fields. Predicates take the key.
func BindMap(f *MapField, r *resolve.Resolver, t resolve.Target, p proxy.Map) error {
	cfg := f.cfg
	guard := proxy.MapGuard{}
	if named(cfg.AllowAdd) {
		if pred, err := resolve.Predicate[string](r, t, cfg.AllowAdd); err == nil {
			guard.CanAddKey = pred
		} else {
			src := resolve.ValueOr(r, t, cfg.AllowAdd, true)
			guard.CanAdd = src.Get
			f.Bind(revalidateOn(src, f.Revalidate))
		}
	}
	if named(cfg.AllowRemove) {
		if pred, err := resolve.Predicate[string](r, t, cfg.AllowRemove); err == nil {
			guard.CanRemove = func(_ int, key string) bool { return pred(key) }
		} else {
			src := resolve.ValueOr(r, t, cfg.AllowRemove, true)
			guard.CanRemove = func(int, string) bool { return src.Get() }
			f.Bind(revalidateOn(src, f.Revalidate))
		}
	}
	bindCommon(&f.base, r, t, f.SetMaxItems, f.SetLabel)
	bindCallbacks(&f.base, r, t, stringType)
	return f.SetProxy(&proxy.GuardMap{Map: p, Guard: guard})
}

// named reports whether an allow option names a source.
func named(opt string) bool {
	return opt != Always && opt != Never
}

func revalidateOn(src *resolve.Source[bool], revalidate func()) func(dispatch.Scheduler) func() {
	return func(sched dispatch.Scheduler) func() {
		return src.Subscribe(sched, func(bool) { revalidate() })
	}
}

func bindCommon(b *base, r *resolve.Resolver, t resolve.Target, setMax func(int), setLabel func(string)) {
	if b.cfg.MaxItems != "" {
		src := resolve.ValueOr(r, t, b.cfg.MaxItems, -1)
		b.Bind(func(sched dispatch.Scheduler) func() {
			return src.Subscribe(sched, setMax)
		})
	}
	if b.cfg.LabelSource != "" {
		src := resolve.ValueOr(r, t, b.cfg.LabelSource, b.cfg.Label)
		b.Bind(func(sched dispatch.Scheduler) func() {
			return src.Subscribe(sched, setLabel)
		})
	}
}

// bindCallbacks wires the hooks onto the field's events. id is the payload
// type identifying an item: int for lists, string for maps.
func bindCallbacks(b *base, r *resolve.Resolver, t resolve.Target, id reflect.Type) {
	add := r.ActionOr(t, b.cfg.AddCallback, id)
	remove := r.ActionOr(t, b.cfg.RemoveCallback, id)
	reorder := r.ActionOr(t, b.cfg.ReorderCallback, intType, intType)
	change := r.ActionOr(t, b.cfg.ChangeCallback)
	if add == nil && remove == nil && reorder == nil && change == nil {
		return
	}
	item := func(index int, key string) any {
		if id == stringType {
			return key
		}
		return index
	}
	b.Subscribe(func(e events.Event) {
		switch e := e.(type) {
		case events.ItemAdded:
			add.Invoke(item(e.Index, e.Key))
		case events.ItemRemoved:
			remove.Invoke(item(e.Index, e.Key))
		case events.ItemReordered:
			reorder.Invoke(e.From, e.To)
		}
		change.Invoke()
	})
}

// sizeNotifier is satisfied by both field kinds.
type sizeNotifier interface {
	Bind(start func(dispatch.Scheduler) func())
	AfterMutation(fn func()) func()
	ItemsChanged()
}

// WatchTree calls f.ItemsChanged whenever the collection at path in tree
// changes size through anything other than the field's own operations.
// While attached the tree is also synced on every poll so mutations made
// behind its back are picked up.
func WatchTree(f sizeNotifier, tree *property.Tree, path string) error {
	if _, err := tree.Get(path); err != nil {
		return err
	}
	f.Bind(func(sched dispatch.Scheduler) func() {
		cancel, err := tree.WatchSize(path, func(_, _ int) { f.ItemsChanged() })
		if err != nil {
			return func() {}
		}
		own := f.AfterMutation(func() { tree.Resync(path) })
		stop := func() {}
		if sched != nil {
			stop = sched.Every(dispatch.PollInterval, func() { tree.Sync() })
		}
		return func() {
			stop()
			own()
			cancel()
		}
	})
	return nil
}
