package resolve

import (
	"reflect"

	"tableflip.dev/coledit/pkg/dispatch"
)

// Source is a resolved value source. It is immutable once built.
type Source[T any] struct {
	name    string
	kind    StrategyKind
	polling bool
	acc     Accessor
	get     func() T
}

// Name returns the configured source name, empty for constants.
func (s *Source[T]) Name() string { return s.name }

// Kind returns the strategy that resolved the source.
func (s *Source[T]) Kind() StrategyKind { return s.kind }

// NeedsPolling reports whether Subscribe re-evaluates on a timer.
func (s *Source[T]) NeedsPolling() bool { return s.polling }

// Get evaluates the source now.
func (s *Source[T]) Get() T { return s.get() }

// Subscribe calls fn with the current value, then again whenever the value
// changes for as long as the subscription lives. Polling sources are checked
// every dispatch.PollInterval through sched; sibling sources fire
// synchronously from the property's change notification. The returned cancel
// is idempotent.
func (s *Source[T]) Subscribe(sched dispatch.Scheduler, fn func(T)) (cancel func()) {
	last := s.get()
	fn(last)

	stop := func() {}
	switch {
	case s.acc.Live != nil:
		stop = s.acc.Live.Watch(func(_, _ any) {
			v := s.get()
			last = v
			fn(v)
		})
	case s.polling && sched != nil:
		stop = sched.Every(dispatch.PollInterval, func() {
			v := s.get()
			if reflect.DeepEqual(v, last) {
				return
			}
			last = v
			fn(v)
		})
	}
	done := false
	return func() {
		if done {
			return
		}
		done = true
		stop()
	}
}

// Const returns a source that always yields v.
func Const[T any](v T) *Source[T] {
	return &Source[T]{kind: KindNone, get: func() T { return v }}
}

// Value resolves name to a source of T using the resolver's strategy chain.
func Value[T any](r *Resolver, t Target, name string) (*Source[T], error) {
	want := reflect.TypeFor[T]()
	acc, err := r.Resolve(t, name, want)
	if err != nil {
		return nil, err
	}
	return &Source[T]{
		name:    name,
		kind:    acc.Kind,
		polling: acc.NeedsPolling,
		acc:     acc,
		get: func() T {
			return as[T](acc.Get(), want)
		},
	}, nil
}

// ValueOr resolves name like Value. When resolution fails a configuration
// warning is reported and a constant source yielding def is returned.
func ValueOr[T any](r *Resolver, t Target, name string, def T) *Source[T] {
	src, err := Value[T](r, t, name)
	if err != nil {
		r.warn("resolve.Value", t, name, err)
		return Const(def)
	}
	return src
}

func as[T any](v reflect.Value, want reflect.Type) T {
	out := reflect.New(want).Elem()
	if v.IsValid() {
		switch {
		case v.Type().AssignableTo(want):
			out.Set(v)
		case v.Kind() == reflect.Interface && !v.IsNil() && v.Elem().Type().AssignableTo(want):
			out.Set(v.Elem())
		case v.Type().ConvertibleTo(want):
			out.Set(v.Convert(want))
		}
	}
	res, _ := out.Interface().(T)
	return res
}
