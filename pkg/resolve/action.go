package resolve

import (
	"fmt"
	"reflect"
	"strings"

	"tableflip.dev/coledit/pkg/report"
)

var boolType = reflect.TypeFor[bool]()

// Predicate resolves name to a one-parameter method returning bool, instance
// before static. P must be assignable to the parameter.
func Predicate[P any](r *Resolver, t Target, name string) (func(P) bool, error) {
	param := reflect.TypeFor[P]()
	fn, ok := r.callable(t, name, []reflect.Type{param}, boolType)
	if !ok {
		return nil, fmt.Errorf("%w: predicate %q(%v)", report.ErrUnresolved, name, param)
	}
	return func(p P) bool {
		out := fn.Call([]reflect.Value{argValue(p, param)})
		return out[0].Bool()
	}, nil
}

// Action is a resolved callback hook.
type Action struct {
	name  string
	arity int
	fn    reflect.Value
}

// Name returns the configured callback name.
func (a *Action) Name() string { return a.name }

// Arity returns how many payload values the bound callable takes.
func (a *Action) Arity() int { return a.arity }

// Invoke calls the hook with the leading payload values it accepts.
// A nil Action does nothing.
func (a *Action) Invoke(payload ...any) {
	if a == nil {
		return
	}
	in := make([]reflect.Value, a.arity)
	ft := a.fn.Type()
	for i := 0; i < a.arity; i++ {
		var v any
		if i < len(payload) {
			v = payload[i]
		}
		in[i] = argValue(v, ft.In(i))
	}
	a.fn.Call(in)
}

// Action resolves a callback by name. It tries a method with no parameters,
// then one parameter accepting payload[0], then two parameters accepting
// payload[0] and payload[1]. The first match wins.
func (r *Resolver) Action(t Target, name string, payload ...reflect.Type) (*Action, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty callback name", report.ErrUnresolved)
	}
	for arity := 0; arity <= 2 && arity <= len(payload); arity++ {
		if fn, ok := r.callable(t, name, payload[:arity], nil); ok {
			return &Action{name: name, arity: arity, fn: fn}, nil
		}
	}
	return nil, fmt.Errorf("%w: callback %q", report.ErrUnresolved, name)
}

// ActionOr resolves like Action and reports a configuration warning on
// failure. The returned Action is nil when unresolved; Invoke on nil is a
// no-op, leaving the hook unwired.
func (r *Resolver) ActionOr(t Target, name string, payload ...reflect.Type) *Action {
	if name == "" {
		return nil
	}
	a, err := r.Action(t, name, payload...)
	if err != nil {
		r.warn("resolve.Action", t, name, err)
		return nil
	}
	return a
}

// callable finds a method named name whose parameters accept params and
// whose single result is assignable to out (any result count when out is nil).
func (r *Resolver) callable(t Target, name string, params []reflect.Type, out reflect.Type) (reflect.Value, bool) {
	owner := t.owner()
	if owner == nil {
		return reflect.Value{}, false
	}
	ov := reflect.ValueOf(owner)
	key := memoKey{owner: ov.Type(), name: name, want: out, kind: KindMethod, params: "call:" + paramKey(params)}
	m := r.member(key, func() *member {
		if meth, ok := ov.Type().MethodByName(name); ok && accepts(meth.Type, 1, params, out) {
			return &member{methodIndex: meth.Index}
		}
		for _, s := range r.registry.lookup(declaringType(owner), name, staticMethod) {
			if accepts(s.fn.Type(), 0, params, out) {
				s := s
				return &member{methodIndex: -1, static: &s}
			}
		}
		return nil
	})
	if m == nil {
		return reflect.Value{}, false
	}
	if m.static != nil {
		return m.static.fn, true
	}
	return ov.Method(m.methodIndex), true
}

// accepts reports whether ft, skipping the first skip inputs, takes exactly
// params and returns out.
func accepts(ft reflect.Type, skip int, params []reflect.Type, out reflect.Type) bool {
	if ft.IsVariadic() || ft.NumIn() != skip+len(params) {
		return false
	}
	for i, p := range params {
		if !p.AssignableTo(ft.In(skip + i)) {
			return false
		}
	}
	if out == nil {
		return true
	}
	return ft.NumOut() == 1 && ft.Out(0).AssignableTo(out)
}

func paramKey(params []reflect.Type) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}

func argValue(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv
	}
	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t)
	}
	return reflect.Zero(t)
}
