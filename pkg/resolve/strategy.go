package resolve

import (
	"reflect"
	"strings"

	"tableflip.dev/coledit/pkg/property"
)

// TagName is the struct tag consulted for field options. A field tagged
// `coledit:"readonly"` is treated as constant and never polled.
const TagName = "coledit"

type memoKey struct {
	owner  reflect.Type
	name   string
	want   reflect.Type
	kind   StrategyKind
	params string
}

type member struct {
	methodIndex int
	fieldIndex  []int
	static      *static
	readonly    bool
	out         reflect.Type
}

func (r *Resolver) member(key memoKey, find func() *member) *member {
	if v, ok := r.members.Load(key); ok {
		return v.(*member)
	}
	v, _ := r.members.LoadOrStore(key, find())
	return v.(*member)
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func structField(typ reflect.Type, name string) (reflect.StructField, bool) {
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return reflect.StructField{}, false
	}
	sf, ok := typ.FieldByName(name)
	if !ok || !sf.IsExported() {
		return reflect.StructField{}, false
	}
	return sf, true
}

func fieldValue(owner reflect.Value, index []int, typ reflect.Type) reflect.Value {
	sv := indirect(owner)
	if !sv.IsValid() {
		return reflect.Zero(typ)
	}
	f, err := sv.FieldByIndexErr(index)
	if err != nil {
		return reflect.Zero(typ)
	}
	return f
}

func hasTagOption(sf reflect.StructField, opt string) bool {
	for _, part := range strings.Split(sf.Tag.Get(TagName), ",") {
		if strings.TrimSpace(part) == opt {
			return true
		}
	}
	return false
}

// getterOf reports whether t is func() R with R assignable to want.
func getterOf(t reflect.Type, want reflect.Type) bool {
	return t.Kind() == reflect.Func && t.NumIn() == 0 && t.NumOut() == 1 && t.Out(0).AssignableTo(want)
}

// scalarCompatible reports whether a sibling of type from can feed a value
// of type to: both boolean, both numeric, or both strings.
func scalarCompatible(from, to reflect.Type) bool {
	if !property.IsScalar(from) || !property.IsScalar(to) {
		return false
	}
	return scalarClass(from) == scalarClass(to)
}

func scalarClass(t reflect.Type) int {
	switch t.Kind() {
	case reflect.Bool:
		return 1
	case reflect.String:
		return 2
	default:
		return 3
	}
}

// SiblingStrategy binds to a scalar property next to the edited field.
type SiblingStrategy struct{}

// Kind implements Strategy.
func (SiblingStrategy) Kind() StrategyKind { return KindSibling }

// TryResolve implements Strategy.
func (SiblingStrategy) TryResolve(_ *Resolver, t Target, name string, want reflect.Type) (Accessor, bool) {
	if t.Property == nil {
		return Accessor{}, false
	}
	sib, ok := t.Property.Sibling(name)
	if !ok || !scalarCompatible(sib.Type(), want) {
		return Accessor{}, false
	}
	return Accessor{
		Kind: KindSibling,
		Get: func() reflect.Value {
			v := sib.Value()
			if v == nil {
				return reflect.Zero(want)
			}
			return reflect.ValueOf(v)
		},
		Live: sib,
	}, true
}

// MethodStrategy binds to a zero-argument method, instance before static.
type MethodStrategy struct{}

// Kind implements Strategy.
func (MethodStrategy) Kind() StrategyKind { return KindMethod }

// TryResolve implements Strategy.
func (MethodStrategy) TryResolve(r *Resolver, t Target, name string, want reflect.Type) (Accessor, bool) {
	owner := t.owner()
	if owner == nil {
		return Accessor{}, false
	}
	ov := reflect.ValueOf(owner)
	m := r.member(memoKey{owner: ov.Type(), name: name, want: want, kind: KindMethod}, func() *member {
		if meth, ok := ov.Type().MethodByName(name); ok {
			// meth.Type includes the receiver.
			mt := meth.Type
			if mt.NumIn() == 1 && mt.NumOut() == 1 && mt.Out(0).AssignableTo(want) {
				return &member{methodIndex: meth.Index}
			}
		}
		for _, s := range r.registry.lookup(declaringType(owner), name, staticMethod) {
			if getterOf(s.fn.Type(), want) {
				s := s
				return &member{methodIndex: -1, static: &s}
			}
		}
		return nil
	})
	if m == nil {
		return Accessor{}, false
	}
	get := func() reflect.Value {
		return ov.Method(m.methodIndex).Call(nil)[0]
	}
	if m.static != nil {
		fn := m.static.fn
		get = func() reflect.Value { return fn.Call(nil)[0] }
	}
	return Accessor{Kind: KindMethod, Get: get, NeedsPolling: true}, true
}

// PropertyStrategy binds to a getter: an exported func() R field on the
// owner, or a static property.
type PropertyStrategy struct{}

// Kind implements Strategy.
func (PropertyStrategy) Kind() StrategyKind { return KindProperty }

// TryResolve implements Strategy.
func (PropertyStrategy) TryResolve(r *Resolver, t Target, name string, want reflect.Type) (Accessor, bool) {
	owner := t.owner()
	if owner == nil {
		return Accessor{}, false
	}
	ov := reflect.ValueOf(owner)
	m := r.member(memoKey{owner: ov.Type(), name: name, want: want, kind: KindProperty}, func() *member {
		if sf, ok := structField(ov.Type(), name); ok && getterOf(sf.Type, want) {
			return &member{fieldIndex: sf.Index, out: sf.Type.Out(0)}
		}
		for _, s := range r.registry.lookup(declaringType(owner), name, staticProperty) {
			if getterOf(s.fn.Type(), want) {
				s := s
				return &member{static: &s}
			}
		}
		return nil
	})
	if m == nil {
		return Accessor{}, false
	}
	var get func() reflect.Value
	if m.static != nil {
		fn := m.static.fn
		get = func() reflect.Value { return fn.Call(nil)[0] }
	} else {
		get = func() reflect.Value {
			fn := fieldValue(ov, m.fieldIndex, reflect.FuncOf(nil, []reflect.Type{m.out}, false))
			if fn.IsNil() {
				return reflect.Zero(m.out)
			}
			return fn.Call(nil)[0]
		}
	}
	return Accessor{Kind: KindProperty, Get: get, NeedsPolling: true}, true
}

// FieldStrategy binds to a field of exactly the requested type, instance
// before static. Read-only fields and static constants are not polled.
type FieldStrategy struct{}

// Kind implements Strategy.
func (FieldStrategy) Kind() StrategyKind { return KindField }

// TryResolve implements Strategy.
func (FieldStrategy) TryResolve(r *Resolver, t Target, name string, want reflect.Type) (Accessor, bool) {
	owner := t.owner()
	if owner == nil {
		return Accessor{}, false
	}
	ov := reflect.ValueOf(owner)
	m := r.member(memoKey{owner: ov.Type(), name: name, want: want, kind: KindField}, func() *member {
		if sf, ok := structField(ov.Type(), name); ok && sf.Type == want {
			return &member{fieldIndex: sf.Index, readonly: hasTagOption(sf, "readonly")}
		}
		for _, s := range r.registry.lookup(declaringType(owner), name, staticField) {
			typ := s.value.Type()
			if !s.readonly {
				typ = typ.Elem()
			}
			if typ == want {
				s := s
				return &member{static: &s, readonly: s.readonly}
			}
		}
		return nil
	})
	if m == nil {
		return Accessor{}, false
	}
	var get func() reflect.Value
	switch {
	case m.static != nil && m.static.readonly:
		v := m.static.value
		get = func() reflect.Value { return v }
	case m.static != nil:
		ptr := m.static.value
		get = func() reflect.Value { return ptr.Elem() }
	default:
		get = func() reflect.Value { return fieldValue(ov, m.fieldIndex, want) }
	}
	return Accessor{Kind: KindField, Get: get, NeedsPolling: !m.readonly}, true
}
