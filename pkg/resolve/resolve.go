// Package resolve binds configured source names to live accessors and
// callbacks on the object that declares an editing field.
//
// Value sources are looked up through an ordered strategy chain: sibling
// data, zero-argument method, zero-argument property, then field. The first
// strategy that handles a name wins. Lookups are memoized per declaring type
// so binding another instance of the same type is a closure over a cached
// member.
package resolve

import (
	"fmt"
	"reflect"
	"sync"

	"tableflip.dev/coledit/pkg/property"
	"tableflip.dev/coledit/pkg/report"
)

// StrategyKind names the resolver strategy that produced an accessor.
type StrategyKind int

const (
	// KindNone marks a constant source that was not resolved.
	KindNone StrategyKind = iota
	// KindSibling is a scalar data property next to the edited field.
	KindSibling
	// KindMethod is a zero-argument method.
	KindMethod
	// KindProperty is a zero-argument getter: a func field or a static getter.
	KindProperty
	// KindField is a plain field of the exact requested type.
	KindField
)

func (k StrategyKind) String() string {
	switch k {
	case KindSibling:
		return "sibling"
	case KindMethod:
		return "method"
	case KindProperty:
		return "property"
	case KindField:
		return "field"
	default:
		return "none"
	}
}

// Target is what a name is resolved against.
type Target struct {
	// Owner is the declaring instance, usually a struct pointer. When nil the
	// owner of Property is used.
	Owner any
	// Property is the edited field. It is required for sibling binding.
	Property property.Property
}

func (t Target) owner() any {
	if t.Owner != nil {
		return t.Owner
	}
	if t.Property != nil {
		return t.Property.Owner()
	}
	return nil
}

func (t Target) field() string {
	if t.Property != nil {
		return t.Property.Path()
	}
	return ""
}

// declaringType returns the struct type that declares members, with any
// pointer indirection removed.
func declaringType(owner any) reflect.Type {
	if owner == nil {
		return nil
	}
	typ := reflect.TypeOf(owner)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ
}

// Accessor is a resolved value getter.
type Accessor struct {
	Kind         StrategyKind
	Get          func() reflect.Value
	NeedsPolling bool
	// Live is set for sibling accessors; changes arrive through its Watch.
	Live property.Property
}

// Strategy is one member-lookup rule in the value-source chain.
type Strategy interface {
	Kind() StrategyKind
	TryResolve(r *Resolver, t Target, name string, want reflect.Type) (Accessor, bool)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStrategies replaces the value-source chain. Nil strategies are ignored.
func WithStrategies(strategies ...Strategy) Option {
	return func(r *Resolver) {
		out := make([]Strategy, 0, len(strategies))
		for _, s := range strategies {
			if s != nil {
				out = append(out, s)
			}
		}
		r.strats = out
	}
}

// WithHandler sets where configuration warnings are reported.
func WithHandler(h report.Handler) Option {
	return func(r *Resolver) {
		r.handler = h
	}
}

// Resolver resolves names against targets. It is safe for concurrent use.
type Resolver struct {
	registry *Registry
	strats   []Strategy
	handler  report.Handler

	members sync.Map // memoKey -> *member
}

// New constructs a resolver over reg. A nil reg means no static members.
func New(reg *Registry, opts ...Option) *Resolver {
	if reg == nil {
		reg = NewRegistry()
	}
	r := &Resolver{
		registry: reg,
		strats:   DefaultStrategies(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultStrategies returns the standard precedence chain.
func DefaultStrategies() []Strategy {
	return []Strategy{
		SiblingStrategy{},
		MethodStrategy{},
		PropertyStrategy{},
		FieldStrategy{},
	}
}

// Registry returns the static member registry.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Handler returns the configured report handler, possibly nil.
func (r *Resolver) Handler() report.Handler {
	return r.handler
}

// Resolve runs the strategy chain for name and returns the first accessor
// whose type is compatible with want.
func (r *Resolver) Resolve(t Target, name string, want reflect.Type) (Accessor, error) {
	if name == "" {
		return Accessor{}, fmt.Errorf("%w: empty name", report.ErrUnresolved)
	}
	for _, s := range r.strats {
		if acc, ok := s.TryResolve(r, t, name, want); ok {
			return acc, nil
		}
	}
	return Accessor{}, fmt.Errorf("%w: %q on %v as %v", report.ErrUnresolved, name, declaringType(t.owner()), want)
}

func (r *Resolver) warn(op string, t Target, name string, err error) {
	report.Report(r.handler, report.Configuration(op, t.field(), name, err))
}
