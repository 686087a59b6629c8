package typesel

import (
	"reflect"

	"tableflip.dev/coledit/pkg/dispatch"
)

// Anchor is the screen position the chooser should open near.
type Anchor struct {
	X, Y int
}

// Chooser presents a catalog and reports the pick through done. done may be
// called at any time, including before Choose returns; ok is false when the
// user dismissed the chooser.
type Chooser interface {
	Choose(anchor Anchor, list *List, done func(t reflect.Type, ok bool))
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(anchor Anchor, list *List, done func(t reflect.Type, ok bool))

// Choose calls f.
func (f ChooserFunc) Choose(anchor Anchor, list *List, done func(t reflect.Type, ok bool)) {
	f(anchor, list, done)
}

// Provider opens a chooser over a registry catalog.
type Provider struct {
	Registry   *Registry
	Chooser    Chooser
	Dispatcher dispatch.Dispatcher
}

// Open starts a type selection for base and returns immediately. done always
// runs on a later dispatch turn, never inside Open.
func (p *Provider) Open(anchor Anchor, base reflect.Type, includeAbstract bool, done func(t reflect.Type, ok bool)) {
	complete := func(t reflect.Type, ok bool) {
		p.Dispatcher.Post(func() { done(t, ok) })
	}
	if p.Chooser == nil || p.Registry == nil {
		complete(nil, false)
		return
	}
	list := p.Registry.List(base, includeAbstract)
	var fired bool
	p.Chooser.Choose(anchor, list, func(t reflect.Type, ok bool) {
		if fired {
			return
		}
		fired = true
		if ok && !list.Contains(t) {
			ok = false
			t = nil
		}
		complete(t, ok)
	})
}
