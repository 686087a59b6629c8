// Package edit runs the map editor over one collection of the store.
package edit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"

	"tableflip.dev/coledit/pkg/dispatch"
	"tableflip.dev/coledit/pkg/events"
	"tableflip.dev/coledit/pkg/field"
	"tableflip.dev/coledit/pkg/proxy"
	"tableflip.dev/coledit/pkg/report"
	"tableflip.dev/coledit/pkg/shapes"
	"tableflip.dev/coledit/pkg/store"
	"tableflip.dev/coledit/pkg/tui/editor"
	"tableflip.dev/coledit/pkg/tui/picker"
	"tableflip.dev/coledit/pkg/tui/theme"
)

// Edit configures `coledit edit`.
type Edit struct {
	Persistence store.Persistence
	Collection  string
	Logger      *slog.Logger
	// MaxItems caps the collection size; negative means no limit.
	MaxItems int
	// Watch reloads the editor when the store changes on disk.
	Watch bool
}

// Session is a map field bound to a store collection.
type Session struct {
	Store    *proxy.StoreMap
	Field    *field.MapField
	Queue    *dispatch.Queue
	Picker   *picker.Model
	Reporter *editor.Reporter
}

// Bind opens the collection and builds the field editing it.
func (e *Edit) Bind(ctx context.Context, th theme.Theme) (*Session, error) {
	coll := strings.TrimSpace(e.Collection)
	if coll == "" {
		return nil, errors.New("collection name is required")
	}
	if e.Persistence == nil {
		var err error
		e.Persistence, err = store.Load(nil)
		if err != nil {
			return nil, err
		}
	}

	logger := e.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	rep := &editor.Reporter{Next: &report.LogHandler{Logger: logger}}

	types := shapes.Registry()
	sm, err := proxy.NewStoreMap(ctx, e.Persistence, coll, types, shapes.ShapeType)
	if err != nil {
		return nil, err
	}
	sm.OnError = func(err error) {
		report.Report(rep, report.New("store", report.KindBackend, coll, err))
	}

	cfg := field.DefaultConfig()
	cfg.Label = coll
	cfg.AllowDerived = true
	cfg.IsCollapsable = true

	q := dispatch.NewQueue()
	pick := picker.New(th.Picker)
	f := field.NewMap(events.ComponentID(coll), cfg,
		field.WithHandler(rep),
		field.WithDispatcher(q),
		field.WithTypes(types, pick),
	)
	if err := f.SetProxy(sm); err != nil {
		return nil, err
	}
	if e.MaxItems != 0 {
		f.SetMaxItems(e.MaxItems)
	}
	return &Session{Store: sm, Field: f, Queue: q, Picker: pick, Reporter: rep}, nil
}

// Reload re-reads the collection when ev concerns it. The field is only
// told when the stored keys differ from the ones it shows.
func (s *Session) Reload(ctx context.Context, ev store.Event) {
	if ev.Type != store.EventCollectionsInvalidated && ev.Collection != s.Store.Collection() {
		return
	}
	before := s.Store.Keys()
	if err := s.Store.Reload(ctx); err != nil {
		report.Report(s.Reporter, report.New("store.Reload", report.KindBackend, s.Store.Collection(), err))
		return
	}
	if slices.Equal(before, s.Store.Keys()) {
		return
	}
	s.Field.ItemsChanged()
}

// Do runs the editor until the user quits.
func (e *Edit) Do(ctx context.Context) error {
	th := theme.Default()
	s, err := e.Bind(ctx, th)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.Field.Attach(ctx, dispatch.NewTickerScheduler(s.Queue))
	defer s.Field.Detach()

	opts := editor.Options{
		Queue:    s.Queue,
		Picker:   s.Picker,
		Reporter: s.Reporter,
		Theme:    &th,
	}
	if e.Watch {
		changes, err := e.Persistence.Watch(ctx)
		if err != nil {
			return err
		}
		opts.Changes = changes
		opts.Reload = func(ev store.Event) { s.Reload(ctx, ev) }
	}

	m := editor.New(s.Field, opts)
	defer m.Close()
	return editor.Run(ctx, m)
}
