// Package demo runs the list editor over an in-memory board of shapes.
package demo

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"tableflip.dev/coledit/pkg/dispatch"
	"tableflip.dev/coledit/pkg/field"
	"tableflip.dev/coledit/pkg/property"
	"tableflip.dev/coledit/pkg/proxy"
	"tableflip.dev/coledit/pkg/report"
	"tableflip.dev/coledit/pkg/resolve"
	"tableflip.dev/coledit/pkg/shapes"
	"tableflip.dev/coledit/pkg/store"
	"tableflip.dev/coledit/pkg/tui/editor"
	"tableflip.dev/coledit/pkg/tui/picker"
	"tableflip.dev/coledit/pkg/tui/theme"
)

// Demo configures `coledit demo`.
type Demo struct {
	// Config overrides the field options under the "demo" key. Optional.
	Config store.Config
	Logger *slog.Logger
	// Locked keeps the first shape from being removed.
	Locked bool
	// Limit caps the number of shapes; 0 keeps the board default.
	Limit int
}

// FieldConfig is the list configuration the demo starts from.
func FieldConfig() field.Config {
	cfg := field.DefaultConfig()
	cfg.Label = "Shapes"
	cfg.LabelSource = "Title"
	cfg.AllowDerived = true
	cfg.MaxItems = "MaxShapes"
	cfg.AllowRemove = "CanRemoveShape"
	cfg.AddCallback = "ShapeAdded"
	cfg.RemoveCallback = "ShapeRemoved"
	cfg.ReorderCallback = "ShapeMoved"
	cfg.IsCollapsable = true
	return cfg
}

// Session is a field bound to a board, ready to be attached.
type Session struct {
	Board    *shapes.Board
	Field    *field.ListField
	Queue    *dispatch.Queue
	Picker   *picker.Model
	Reporter *editor.Reporter
}

// Bind builds the board and the field editing its shapes.
func (d *Demo) Bind(th theme.Theme) (*Session, error) {
	cfg := FieldConfig()
	if d.Config != nil {
		if err := d.Config.Decode("demo", &cfg); err != nil {
			return nil, err
		}
	}

	board := shapes.NewBoard()
	board.Locked = d.Locked
	if d.Limit > 0 {
		board.Limit = d.Limit
	}

	tree, err := property.NewTree(board)
	if err != nil {
		return nil, err
	}
	prop, err := tree.Get("Shapes")
	if err != nil {
		return nil, err
	}
	list, err := proxy.NewSlice(&board.Shapes)
	if err != nil {
		return nil, err
	}

	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	rep := &editor.Reporter{Next: &report.LogHandler{Logger: logger}}
	q := dispatch.NewQueue()
	pick := picker.New(th.Picker)

	f := field.NewList("shapes", cfg,
		field.WithHandler(rep),
		field.WithDispatcher(q),
		field.WithTypes(shapes.Registry(), pick),
	)
	r := resolve.New(nil, resolve.WithHandler(rep))
	if err := field.BindList(f, r, resolve.Target{Owner: board, Property: prop}, list); err != nil {
		return nil, fmt.Errorf("demo: bind shapes: %w", err)
	}
	if err := field.WatchTree(f, tree, "Shapes"); err != nil {
		return nil, err
	}
	return &Session{Board: board, Field: f, Queue: q, Picker: pick, Reporter: rep}, nil
}

// Do runs the editor until the user quits.
func (d *Demo) Do(ctx context.Context) error {
	th := theme.Default()
	s, err := d.Bind(th)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.Field.Attach(ctx, dispatch.NewTickerScheduler(s.Queue))
	defer s.Field.Detach()

	m := editor.New(s.Field, editor.Options{
		Queue:    s.Queue,
		Picker:   s.Picker,
		Reporter: s.Reporter,
		Theme:    &th,
	})
	defer m.Close()
	if err := editor.Run(ctx, m); err != nil {
		return err
	}

	if d.Logger != nil {
		d.Logger.Info("demo finished",
			slog.Int("shapes", len(s.Board.Shapes)),
			slog.Float64("area", s.Board.TotalArea()),
			slog.Any("history", s.Board.History))
	}
	return nil
}
