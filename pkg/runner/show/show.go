// Package show prints store collections.
package show

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/coledit/pkg/printers"
	"tableflip.dev/coledit/pkg/store"
)

// Show configures `coledit show`.
type Show struct {
	Persistence store.Persistence
	// Collection limits output to one collection; every collection when empty.
	Collection string
	ShowType   bool
	JSON       bool
	// Indent is the JSON indentation; one line per document when empty.
	Indent string
	Out    io.Writer
}

type entry struct {
	Key   string          `json:"key"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type listing struct {
	Collection string  `json:"collection"`
	Items      []entry `json:"items"`
}

// Do prints the selected collections in key order.
func (s *Show) Do(ctx context.Context) error {
	if s.Persistence == nil {
		return errors.New("can not show, no persistence")
	}
	out := s.Out
	if out == nil {
		out = color.Output
	}

	names := []string{s.Collection}
	if s.Collection == "" {
		var err error
		if names, err = s.Persistence.Collections(ctx); err != nil {
			return err
		}
	}

	all := make([]listing, 0, len(names))
	for _, name := range names {
		l, err := s.load(ctx, name)
		if err != nil {
			return err
		}
		all = append(all, l)
	}

	if s.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", s.Indent)
		return enc.Encode(all)
	}

	pp := printers.PrettyPrint{Out: out, ShowType: s.ShowType}
	_, _ = fmt.Fprintln(out, "")
	for _, l := range all {
		pp.TitleWithCount(l.Collection, len(l.Items))
		items := make([]printers.Item, 0, len(l.Items))
		for _, e := range l.Items {
			items = append(items, printers.Item{Key: e.Key, Type: e.Type, Value: string(e.Value)})
		}
		pp.Collection(items...)
	}
	return nil
}

func (s *Show) load(ctx context.Context, name string) (listing, error) {
	keys, err := s.Persistence.Keys(ctx, name)
	if err != nil {
		return listing{}, err
	}
	l := listing{Collection: name, Items: make([]entry, 0, len(keys))}
	for _, k := range keys {
		rec, err := s.Persistence.Get(name, k)
		if err != nil {
			return listing{}, fmt.Errorf("show %s/%s: %w", name, k, err)
		}
		l.Items = append(l.Items, entry{Key: k, Type: rec.Type, Value: rec.Value})
	}
	return l, nil
}
