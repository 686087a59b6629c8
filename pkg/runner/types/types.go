// Package types prints the type selection catalog of the shape hierarchy.
package types

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/coledit/pkg/printers"
	"tableflip.dev/coledit/pkg/shapes"
	"tableflip.dev/coledit/pkg/typesel"
)

// Types configures `coledit types`.
type Types struct {
	// Base names the type whose catalog is printed; "Shape" when empty.
	Base string
	// Abstract includes types that cannot be created.
	Abstract bool
	JSON     bool
	// Indent is the JSON indentation; one line per document when empty.
	Indent   string
	Out      io.Writer
	Registry *typesel.Registry
}

// Do prints the catalog.
func (t *Types) Do(_ context.Context) error {
	reg := t.Registry
	if reg == nil {
		reg = shapes.Registry()
	}
	name := t.Base
	if name == "" {
		name = reg.Name(shapes.ShapeType)
	}
	base, ok := reg.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown type %q", name)
	}
	out := t.Out
	if out == nil {
		out = color.Output
	}

	paths := reg.List(base, t.Abstract).Paths()
	if t.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", t.Indent)
		return enc.Encode(map[string]any{
			"base":  name,
			"paths": paths,
		})
	}
	pp := printers.PrettyPrint{Out: out}
	pp.Catalog(name, paths)
	return nil
}
