package options

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/coledit/pkg/report"
)

// OutputOptions selects how show and types print collections and catalogs.
type OutputOptions struct {
	JSON    bool
	Compact bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Print collections and type catalogs as JSON instead of tables.")
	cmd.Flags().BoolVar(&po.Compact, "compact", false,
		"With --json, print one line per document instead of indenting.")
}

// Indent is the JSON indentation the runners should use.
func (o *OutputOptions) Indent() string {
	if o.Compact {
		return ""
	}
	return "  "
}

// HandleError prints err as a JSON document on w (color.Output when nil) and
// swallows it when --json is set, so scripts always read JSON. Editing
// errors also carry their kind, operation and field.
func (o *OutputOptions) HandleError(w io.Writer, err error) error {
	if !o.JSON || err == nil {
		return err
	}
	if w == nil {
		w = color.Output
	}
	out := map[string]string{"error": err.Error()}
	var rerr *report.Error
	if errors.As(err, &rerr) {
		out["kind"] = rerr.Kind.String()
		out["op"] = rerr.Op
		if rerr.Field != "" {
			out["field"] = rerr.Field
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", o.Indent())
	return enc.Encode(out)
}
