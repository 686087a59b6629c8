package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// PrettyPrint writes collections and catalogs as colored tables.
type PrettyPrint struct {
	// Out defaults to color.Output.
	Out io.Writer
	// ShowType adds the stored type name column.
	ShowType bool
}

// Item is one printable collection entry.
type Item struct {
	Key   string
	Type  string
	Value string
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

// TitleWithCount prints a collection heading.
func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)
	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " item")
	default:
		_, _ = c.Fprintln(pp.out(), " items")
	}
}

// Collection prints items in order.
func (pp *PrettyPrint) Collection(items ...Item) {
	if len(items) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	y := color.New(color.FgHiYellow)
	d := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	for i, it := range items {
		row := []any{d.Sprintf("%2d", i), y.Sprint(it.Key)}
		if pp.ShowType {
			row = append(row, d.Sprint(it.Type))
		}
		row = append(row, it.Value)
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out())
}

// Catalog prints type selection paths, indenting grouped entries.
func (pp *PrettyPrint) Catalog(base string, paths []string) {
	b := color.New(color.Bold)
	_, _ = b.Fprintln(pp.out(), base)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, p := range paths {
		parts := strings.Split(p, "/")
		group := ""
		if len(parts) > 1 {
			group = color.New(color.Faint).Sprint(strings.Join(parts[:len(parts)-1], "/") + "/")
		}
		tbl.AddRow("", group+parts[len(parts)-1])
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
