package printers

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestCollection(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf, ShowType: true}

	pp.TitleWithCount("shapes", 2)
	pp.Collection(
		Item{Key: "a", Type: "Circle", Value: "circle r=1"},
		Item{Key: "b", Type: "Square", Value: "square s=2"},
	)

	out := buf.String()
	assert.Contains(t, out, "shapes - 2 items")
	assert.Contains(t, out, "Circle")
	assert.Regexp(t, `1\s+b\s+Square\s+square s=2`, out)
}

func TestEmptyCollection(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}

	pp.TitleWithCount("empty", 1)
	pp.Collection()

	assert.Contains(t, buf.String(), "empty - 1 item\n")
	assert.Contains(t, buf.String(), "none")
}

func TestCatalog(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	(&PrettyPrint{Out: &buf}).Catalog("Shape", []string{"Circle", "Polygon/Square"})

	assert.Contains(t, buf.String(), "Shape\n")
	assert.Contains(t, buf.String(), "Polygon/Square")
}
