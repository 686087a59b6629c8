package types

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&Types{JSON: true, Out: &buf}).Do(context.Background()))

	var got struct {
		Base  string   `json:"base"`
		Paths []string `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Shape", got.Base)
	assert.Contains(t, got.Paths, "Circle")
	assert.Contains(t, got.Paths, "Polygon/Square")
	assert.NotContains(t, got.Paths, "Blob")
}

func TestCatalogAbstract(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&Types{JSON: true, Abstract: true, Out: &buf}).Do(context.Background()))
	assert.Contains(t, buf.String(), `"Blob"`)
}

func TestCatalogSubtree(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	require.NoError(t, (&Types{Base: "Polygon", Out: &buf}).Do(context.Background()))
	out := buf.String()
	assert.Contains(t, out, "Polygon")
	assert.Contains(t, out, "Triangle")
	assert.NotContains(t, out, "Circle")
}

func TestUnknownBase(t *testing.T) {
	assert.Error(t, (&Types{Base: "Hexagon", Out: &bytes.Buffer{}}).Do(context.Background()))
}
