package shapes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	r := Registry()
	assert.Equal(t,
		[]string{"Circle", "Polygon/Polygon", "Polygon/Square", "Polygon/Triangle"},
		r.List(ShapeType, false).Paths())
	assert.Contains(t, r.List(ShapeType, true).Paths(), "Blob")
}

func TestAreas(t *testing.T) {
	assert.InDelta(t, math.Pi, (&Circle{Radius: 1}).Area(), 1e-9)
	assert.InDelta(t, 4, (&Square{Polygon{Sides: 4, Side: 2}}).Area(), 1e-9)
	assert.InDelta(t, 4, (&Polygon{Sides: 4, Side: 2}).Area(), 1e-9)
	assert.Zero(t, (&Polygon{Sides: 2, Side: 2}).Area())
}

func TestBoard(t *testing.T) {
	b := NewBoard()
	require.Len(t, b.Shapes, 3)
	assert.True(t, b.CanRemoveShape(0))
	b.Locked = true
	assert.False(t, b.CanRemoveShape(0))
	assert.True(t, b.CanRemoveShape(1))

	b.ShapeAdded(3)
	b.ShapeMoved(0, 2)
	assert.Equal(t, []string{"added #3", "moved #0 to #2"}, b.History)
	assert.Greater(t, b.TotalArea(), 10.0)
}
