// Package shapes is the small type hierarchy the demo and the store editor
// work on. It exercises derived type selection: Shape is abstract, Polygon
// is a concrete base with its own derived types.
package shapes

import (
	"fmt"
	"math"
	"reflect"

	"tableflip.dev/coledit/pkg/typesel"
)

// Shape is anything a board can hold.
type Shape interface {
	Area() float64
}

// Blob is an abstract refinement of Shape. Nothing implements it; it only
// shows up when abstract types are listed.
type Blob interface {
	Shape
	Squish()
}

// Circle is a round shape.
type Circle struct {
	Radius float64 `json:"radius"`
}

func (c *Circle) Area() float64 { return math.Pi * c.Radius * c.Radius }

func (c *Circle) String() string {
	return fmt.Sprintf("circle r=%g (area %.2f)", c.Radius, c.Area())
}

// Polygon is a regular polygon.
type Polygon struct {
	Sides int     `json:"sides"`
	Side  float64 `json:"side"`
}

func (p *Polygon) Area() float64 {
	if p.Sides < 3 {
		return 0
	}
	n := float64(p.Sides)
	return n * p.Side * p.Side / (4 * math.Tan(math.Pi/n))
}

func (p *Polygon) String() string {
	return fmt.Sprintf("polygon n=%d s=%g (area %.2f)", p.Sides, p.Side, p.Area())
}

// Triangle is a three-sided polygon.
type Triangle struct {
	Polygon
}

func (t *Triangle) Area() float64 {
	return math.Sqrt(3) / 4 * t.Side * t.Side
}

func (t *Triangle) String() string {
	return fmt.Sprintf("triangle s=%g (area %.2f)", t.Side, t.Area())
}

// Square is a four-sided polygon.
type Square struct {
	Polygon
}

func (s *Square) Area() float64 { return s.Side * s.Side }

func (s *Square) String() string {
	return fmt.Sprintf("square s=%g (area %.2f)", s.Side, s.Area())
}

var (
	ShapeType    = reflect.TypeFor[Shape]()
	BlobType     = reflect.TypeFor[Blob]()
	CircleType   = reflect.TypeFor[*Circle]()
	PolygonType  = reflect.TypeFor[*Polygon]()
	TriangleType = reflect.TypeFor[*Triangle]()
	SquareType   = reflect.TypeFor[*Square]()
)

// Register declares the hierarchy in r.
func Register(r *typesel.Registry) error {
	for _, d := range []struct{ t, parent reflect.Type }{
		{ShapeType, nil},
		{BlobType, ShapeType},
		{CircleType, ShapeType},
		{PolygonType, ShapeType},
		{TriangleType, PolygonType},
		{SquareType, PolygonType},
	} {
		if err := r.Register(d.t, d.parent); err != nil {
			return err
		}
	}
	return nil
}

// Registry returns a fresh registry holding the hierarchy.
func Registry() *typesel.Registry {
	r := typesel.NewRegistry()
	if err := Register(r); err != nil {
		panic(err)
	}
	return r
}
