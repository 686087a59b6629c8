package shapes

import "fmt"

// Board is the declaring object of the demo: its Shapes are edited, and its
// other members feed the field's sources and callbacks.
type Board struct {
	Title  string
	Shapes []Shape
	Limit  int
	Locked bool

	History []string `json:"-"`
}

// NewBoard returns a board with a few shapes on it.
func NewBoard() *Board {
	return &Board{
		Title: "Shapes",
		Limit: 8,
		Shapes: []Shape{
			&Circle{Radius: 1},
			&Square{Polygon{Sides: 4, Side: 2}},
			&Triangle{Polygon{Sides: 3, Side: 3}},
		},
	}
}

// MaxShapes is the item limit source.
func (b *Board) MaxShapes() int { return b.Limit }

// CanRemoveShape keeps the first shape while the board is locked.
func (b *Board) CanRemoveShape(i int) bool {
	return !b.Locked || i > 0
}

func (b *Board) ShapeAdded(i int) {
	b.record("added #%d", i)
}

func (b *Board) ShapeRemoved(i int) {
	b.record("removed #%d", i)
}

func (b *Board) ShapeMoved(from, to int) {
	b.record("moved #%d to #%d", from, to)
}

// TotalArea sums the area of every shape.
func (b *Board) TotalArea() float64 {
	total := 0.0
	for _, s := range b.Shapes {
		if s != nil {
			total += s.Area()
		}
	}
	return total
}

func (b *Board) record(format string, args ...any) {
	b.History = append(b.History, fmt.Sprintf(format, args...))
}
