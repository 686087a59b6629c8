// Package drag implements pointer-driven reordering of rows.
//
// A session starts with a primary press on a row handle, becomes a drag on
// the first pointer move, and ends on release. The machine knows nothing
// about the data being reordered: it asks a Layout where the row slots are,
// drives a Host to move the visuals, and reports the final move to OnDrop.
package drag

// State is the machine state.
type State int

const (
	// Idle means no session.
	Idle State = iota
	// Armed means a handle was pressed but the pointer has not moved.
	Armed
	// Dragging means the row follows the pointer.
	Dragging
)

func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Button identifies a pointer button.
type Button int

const (
	// Primary is the main (usually left) button.
	Primary Button = iota
	// Secondary is the context (usually right) button.
	Secondary
	// Middle is the wheel button.
	Middle
)

// Point is a pointer position.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Layout reports the vertical centers of the row slots in container order
// while dragging. The slots are the rows that stay in place plus the
// placeholder, so there are as many slots as items.
type Layout interface {
	Centers() []float64
}

// UniformLayout is a Layout of equally tall rows starting at Top.
type UniformLayout struct {
	Top    float64
	Height float64
	Slots  func() int
}

// Centers implements Layout.
func (l UniformLayout) Centers() []float64 {
	n := 0
	if l.Slots != nil {
		n = l.Slots()
	}
	h := l.Height
	if h <= 0 {
		h = 1
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = l.Top + h*float64(i) + h/2
	}
	return out
}

// Host moves the visuals on behalf of the machine.
type Host interface {
	// Capture routes all pointer input to the session.
	Capture()
	// Release ends the pointer capture.
	Release()
	// Detach lifts row out of the list so it can follow the pointer.
	Detach(row int)
	// Follow positions the detached row; at already has the press offset removed.
	Follow(at Point)
	// InsertPlaceholder shows the drop slot at index.
	InsertPlaceholder(index int)
	// MovePlaceholder moves the drop slot to index.
	MovePlaceholder(index int)
	// RemovePlaceholder hides the drop slot.
	RemovePlaceholder()
	// Restore puts row back into the list at index.
	Restore(row, index int)
}

// NopHost ignores every call.
type NopHost struct{}

func (NopHost) Capture()              {}
func (NopHost) Release()              {}
func (NopHost) Detach(int)            {}
func (NopHost) Follow(Point)          {}
func (NopHost) InsertPlaceholder(int) {}
func (NopHost) MovePlaceholder(int)   {}
func (NopHost) RemovePlaceholder()    {}
func (NopHost) Restore(int, int)      {}

// Session is the state of one gesture.
type Session struct {
	// From is where the row started.
	From int
	// To is where the row lands if released now.
	To int
	// Row is the dragged row.
	Row int
	// Offset is the press position relative to the row origin.
	Offset Point
	// Placeholder is the slot currently shown, -1 before the first move.
	Placeholder int
}
