package field

import "tableflip.dev/coledit/pkg/drag"

// rowHost keeps row drag flags and the placeholder slot in step with the
// drag machine and forwards to the optional external host.
type rowHost struct {
	b *base
}

var _ drag.Host = rowHost{}

func (h rowHost) forward(fn func(drag.Host)) {
	if h.b.host != nil {
		fn(h.b.host)
	}
}

func (h rowHost) Capture() {
	h.forward(func(x drag.Host) { x.Capture() })
}

func (h rowHost) Release() {
	h.forward(func(x drag.Host) { x.Release() })
}

func (h rowHost) Detach(row int) {
	if row >= 0 && row < len(h.b.rows) {
		h.b.rows[row].Dragging = true
	}
	h.forward(func(x drag.Host) { x.Detach(row) })
}

func (h rowHost) Follow(at drag.Point) {
	h.forward(func(x drag.Host) { x.Follow(at) })
}

func (h rowHost) InsertPlaceholder(index int) {
	h.b.placeholder = index
	h.forward(func(x drag.Host) { x.InsertPlaceholder(index) })
}

func (h rowHost) MovePlaceholder(index int) {
	h.b.placeholder = index
	h.forward(func(x drag.Host) { x.MovePlaceholder(index) })
}

func (h rowHost) RemovePlaceholder() {
	h.b.placeholder = -1
	h.forward(func(x drag.Host) { x.RemovePlaceholder() })
}

func (h rowHost) Restore(row, index int) {
	if row >= 0 && row < len(h.b.rows) {
		h.b.rows[row].Dragging = false
	}
	h.forward(func(x drag.Host) { x.Restore(row, index) })
}

func (b *base) newMachine(count func() int, drop func(from, to int), canReorder func() bool) *drag.Machine {
	return &drag.Machine{
		Host:        rowHost{b: b},
		Layout:      drag.UniformLayout{Height: 1, Slots: count},
		AllowCancel: b.cfg.AllowDragCancel,
		Enabled: func() bool {
			return b.cfg.AllowReorder && canReorder()
		},
		OnDrop: drop,
	}
}
