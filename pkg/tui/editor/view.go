package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/coledit/pkg/drag"
	"tableflip.dev/coledit/pkg/field"
	"tableflip.dev/coledit/pkg/tui/overlay"
)

// handleWidth is the last column of the drag handle, including the cursor
// marker.
const handleWidth = 2

const (
	handleGlyph = "≡"
	removeGlyph = "✕"
)

// View implements tea.Model.
func (m *Model) View() string {
	lines := []string{m.header()}
	if !m.field.Collapsed() {
		m.viewport.SetContent(strings.Join(m.rowLines(), "\n"))
		lines = append(lines, m.viewport.View())
		if m.keyed != nil {
			lines = append(lines, m.keyLine())
		}
	}
	lines = append(lines, m.footer()...)
	view := strings.Join(lines, "\n")

	if m.pickerOpen() {
		a := m.opts.Picker.Anchor()
		view = overlay.Compose(view, m.width, m.height, m.opts.Picker.View(), a.X, a.Y)
	}
	return view
}

func (m *Model) header() string {
	th := m.theme.Editor
	label := m.field.Label()
	if label == "" {
		label = string(m.field.ID())
	}
	marker := ""
	if m.field.Config().IsCollapsable {
		marker = "▾ "
		if m.field.Collapsed() {
			marker = "▸ "
		}
	}
	count := fmt.Sprintf(" (%d)", len(m.field.Rows()))
	return th.Title.Render(marker+label) + m.theme.Footer.Status.Render(count)
}

// order returns the row indexes in display order. While dragging, the
// dragged row is drawn at the placeholder slot.
func (m *Model) order(rows []field.Row) []int {
	out := make([]int, 0, len(rows))
	dragged := -1
	for i, r := range rows {
		if r.Dragging {
			dragged = i
			continue
		}
		out = append(out, i)
	}
	slot := m.field.Placeholder()
	if dragged < 0 || slot < 0 {
		if dragged >= 0 {
			out = append(out[:dragged], append([]int{dragged}, out[dragged:]...)...)
		}
		return out
	}
	slot = min(slot, len(out))
	return append(out[:slot], append([]int{dragged}, out[slot:]...)...)
}

func (m *Model) rowLines() []string {
	th := m.theme.Editor
	rows := m.field.Rows()
	if len(rows) == 0 {
		return []string{th.Empty.Render(m.field.Config().EmptyLabel)}
	}
	order := m.order(rows)
	vis := m.visibleRows()
	end := min(m.offset+vis, len(order))
	lines := make([]string, 0, vis)
	for pos := m.offset; pos < end; pos++ {
		lines = append(lines, m.rowLine(rows[order[pos]], pos))
	}
	return lines
}

func (m *Model) rowLine(r field.Row, pos int) string {
	th := m.theme.Editor
	cursor := " "
	if pos == m.cursor && m.mode == modeRows {
		cursor = th.Cursor.Render("›")
	}
	handle := th.Handle.Render(handleGlyph)
	if m.field.Drag().State() == drag.Idle && !m.field.Config().AllowReorder {
		handle = " "
	}
	remove := th.Disabled.Render(removeGlyph)
	if r.RemoveEnabled {
		remove = th.Remove.Render(removeGlyph)
	}

	text := ""
	if r.Content != nil {
		text = r.Content.View()
	}
	if r.Key != "" {
		text = r.Key + ": " + text
	}
	// cursor, handle, space, text, space, remove
	room := max(m.width-handleWidth-3, 1)
	text = truncate.StringWithTail(text, uint(room), "…")
	text += strings.Repeat(" ", max(room-lipgloss.Width(text), 0))

	style := th.Row
	switch {
	case r.Dragging:
		style = th.Dragging
	case r.Odd:
		style = th.RowAlt
	}
	return cursor + handle + " " + style.Render(text) + " " + remove
}

func (m *Model) keyLine() string {
	th := m.theme.Editor
	line := m.keyInput.View()
	switch m.keyed.KeyState() {
	case field.KeyValid:
		line += " " + th.KeyValid.Render("✓")
	case field.KeyInvalid:
		line += " " + th.KeyInvalid.Render("taken")
	}
	if !m.field.AddEnabled() && m.keyed.KeyState() == field.KeyValid {
		line += " " + th.Disabled.Render("(adding disabled)")
	}
	return line
}

func (m *Model) footer() []string {
	ft := m.theme.Footer
	status := ft.Status.Render(m.status)
	if r := m.opts.Reporter; r != nil && r.Last() != nil {
		status = ft.Error.Render(r.Last().Error())
	}
	return []string{status, ft.Help.Render(m.help())}
}

func (m *Model) help() string {
	switch {
	case m.pickerOpen():
		return "↑/↓ choose • type to filter • enter pick • esc cancel"
	case m.mode == modeKey:
		return "enter add • esc back"
	case m.field.Drag().State() == drag.Dragging && m.field.Config().AllowDragCancel:
		return "release to drop • esc cancel"
	}
	parts := []string{"↑/↓ move"}
	if m.field.AddEnabled() || m.keyed != nil {
		parts = append(parts, "a add")
	}
	parts = append(parts, "x remove")
	if m.field.Config().AllowReorder {
		parts = append(parts, "K/J reorder")
	}
	if m.field.Config().IsCollapsable {
		parts = append(parts, "c fold")
	}
	return strings.Join(append(parts, "q quit"), " • ")
}
