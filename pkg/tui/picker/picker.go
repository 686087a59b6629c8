// Package picker renders the derived-type chooser as a filterable overlay.
package picker

import (
	"reflect"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/coledit/pkg/tui/theme"
	"tableflip.dev/coledit/pkg/typesel"
)

// Model is a typesel.Chooser the host drives with key presses. It holds at
// most one open selection.
type Model struct {
	theme  theme.PickerTheme
	filter textinput.Model

	list    *typesel.List
	matches []typesel.Entry
	cursor  int
	anchor  typesel.Anchor
	done    func(t reflect.Type, ok bool)
}

var _ typesel.Chooser = (*Model)(nil)

// New returns a closed picker.
func New(th theme.PickerTheme) *Model {
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter types"
	return &Model{theme: th, filter: filter}
}

// Choose opens the picker over list. A selection still open is dismissed.
func (m *Model) Choose(anchor typesel.Anchor, list *typesel.List, done func(t reflect.Type, ok bool)) {
	m.finish(nil, false)
	m.list = list
	m.anchor = anchor
	m.done = done
	m.cursor = 0
	m.filter.SetValue("")
	m.filter.Focus()
	m.matches = list.Search("")
}

// Open reports whether a selection is in progress.
func (m *Model) Open() bool { return m.done != nil }

// Anchor is where the host should draw the picker.
func (m *Model) Anchor() typesel.Anchor { return m.anchor }

// Matches returns the entries passing the filter, best first.
func (m *Model) Matches() []typesel.Entry { return m.matches }

// Dismiss closes the picker without a choice.
func (m *Model) Dismiss() { m.finish(nil, false) }

func (m *Model) finish(t reflect.Type, ok bool) {
	done := m.done
	m.done = nil
	m.list = nil
	m.matches = nil
	m.filter.Blur()
	if done != nil {
		done(t, ok)
	}
}

// Update handles key presses while open.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if !m.Open() {
		return nil
	}
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "esc", "ctrl+c":
		m.finish(nil, false)
		return nil
	case "enter":
		if len(m.matches) > 0 {
			m.finish(m.matches[m.cursor].Type, true)
		}
		return nil
	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
		return nil
	case "down", "ctrl+n":
		if m.cursor < len(m.matches)-1 {
			m.cursor++
		}
		return nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.matches = m.list.Search(m.filter.Value())
	if m.cursor >= len(m.matches) {
		m.cursor = max(len(m.matches)-1, 0)
	}
	return cmd
}

// View renders the open picker, or nothing.
func (m *Model) View() string {
	if !m.Open() {
		return ""
	}
	lines := []string{
		m.theme.Title.Render("Add " + typesel.TypeName(m.list.Base)),
		m.filter.View(),
	}
	if len(m.matches) == 0 {
		lines = append(lines, m.theme.Empty.Render("no matching types"))
	}
	for i, e := range m.matches {
		style := m.theme.Item
		if i == m.cursor {
			style = m.theme.Selected
		}
		lines = append(lines, style.Render(e.Path))
	}
	return m.theme.Frame.Render(strings.Join(lines, "\n"))
}
