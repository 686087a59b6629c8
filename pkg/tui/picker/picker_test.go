package picker

import (
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/coledit/pkg/tui/theme"
	"tableflip.dev/coledit/pkg/typesel"
)

type (
	note     struct{}
	task     struct{}
	taskList struct{}
)

type result struct {
	t      reflect.Type
	ok     bool
	called int
}

func catalog() *typesel.List {
	return &typesel.List{
		Base: reflect.TypeFor[any](),
		Entries: []typesel.Entry{
			{Path: "note", Type: reflect.TypeFor[*note]()},
			{Path: "task", Type: reflect.TypeFor[*task]()},
			{Path: "task/list", Type: reflect.TypeFor[*taskList]()},
		},
	}
}

func open(t *testing.T) (*Model, *result) {
	t.Helper()
	m := New(theme.FromPalette(theme.DarkPalette()).Picker)
	res := &result{}
	m.Choose(typesel.Anchor{X: 1, Y: 2}, catalog(), func(typ reflect.Type, ok bool) {
		res.t, res.ok = typ, ok
		res.called++
	})
	require.True(t, m.Open())
	return m, res
}

func press(code rune, text string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code, Text: text}
}

func TestPickSecond(t *testing.T) {
	m, res := open(t)
	assert.Len(t, m.Matches(), 3)
	assert.Contains(t, m.View(), "task/list")

	m.Update(press(tea.KeyDown, ""))
	m.Update(press(tea.KeyEnter, ""))

	assert.False(t, m.Open())
	assert.Equal(t, 1, res.called)
	assert.True(t, res.ok)
	assert.Equal(t, reflect.TypeFor[*task](), res.t)
	assert.Empty(t, m.View())
}

func TestFilterNarrows(t *testing.T) {
	m, res := open(t)
	for _, r := range "lst" {
		m.Update(press(r, string(r)))
	}
	require.Len(t, m.Matches(), 1)
	m.Update(press(tea.KeyEnter, ""))
	assert.Equal(t, reflect.TypeFor[*taskList](), res.t)
}

func TestEscapeDismisses(t *testing.T) {
	m, res := open(t)
	m.Update(press(tea.KeyEscape, ""))
	assert.False(t, m.Open())
	assert.Equal(t, 1, res.called)
	assert.False(t, res.ok)

	m.Update(press(tea.KeyEnter, ""))
	assert.Equal(t, 1, res.called)
}

func TestReopenDismissesPrevious(t *testing.T) {
	m, first := open(t)
	m.Choose(typesel.Anchor{}, catalog(), func(reflect.Type, bool) {})
	assert.Equal(t, 1, first.called)
	assert.False(t, first.ok)
	assert.True(t, m.Open())
}
