// Package editor hosts one collection field in a Bubble Tea program. It maps
// keys and the mouse onto field operations and the drag machine, and drains
// the dispatch queue between messages.
package editor

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/v2/textinput"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/coledit/pkg/dispatch"
	"tableflip.dev/coledit/pkg/drag"
	"tableflip.dev/coledit/pkg/events"
	"tableflip.dev/coledit/pkg/field"
	"tableflip.dev/coledit/pkg/report"
	"tableflip.dev/coledit/pkg/store"
	"tableflip.dev/coledit/pkg/tui/picker"
	"tableflip.dev/coledit/pkg/tui/theme"
	"tableflip.dev/coledit/pkg/typesel"
)

// Field is what the editor needs from a list or map field.
type Field interface {
	ID() events.ComponentID
	Config() field.Config
	Rows() []field.Row
	Empty() bool
	AddEnabled() bool
	Pending() bool
	Label() string
	Tooltips() field.Tooltips
	Collapsed() bool
	SetCollapsed(bool)
	Drag() *drag.Machine
	Placeholder() int
	SetLayout(drag.Layout)
	SetAddAnchor(typesel.Anchor)
	Subscribe(events.Listener) func()
	Add()
	Remove(row int)
}

// Keyed is implemented by map fields, whose adds take a typed-in key.
type Keyed interface {
	PendingKey() string
	SetPendingKey(string)
	KeyState() field.KeyState
}

var (
	_ Field = (*field.ListField)(nil)
	_ Field = (*field.MapField)(nil)
	_ Keyed = (*field.MapField)(nil)
)

// Options configure the editor.
type Options struct {
	// Queue is the dispatch queue the field posts to. It is drained on the
	// Bubble Tea goroutine.
	Queue *dispatch.Queue
	// Picker, when set, is drawn while a type selection is open. It should
	// be the chooser the field was built with.
	Picker *picker.Model
	// Reporter shows the last reported error in the footer.
	Reporter *Reporter
	// Changes delivers external store changes; Reload is called for each.
	Changes <-chan store.Event
	Reload  func(store.Event)
	Theme   *theme.Theme
}

type mode int

const (
	modeRows mode = iota
	modeKey
)

// headerLines is the number of lines above the first row.
const headerLines = 1

// drainMsg asks the model to run a dispatch turn.
type drainMsg struct{}

type changeMsg struct {
	event store.Event
}

type changesClosedMsg struct{}

// Model is the Bubble Tea model of the editor.
type Model struct {
	field    Field
	keyed    Keyed
	opts     Options
	theme    theme.Theme
	keyInput textinput.Model
	viewport viewport.Model

	mode    mode
	cursor  int
	offset  int
	width   int
	height  int
	status  string
	pending []events.Event
	cancel  func()
}

// New builds the editor around f.
func New(f Field, opts Options) *Model {
	th := theme.Default()
	if opts.Theme != nil {
		th = *opts.Theme
	}
	if opts.Queue == nil {
		opts.Queue = dispatch.NewQueue()
	}
	m := &Model{
		field:    f,
		opts:     opts,
		theme:    th,
		viewport: viewport.New(viewport.WithWidth(80), viewport.WithHeight(10)),
		width:    80,
		height:   14,
	}
	if k, ok := f.(Keyed); ok {
		m.keyed = k
		in := textinput.New()
		in.Prompt = "key: "
		in.Placeholder = f.Config().AddPlaceholder
		m.keyInput = in
	}
	m.cancel = f.Subscribe(func(e events.Event) {
		m.pending = append(m.pending, e)
	})
	m.applyLayout()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

// Close stops listening to the field.
func (m *Model) Close() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Cursor returns the selected row.
func (m *Model) Cursor() int { return m.cursor }

// Status returns the footer status line.
func (m *Model) Status() string { return m.status }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.applyLayout()
	case drainMsg:
		m.opts.Queue.Drain()
		m.settleKeyInput()
	case changeMsg:
		if m.opts.Reload != nil {
			m.opts.Reload(msg.event)
		}
		cmds = append(cmds, m.waitForChange())
	case changesClosedMsg:
	case events.Event:
		m.status = fmt.Sprintf("%s: %s", msg.Source(), msg.Describe())
	case tea.KeyPressMsg:
		if cmd, quit := m.handleKey(msg); quit {
			return m, tea.Quit
		} else if cmd != nil {
			cmds = append(cmds, cmd)
		}
	case tea.MouseClickMsg:
		m.handleClick(tea.Mouse(msg))
	case tea.MouseMotionMsg:
		mouse := tea.Mouse(msg)
		m.field.Drag().Move(m.point(mouse.X, mouse.Y))
	case tea.MouseReleaseMsg:
		if tea.Mouse(msg).Button == tea.MouseLeft {
			m.field.Drag().Release(drag.Primary)
		}
	}
	m.clampCursor()
	cmds = append(cmds, m.flush()...)
	return m, tea.Batch(cmds...)
}

// flush turns field events into messages and schedules a drain when work
// is queued.
func (m *Model) flush() []tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range m.pending {
		cmds = append(cmds, events.Cmd(e))
	}
	m.pending = nil
	if m.opts.Queue.Len() > 0 {
		cmds = append(cmds, func() tea.Msg { return drainMsg{} })
	}
	return cmds
}

func (m *Model) waitForChange() tea.Cmd {
	if m.opts.Changes == nil {
		return nil
	}
	ch := m.opts.Changes
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return changeMsg{event: ev}
		}
		return changesClosedMsg{}
	}
}

func (m *Model) pickerOpen() bool {
	return m.opts.Picker != nil && m.opts.Picker.Open()
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	if m.pickerOpen() {
		return m.opts.Picker.Update(msg), false
	}
	if m.mode == modeKey {
		return m.handleKeyInput(msg), false
	}
	d := m.field.Drag()
	switch msg.String() {
	case "ctrl+c", "q":
		return nil, true
	case "esc":
		if d.State() != drag.Idle {
			d.Cancel()
			return nil, false
		}
		return nil, true
	case "up", "k":
		m.cursor--
	case "down", "j":
		m.cursor++
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.field.Rows()) - 1
	case "a", "+":
		if m.keyed != nil {
			m.mode = modeKey
			return m.keyInput.Focus(), false
		}
		m.add()
	case "x", "delete", "-":
		m.field.Remove(m.cursor)
	case "K", "shift+k", "shift+up":
		m.nudge(-1)
	case "J", "shift+j", "shift+down":
		m.nudge(1)
	case "c":
		m.field.SetCollapsed(!m.field.Collapsed())
	}
	return nil, false
}

func (m *Model) handleKeyInput(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = modeRows
		m.keyInput.Blur()
		return nil
	case "enter":
		m.keyed.SetPendingKey(m.keyInput.Value())
		if m.keyed.KeyState() != field.KeyValid {
			return nil
		}
		m.add()
		m.settleKeyInput()
		return nil
	}
	var cmd tea.Cmd
	m.keyInput, cmd = m.keyInput.Update(msg)
	m.keyed.SetPendingKey(m.keyInput.Value())
	return cmd
}

// settleKeyInput leaves key mode once the pending key has been added.
func (m *Model) settleKeyInput() {
	if m.mode != modeKey || m.field.Pending() || m.keyed.PendingKey() != "" {
		return
	}
	m.keyInput.SetValue("")
	m.keyInput.Blur()
	m.mode = modeRows
}

func (m *Model) add() {
	m.field.SetAddAnchor(typesel.Anchor{X: 2, Y: headerLines + m.visibleRows()})
	m.field.Add()
}

// nudge moves the selected row by dir through the drag machine, as if the
// row were dragged one slot.
func (m *Model) nudge(dir int) {
	rows := m.field.Rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return
	}
	d := m.field.Drag()
	top := float64(headerLines - m.offset)
	row := float64(m.cursor)
	if !d.Press(m.cursor, drag.Primary, drag.Point{Y: top + row + 0.5}, drag.Point{Y: top + row}) {
		return
	}
	// Just past the neighbour's center in the direction of travel.
	y := top + row + 1.6
	if dir < 0 {
		y = top + row - 0.6
	}
	d.Move(drag.Point{Y: y})
	d.Release(drag.Primary)
	if next := m.cursor + dir; next >= 0 && next < len(rows) {
		m.cursor = next
	}
}

func (m *Model) handleClick(mouse tea.Mouse) {
	if mouse.Button != tea.MouseLeft || m.field.Collapsed() {
		return
	}
	row := mouse.Y - headerLines + m.offset
	if row < 0 || row >= len(m.field.Rows()) || mouse.Y-headerLines >= m.visibleRows() {
		return
	}
	m.cursor = row
	if mouse.X <= handleWidth {
		origin := drag.Point{Y: float64(mouse.Y)}
		m.field.Drag().Press(row, drag.Primary, m.point(mouse.X, mouse.Y), origin)
	}
}

// point maps a terminal cell to the drag layout space; cells are sampled
// at their vertical center.
func (m *Model) point(x, y int) drag.Point {
	return drag.Point{X: float64(x), Y: float64(y) + 0.5}
}

func (m *Model) clampCursor() {
	n := len(m.field.Rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if vis := m.visibleRows(); vis > 0 && m.cursor >= m.offset+vis {
		m.offset = m.cursor - vis + 1
	}
	m.applyLayout()
}

// visibleRows is the row capacity between the header and the footer.
func (m *Model) visibleRows() int {
	footer := 2
	if m.keyed != nil {
		footer++
	}
	return max(m.height-headerLines-footer, 1)
}

func (m *Model) applyLayout() {
	vis := m.visibleRows()
	m.viewport.SetWidth(max(m.width, 1))
	m.viewport.SetHeight(vis)
	m.field.SetLayout(drag.UniformLayout{
		Top:    float64(headerLines - m.offset),
		Height: 1,
		Slots:  func() int { return len(m.field.Rows()) },
	})
}

// Run starts a Bubble Tea program around m until the user quits or ctx is
// done.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	m.opts.Queue.Wake = func() {
		go p.Send(drainMsg{})
	}
	defer func() { m.opts.Queue.Wake = nil }()
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// Reporter is a report.Handler that remembers the last error for display
// and forwards every report to Next.
type Reporter struct {
	Next report.Handler
	last *report.Error
}

var _ report.Handler = (*Reporter)(nil)

// HandleError implements report.Handler.
func (r *Reporter) HandleError(err *report.Error) {
	if err.Kind != report.KindRejected {
		r.last = err
	}
	if r.Next != nil {
		r.Next.HandleError(err)
	}
}

// Last returns the most recent error, or nil.
func (r *Reporter) Last() *report.Error { return r.last }

// Clear forgets the last error.
func (r *Reporter) Clear() { r.last = nil }
