package drag

// Machine is the drag state machine. It is not safe for concurrent use.
type Machine struct {
	Host   Host
	Layout Layout

	// Enabled gates new sessions; nil means always.
	Enabled func() bool
	// AllowCancel enables Cancel. Without it a session always commits on
	// release.
	AllowCancel bool

	// OnStart fires when a session becomes a drag.
	OnStart func(s Session)
	// OnUpdate fires whenever To changes.
	OnUpdate func(s Session)
	// OnDrop fires on release when the row moved.
	OnDrop func(from, to int)
	// OnCancel fires when Cancel aborts a drag.
	OnCancel func(s Session)

	state   State
	session Session
}

func (m *Machine) host() Host {
	if m.Host == nil {
		return NopHost{}
	}
	return m.Host
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Session returns the active session, if any.
func (m *Machine) Session() (Session, bool) {
	if m.state == Idle {
		return Session{}, false
	}
	return m.session, true
}

// Press arms a session for row when the primary button goes down on its
// handle. origin is the row's top-left corner. It reports whether the press
// was taken.
func (m *Machine) Press(row int, b Button, at, origin Point) bool {
	if m.state != Idle || b != Primary || row < 0 {
		return false
	}
	if m.Enabled != nil && !m.Enabled() {
		return false
	}
	m.state = Armed
	m.session = Session{
		From:        row,
		To:          row,
		Row:         row,
		Offset:      at.Sub(origin),
		Placeholder: -1,
	}
	return true
}

// Move tracks the pointer. The first move of an armed session starts the
// drag.
func (m *Machine) Move(at Point) {
	switch m.state {
	case Armed:
		h := m.host()
		h.Capture()
		h.InsertPlaceholder(m.session.To)
		h.Detach(m.session.Row)
		m.session.Placeholder = m.session.To
		m.state = Dragging
		if m.OnStart != nil {
			m.OnStart(m.session)
		}
		m.drag(at)
	case Dragging:
		m.drag(at)
	}
}

func (m *Machine) drag(at Point) {
	h := m.host()
	h.Follow(at.Sub(m.session.Offset))

	to := m.target(at.Y)
	if to == m.session.To {
		return
	}
	m.session.To = to
	m.session.Placeholder = to
	h.MovePlaceholder(to)
	if m.OnUpdate != nil {
		m.OnUpdate(m.session)
	}
}

// target is the lowest slot whose center is past y, less one when that
// slot is past the current target since the placeholder fills a slot above
// it. With no such slot the row goes last.
func (m *Machine) target(y float64) int {
	var centers []float64
	if m.Layout != nil {
		centers = m.Layout.Centers()
	}
	if len(centers) == 0 {
		return m.session.To
	}
	for i, c := range centers {
		if y < c {
			if i > m.session.To {
				return i - 1
			}
			return i
		}
	}
	return len(centers) - 1
}

// Release ends the session on a primary release. A drag restores the row at
// the placeholder and reports the move when the row changed position.
func (m *Machine) Release(b Button) {
	if b != Primary {
		return
	}
	switch m.state {
	case Armed:
		m.reset()
	case Dragging:
		s := m.session
		m.finish(s.To)
		if s.From != s.To && m.OnDrop != nil {
			m.OnDrop(s.From, s.To)
		}
	}
}

// Cancel aborts the session without dropping. It does nothing unless
// AllowCancel is set, and reports whether a session was aborted.
func (m *Machine) Cancel() bool {
	if !m.AllowCancel || m.state == Idle {
		return false
	}
	if m.state == Armed {
		m.reset()
		return true
	}
	s := m.session
	m.finish(s.From)
	if m.OnCancel != nil {
		m.OnCancel(s)
	}
	return true
}

// Abort ends any session without dropping, regardless of AllowCancel. It is
// meant for teardown, such as the owning field detaching.
func (m *Machine) Abort() {
	switch m.state {
	case Armed:
		m.reset()
	case Dragging:
		m.finish(m.session.From)
	}
}

func (m *Machine) finish(at int) {
	h := m.host()
	h.Release()
	h.Restore(m.session.Row, at)
	h.RemovePlaceholder()
	m.reset()
}

func (m *Machine) reset() {
	m.state = Idle
	m.session = Session{}
}
