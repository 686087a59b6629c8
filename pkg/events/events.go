// Package events defines the structural change notifications emitted by
// editing fields.
package events

import (
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea/v2"
)

// ComponentID uniquely identifies a field instance emitting events.
type ComponentID string

// Event is implemented by every message in this package.
type Event interface {
	// Source is the emitting field.
	Source() ComponentID
	// Describe renders the event in a human-friendly format for logs.
	Describe() string
}

// ItemAdded is emitted after an item was added and rows were refreshed.
// Key is empty for lists.
type ItemAdded struct {
	Component ComponentID
	Index     int
	Key       string
}

func (m ItemAdded) Source() ComponentID { return m.Component }

// Describe implements the logging helper.
func (m ItemAdded) Describe() string {
	if m.Key != "" {
		return fmt.Sprintf(`added key:%q`, m.Key)
	}
	return fmt.Sprintf(`added index:%d`, m.Index)
}

// ItemRemoved is emitted after an item was removed and rows were refreshed.
// Index is the position the item had; Key is empty for lists.
type ItemRemoved struct {
	Component ComponentID
	Index     int
	Key       string
}

func (m ItemRemoved) Source() ComponentID { return m.Component }

// Describe implements the logging helper.
func (m ItemRemoved) Describe() string {
	if m.Key != "" {
		return fmt.Sprintf(`removed key:%q`, m.Key)
	}
	return fmt.Sprintf(`removed index:%d`, m.Index)
}

// ItemReordered is emitted after a drag moved the item at From to To.
type ItemReordered struct {
	Component ComponentID
	From      int
	To        int
}

func (m ItemReordered) Source() ComponentID { return m.Component }

// Describe implements the logging helper.
func (m ItemReordered) Describe() string {
	return fmt.Sprintf(`reordered from:%d to:%d`, m.From, m.To)
}

// ItemsChanged is emitted when the collection size changed through a path
// other than the field's own operations, or when rows had to be rebuilt.
type ItemsChanged struct {
	Component ComponentID
}

func (m ItemsChanged) Source() ComponentID { return m.Component }

// Describe implements the logging helper.
func (m ItemsChanged) Describe() string {
	return "items changed"
}

// Cmd wraps e into a tea.Cmd for callers that want to emit the event as part
// of an Update result.
func Cmd(e Event) tea.Cmd {
	if e == nil {
		return nil
	}
	return func() tea.Msg {
		return e
	}
}

// Listener receives events.
type Listener func(e Event)

// Bus fans events out to listeners in subscription order. It is not safe
// for concurrent use; it belongs to the dispatch thread like the field.
type Bus struct {
	next      int
	listeners map[int]Listener
}

// Subscribe adds l and returns a func removing it.
func (b *Bus) Subscribe(l Listener) (cancel func()) {
	if l == nil {
		return func() {}
	}
	if b.listeners == nil {
		b.listeners = make(map[int]Listener)
	}
	id := b.next
	b.next++
	b.listeners[id] = l
	return func() {
		delete(b.listeners, id)
	}
}

// Emit delivers e to every listener.
func (b *Bus) Emit(e Event) {
	ids := make([]int, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if l, ok := b.listeners[id]; ok {
			l(e)
		}
	}
}

// Len returns the number of listeners.
func (b *Bus) Len() int {
	return len(b.listeners)
}
