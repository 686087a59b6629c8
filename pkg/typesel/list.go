package typesel

import (
	"reflect"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Entry is one catalog choice.
type Entry struct {
	// Path groups the entry under its intervening bases, e.g. "Polygon/Triangle".
	Path string
	Type reflect.Type
}

// List is an immutable, path-sorted catalog.
type List struct {
	Base    reflect.Type
	Entries []Entry
}

// Len returns the number of entries.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Entries)
}

// Single returns the only entry's type when exactly one choice exists.
func (l *List) Single() (reflect.Type, bool) {
	if l.Len() != 1 {
		return nil, false
	}
	return l.Entries[0].Type, true
}

// Contains reports whether t is one of the choices.
func (l *List) Contains(t reflect.Type) bool {
	for _, e := range l.Entries {
		if e.Type == t {
			return true
		}
	}
	return false
}

// Paths returns the entry paths in order.
func (l *List) Paths() []string {
	paths := make([]string, 0, l.Len())
	for _, e := range l.Entries {
		paths = append(paths, e.Path)
	}
	return paths
}

// Search returns the entries whose path fuzzily matches query, closest
// first. An empty query returns every entry.
func (l *List) Search(query string) []Entry {
	if query == "" {
		return append([]Entry(nil), l.Entries...)
	}
	ranks := fuzzy.RankFindNormalizedFold(query, l.Paths())
	sort.Stable(ranks)
	out := make([]Entry, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, l.Entries[r.OriginalIndex])
	}
	return out
}
