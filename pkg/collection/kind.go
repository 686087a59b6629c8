// Package collection defines the backing collections edited by coledit fields.
package collection

import (
	"fmt"
	"strings"
)

// Kind identifies how a collection is addressed.
type Kind string

const (
	// KindList is an index-addressed sequence.
	KindList Kind = "list"
	// KindMap is a string-keyed mapping that keeps insertion order.
	KindMap Kind = "map"
)

// AllKinds returns the list of supported collection kinds.
func AllKinds() []Kind {
	return []Kind{
		KindList,
		KindMap,
	}
}

// ParseKind converts a string to a Kind or returns an error for unknown values.
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if k == "" {
		return KindList, nil
	}
	for _, candidate := range AllKinds() {
		if candidate == k {
			return candidate, nil
		}
	}
	return KindList, fmt.Errorf("collection: unknown kind %q", raw)
}

// Move relocates the element at from so that it ends up at index to once it
// has been removed from its old slot. Move(0, 2) on [A B C] yields [B C A].
func Move[T any](s []T, from, to int) []T {
	if from == to || from < 0 || to < 0 || from >= len(s) || to >= len(s) {
		return s
	}
	item := s[from]
	if from < to {
		copy(s[from:to], s[from+1:to+1])
	} else {
		copy(s[to+1:from+1], s[to:from])
	}
	s[to] = item
	return s
}
