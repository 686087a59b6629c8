package proxy

import "reflect"

// ListGuard holds extra predicates for a List. Nil predicates allow.
type ListGuard struct {
	CanAdd     func() bool
	CanAddType func(t reflect.Type) bool
	CanRemove  func(index int) bool
	CanReorder func() bool
}

// GuardList decorates a List; each guard is ANDed with the inner answer.
type GuardList struct {
	List
	Guard ListGuard
}

// Unwrap returns the decorated proxy.
func (g *GuardList) Unwrap() List { return g.List }

func (g *GuardList) CanAdd() bool {
	return g.List.CanAdd() && (g.Guard.CanAdd == nil || g.Guard.CanAdd())
}

func (g *GuardList) CanAddType(t reflect.Type) bool {
	return g.List.CanAddType(t) && (g.Guard.CanAddType == nil || g.Guard.CanAddType(t))
}

func (g *GuardList) CanRemove(index int) bool {
	return g.List.CanRemove(index) && (g.Guard.CanRemove == nil || g.Guard.CanRemove(index))
}

func (g *GuardList) CanReorder() bool {
	return g.List.CanReorder() && (g.Guard.CanReorder == nil || g.Guard.CanReorder())
}

// MapGuard holds extra predicates for a Map. Nil predicates allow.
type MapGuard struct {
	CanAdd     func() bool
	CanAddKey  func(key string) bool
	CanAddType func(t reflect.Type) bool
	CanRemove  func(index int, key string) bool
	CanReorder func() bool
}

// GuardMap decorates a Map; each guard is ANDed with the inner answer.
type GuardMap struct {
	Map
	Guard MapGuard
}

// Unwrap returns the decorated proxy.
func (g *GuardMap) Unwrap() Map { return g.Map }

func (g *GuardMap) CanAdd() bool {
	return g.Map.CanAdd() && (g.Guard.CanAdd == nil || g.Guard.CanAdd())
}

func (g *GuardMap) CanAddKey(key string) bool {
	return g.Map.CanAddKey(key) && (g.Guard.CanAddKey == nil || g.Guard.CanAddKey(key))
}

func (g *GuardMap) CanAddType(t reflect.Type) bool {
	return g.Map.CanAddType(t) && (g.Guard.CanAddType == nil || g.Guard.CanAddType(t))
}

func (g *GuardMap) CanRemove(index int, key string) bool {
	return g.Map.CanRemove(index, key) && (g.Guard.CanRemove == nil || g.Guard.CanRemove(index, key))
}

func (g *GuardMap) CanReorder() bool {
	return g.Map.CanReorder() && (g.Guard.CanReorder == nil || g.Guard.CanReorder())
}
