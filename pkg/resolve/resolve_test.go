package resolve

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/coledit/pkg/dispatch"
	"tableflip.dev/coledit/pkg/property"
	"tableflip.dev/coledit/pkg/report"
)

type inventory struct {
	Items []string
	Limit int
	Title string
}

type inventoryOwner struct {
	limit   int
	Caption func() string
	Max     int
	Cap     int `coledit:"readonly"`
	Enabled bool

	added    int
	removed  []int
	reorders [][2]int
}

func (o *inventoryOwner) Limit() int             { return o.limit }
func (o *inventoryOwner) Name() string           { return "owner" }
func (o *inventoryOwner) CanRemoveAt(i int) bool { return i%2 == 0 }
func (o *inventoryOwner) OnAdd()                 { o.added++ }
func (o *inventoryOwner) OnRemove(i int)         { o.removed = append(o.removed, i) }
func (o *inventoryOwner) OnReorder(from, to int) { o.reorders = append(o.reorders, [2]int{from, to}) }

type bareOwner struct{}

var ownerType = reflect.TypeFor[inventoryOwner]()
var bareType = reflect.TypeFor[bareOwner]()

func itemsProperty(t *testing.T, inv *inventory) property.Property {
	t.Helper()
	tree, err := property.NewTree(inv)
	require.NoError(t, err)
	p, err := tree.Get("Items")
	require.NoError(t, err)
	return p
}

func TestResolverPrecedence(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.StaticProperty(ownerType, "Limit", func() int { return 30 }))
	require.NoError(t, reg.StaticField(ownerType, "Limit", 40))
	require.NoError(t, reg.StaticProperty(bareType, "Limit", func() int { return 30 }))
	require.NoError(t, reg.StaticField(bareType, "Limit", 40))
	r := New(reg)

	inv := &inventory{Limit: 10}
	owner := &inventoryOwner{limit: 20}
	items := itemsProperty(t, inv)

	tests := []struct {
		name   string
		target Target
		kind   StrategyKind
		want   int
	}{
		{name: "sibling wins", target: Target{Owner: owner, Property: items}, kind: KindSibling, want: 10},
		{name: "method without sibling", target: Target{Owner: owner}, kind: KindMethod, want: 20},
		{name: "property without method", target: Target{Owner: &bareOwner{}}, kind: KindProperty, want: 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Value[int](r, tt.target, "Limit")
			require.NoError(t, err)
			assert.Equal(t, tt.kind, src.Kind())
			assert.Equal(t, tt.want, src.Get())
		})
	}

	onlyField := New(reg, WithStrategies(FieldStrategy{}))
	src, err := Value[int](onlyField, Target{Owner: &bareOwner{}}, "Limit")
	require.NoError(t, err)
	assert.Equal(t, KindField, src.Kind())
	assert.Equal(t, 40, src.Get())
	assert.False(t, src.NeedsPolling())
}

func TestSiblingIsLive(t *testing.T) {
	r := New(nil)
	inv := &inventory{Limit: 1}
	tree, err := property.NewTree(inv)
	require.NoError(t, err)
	items, err := tree.Get("Items")
	require.NoError(t, err)

	src, err := Value[int](r, Target{Property: items}, "Limit")
	require.NoError(t, err)
	assert.False(t, src.NeedsPolling())

	sched := dispatch.NewManualScheduler()
	var seen []int
	cancel := src.Subscribe(sched, func(v int) { seen = append(seen, v) })
	assert.Equal(t, 0, sched.Active())

	limit, err := tree.Get("Limit")
	require.NoError(t, err)
	require.NoError(t, limit.Set(4))
	assert.Equal(t, []int{1, 4}, seen)

	cancel()
	cancel()
	require.NoError(t, limit.Set(5))
	assert.Equal(t, []int{1, 4}, seen)
}

func TestSiblingRequiresCompatibleScalar(t *testing.T) {
	r := New(nil)
	items := itemsProperty(t, &inventory{Title: "x"})

	_, err := Value[int](r, Target{Property: items}, "Title")
	assert.ErrorIs(t, err, report.ErrUnresolved)

	src, err := Value[float64](r, Target{Property: items}, "Limit")
	require.NoError(t, err)
	assert.Equal(t, KindSibling, src.Kind())
}

func TestPollingSource(t *testing.T) {
	r := New(nil)
	owner := &inventoryOwner{limit: 1}
	src, err := Value[int](r, Target{Owner: owner}, "Limit")
	require.NoError(t, err)
	require.True(t, src.NeedsPolling())

	sched := dispatch.NewManualScheduler()
	var seen []int
	cancel := src.Subscribe(sched, func(v int) { seen = append(seen, v) })
	require.Equal(t, 1, sched.Active())

	sched.Tick()
	owner.limit = 2
	sched.Tick()
	sched.Tick()
	assert.Equal(t, []int{1, 2}, seen)

	cancel()
	assert.Equal(t, 0, sched.Active())
}

func TestPropertyAndFieldStrategies(t *testing.T) {
	r := New(nil)
	owner := &inventoryOwner{Max: 3, Cap: 9, Caption: func() string { return "Shapes" }}
	target := Target{Owner: owner}

	caption, err := Value[string](r, target, "Caption")
	require.NoError(t, err)
	assert.Equal(t, KindProperty, caption.Kind())
	assert.Equal(t, "Shapes", caption.Get())

	owner.Caption = nil
	assert.Equal(t, "", caption.Get())

	maxSrc, err := Value[int](r, target, "Max")
	require.NoError(t, err)
	assert.Equal(t, KindField, maxSrc.Kind())
	assert.True(t, maxSrc.NeedsPolling())

	capSrc, err := Value[int](r, target, "Cap")
	require.NoError(t, err)
	assert.False(t, capSrc.NeedsPolling())
	assert.Equal(t, 9, capSrc.Get())

	_, err = Value[int64](r, target, "Max")
	assert.ErrorIs(t, err, report.ErrUnresolved, "fields need an exact type")

	_, err = Value[int](r, target, "Name")
	assert.ErrorIs(t, err, report.ErrUnresolved, "method return must be assignable")
}

func TestStaticMembers(t *testing.T) {
	reg := NewRegistry()
	limit := 5
	require.NoError(t, reg.StaticField(bareType, "Limit", &limit))
	require.NoError(t, reg.StaticMethod(bareType, "Label", func() string { return "static" }))
	assert.Error(t, reg.StaticMethod(bareType, "Bad", 3))
	assert.Error(t, reg.StaticProperty(bareType, "Bad", func(int) int { return 0 }))
	assert.Error(t, reg.StaticField(bareType, "Bad", nil))

	r := New(reg)
	target := Target{Owner: &bareOwner{}}

	src, err := Value[int](r, target, "Limit")
	require.NoError(t, err)
	assert.True(t, src.NeedsPolling())
	limit = 6
	assert.Equal(t, 6, src.Get())

	label, err := Value[string](r, target, "Label")
	require.NoError(t, err)
	assert.Equal(t, KindMethod, label.Kind())
	assert.Equal(t, "static", label.Get())
}

func TestValueOrReportsAndDefaults(t *testing.T) {
	rec := &report.Recorder{}
	r := New(nil, WithHandler(rec))

	src := ValueOr(r, Target{Owner: &bareOwner{}}, "Missing", 7)
	assert.Equal(t, 7, src.Get())
	assert.Equal(t, KindNone, src.Kind())
	require.Equal(t, []report.Kind{report.KindConfiguration}, rec.Kinds())
	assert.True(t, errors.Is(rec.Errors[0], report.ErrUnresolved))

	_, err := Value[int](r, Target{}, "Limit")
	assert.ErrorIs(t, err, report.ErrUnresolved)
}

func TestLookupsAreMemoized(t *testing.T) {
	r := New(nil)
	first := &inventoryOwner{Max: 1}
	second := &inventoryOwner{Max: 2}

	a, err := Value[int](r, Target{Owner: first}, "Max")
	require.NoError(t, err)
	count := 0
	r.members.Range(func(any, any) bool { count++; return true })

	b, err := Value[int](r, Target{Owner: second}, "Max")
	require.NoError(t, err)
	after := 0
	r.members.Range(func(any, any) bool { after++; return true })

	assert.Equal(t, count, after)
	assert.Equal(t, 1, a.Get())
	assert.Equal(t, 2, b.Get())
}

func TestPredicate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.StaticMethod(bareType, "HasKey", func(k string) bool { return k == "a" }))
	r := New(reg)

	canRemove, err := Predicate[int](r, Target{Owner: &inventoryOwner{}}, "CanRemoveAt")
	require.NoError(t, err)
	assert.True(t, canRemove(0))
	assert.False(t, canRemove(1))

	hasKey, err := Predicate[string](r, Target{Owner: &bareOwner{}}, "HasKey")
	require.NoError(t, err)
	assert.True(t, hasKey("a"))

	_, err = Predicate[string](r, Target{Owner: &inventoryOwner{}}, "CanRemoveAt")
	assert.ErrorIs(t, err, report.ErrUnresolved)
}

func TestActionArityFallback(t *testing.T) {
	rec := &report.Recorder{}
	r := New(nil, WithHandler(rec))
	owner := &inventoryOwner{}
	target := Target{Owner: owner}
	intType := reflect.TypeFor[int]()

	add, err := r.Action(target, "OnAdd", intType)
	require.NoError(t, err)
	assert.Equal(t, 0, add.Arity())
	add.Invoke(3)

	remove, err := r.Action(target, "OnRemove", intType)
	require.NoError(t, err)
	assert.Equal(t, 1, remove.Arity())
	remove.Invoke(2)

	reorder, err := r.Action(target, "OnReorder", intType, intType)
	require.NoError(t, err)
	assert.Equal(t, 2, reorder.Arity())
	reorder.Invoke(0, 2)

	_, err = r.Action(target, "OnReorder", intType)
	assert.ErrorIs(t, err, report.ErrUnresolved, "two-parameter hooks need a pair payload")

	missing := r.ActionOr(target, "OnMissing")
	assert.Nil(t, missing)
	missing.Invoke()
	assert.Equal(t, []report.Kind{report.KindConfiguration}, rec.Kinds())
	assert.Nil(t, r.ActionOr(target, ""))

	assert.Equal(t, 1, owner.added)
	assert.Equal(t, []int{2}, owner.removed)
	assert.Equal(t, [][2]int{{0, 2}}, owner.reorders)
}
