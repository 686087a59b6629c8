package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settings struct {
	Limit int
	Title string
}

type scene struct {
	Name     string
	Count    int32
	Items    []string
	Settings *settings
	hidden   int
}

func newScene(t *testing.T) (*scene, *Tree) {
	t.Helper()
	s := &scene{Name: "main", Items: []string{"a"}, Settings: &settings{Limit: 3}}
	tree, err := NewTree(s)
	require.NoError(t, err)
	return s, tree
}

func TestNewTreeRejectsNonStruct(t *testing.T) {
	_, err := NewTree(scene{})
	assert.Error(t, err)
	n := 3
	_, err = NewTree(&n)
	assert.Error(t, err)
}

func TestGetAndSet(t *testing.T) {
	s, tree := newScene(t)

	p, err := tree.Get("Settings.Limit")
	require.NoError(t, err)
	assert.Equal(t, "Limit", p.Name())
	assert.Equal(t, 3, p.Value())
	assert.Same(t, s.Settings, p.Owner())

	require.NoError(t, p.Set(int64(5)))
	assert.Equal(t, 5, s.Settings.Limit)
	assert.ErrorIs(t, p.Set("nope"), ErrType)

	_, err = tree.Get("hidden")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = tree.Get("Missing")
	assert.ErrorIs(t, err, ErrNotFound)

	addr, ok := mustGet(t, tree, "Items").Addr().(*[]string)
	require.True(t, ok)
	assert.Same(t, &s.Items, addr)
}

func TestNilPointerOnPath(t *testing.T) {
	s, tree := newScene(t)
	s.Settings = nil
	_, err := tree.Get("Settings.Limit")
	assert.ErrorIs(t, err, ErrNilPointer)
}

func TestSibling(t *testing.T) {
	_, tree := newScene(t)
	limit := mustGet(t, tree, "Settings.Limit")

	title, ok := limit.Sibling("Title")
	require.True(t, ok)
	assert.Equal(t, "Settings.Title", title.Path())

	_, ok = limit.Sibling("Limit")
	assert.False(t, ok, "a property is not its own sibling")
	_, ok = limit.Sibling("Name")
	assert.False(t, ok)

	items := mustGet(t, tree, "Items")
	nested, ok := items.Sibling("Settings.Limit")
	require.True(t, ok)
	assert.Equal(t, 3, nested.Value())
}

func TestWatchFiresOnSetAndSync(t *testing.T) {
	s, tree := newScene(t)
	p := mustGet(t, tree, "Count")

	var seen [][2]any
	cancel := p.Watch(func(old, new any) { seen = append(seen, [2]any{old, new}) })

	require.NoError(t, p.Set(2))
	require.NoError(t, p.Set(2))
	assert.Equal(t, [][2]any{{int32(0), int32(2)}}, seen)

	s.Count = 7
	assert.Equal(t, 1, tree.Sync())
	assert.Equal(t, 0, tree.Sync())
	assert.Equal(t, [2]any{int32(2), int32(7)}, seen[1])

	cancel()
	require.NoError(t, p.Set(9))
	assert.Len(t, seen, 2)
}

func TestWatchSize(t *testing.T) {
	s, tree := newScene(t)

	var changes [][2]int
	cancel, err := tree.WatchSize("Items", func(old, new int) { changes = append(changes, [2]int{old, new}) })
	require.NoError(t, err)

	s.Items = append(s.Items, "b", "c")
	tree.Sync()
	require.NoError(t, mustGet(t, tree, "Items").Set([]string{}))
	assert.Equal(t, [][2]int{{1, 3}, {3, 0}}, changes)

	cancel()
	s.Items = []string{"x"}
	tree.Sync()
	assert.Len(t, changes, 2)

	_, err = tree.WatchSize("Name", func(int, int) {})
	assert.Error(t, err)
}

func TestResyncSkipsKnownSize(t *testing.T) {
	s, tree := newScene(t)

	var changes int
	cancel, err := tree.WatchSize("Items", func(int, int) { changes++ })
	require.NoError(t, err)
	defer cancel()

	s.Items = append(s.Items, "b")
	tree.Resync("Items")
	assert.Zero(t, tree.Sync())

	s.Items = append(s.Items, "c")
	assert.Equal(t, 1, tree.Sync())
	assert.Equal(t, 1, changes)

	tree.Resync("Name")
}

func TestIsScalar(t *testing.T) {
	_, tree := newScene(t)
	assert.True(t, IsScalar(mustGet(t, tree, "Count").Type()))
	assert.True(t, IsScalar(mustGet(t, tree, "Name").Type()))
	assert.False(t, IsScalar(mustGet(t, tree, "Items").Type()))
	assert.False(t, IsScalar(nil))
	assert.Equal(t, []string{"Count", "Items", "Name", "Settings"}, tree.Paths())
}

func mustGet(t *testing.T, tree *Tree, path string) Property {
	t.Helper()
	p, err := tree.Get(path)
	require.NoError(t, err)
	return p
}
