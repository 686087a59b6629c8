package edit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/coledit/pkg/events"
	"tableflip.dev/coledit/pkg/shapes"
	"tableflip.dev/coledit/pkg/store"
	"tableflip.dev/coledit/pkg/tui/theme"
)

func newEdit(t *testing.T) (*Edit, store.Persistence) {
	t.Helper()
	cfg, err := store.ConfigFromPath(t.TempDir())
	require.NoError(t, err)
	p, err := store.Load(cfg)
	require.NoError(t, err)
	return &Edit{Persistence: p, Collection: "garden"}, p
}

func TestBindRequiresCollection(t *testing.T) {
	e, _ := newEdit(t)
	e.Collection = "  "
	_, err := e.Bind(context.Background(), theme.FromPalette(theme.DarkPalette()))
	assert.Error(t, err)
}

func TestAddWritesThrough(t *testing.T) {
	ctx := context.Background()
	e, p := newEdit(t)
	s, err := e.Bind(ctx, theme.FromPalette(theme.DarkPalette()))
	require.NoError(t, err)
	assert.True(t, s.Field.Empty())

	s.Field.AddType("pond", shapes.CircleType)
	s.Field.AddType("bed", shapes.SquareType)
	require.Len(t, s.Field.Rows(), 2)

	keys, err := p.Keys(ctx, "garden")
	require.NoError(t, err)
	assert.Equal(t, []string{"pond", "bed"}, keys)

	s.Field.RemoveKey("pond")
	keys, err = p.Keys(ctx, "garden")
	require.NoError(t, err)
	assert.Equal(t, []string{"bed"}, keys)
}

func TestReloadFollowsCollection(t *testing.T) {
	ctx := context.Background()
	e, p := newEdit(t)
	s, err := e.Bind(ctx, theme.FromPalette(theme.DarkPalette()))
	require.NoError(t, err)

	rec := store.Record{
		Key:   "rock",
		Type:  shapes.Registry().Name(shapes.CircleType),
		Value: []byte(`{"Radius":2}`),
	}
	require.NoError(t, p.Put("garden", rec))

	s.Reload(ctx, store.Event{Type: store.EventCollectionChanged, Collection: "other"})
	assert.Empty(t, s.Field.Rows())

	s.Reload(ctx, store.Event{Type: store.EventCollectionChanged, Collection: "garden"})
	require.Len(t, s.Field.Rows(), 1)
	assert.Equal(t, "rock", s.Field.Rows()[0].Key)

	require.NoError(t, p.Delete("garden", "rock"))
	s.Reload(ctx, store.Event{Type: store.EventCollectionsInvalidated})
	assert.Empty(t, s.Field.Rows())
}

func TestReloadAfterOwnAddKeepsRows(t *testing.T) {
	ctx := context.Background()
	e, p := newEdit(t)
	s, err := e.Bind(ctx, theme.FromPalette(theme.DarkPalette()))
	require.NoError(t, err)

	var got []events.Event
	s.Field.Subscribe(func(ev events.Event) { got = append(got, ev) })

	s.Field.AddType("pond", shapes.CircleType)
	s.Reload(ctx, store.Event{Type: store.EventCollectionChanged, Collection: "garden"})
	s.Reload(ctx, store.Event{Type: store.EventOrderChanged, Collection: "garden"})
	s.Reload(ctx, store.Event{Type: store.EventCollectionsInvalidated})
	assert.Equal(t, []events.Event{
		events.ItemAdded{Component: "garden", Index: 0, Key: "pond"},
	}, got)

	require.NoError(t, p.Put("garden", store.Record{
		Key:   "rock",
		Type:  shapes.Registry().Name(shapes.SquareType),
		Value: []byte(`{"Side":1}`),
	}))
	s.Reload(ctx, store.Event{Type: store.EventCollectionChanged, Collection: "garden"})
	require.Len(t, got, 2)
	assert.Equal(t, events.ItemsChanged{Component: "garden"}, got[1])
	assert.Len(t, s.Field.Rows(), 2)
}

func TestMaxItemsLimitsAdds(t *testing.T) {
	e, _ := newEdit(t)
	e.MaxItems = 1
	s, err := e.Bind(context.Background(), theme.FromPalette(theme.DarkPalette()))
	require.NoError(t, err)

	s.Field.AddType("a", shapes.CircleType)
	s.Field.SetPendingKey("b")
	assert.False(t, s.Field.AddEnabled())
}
