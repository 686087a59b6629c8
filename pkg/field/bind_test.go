package field

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/coledit/pkg/dispatch"
	"tableflip.dev/coledit/pkg/events"
	"tableflip.dev/coledit/pkg/property"
	"tableflip.dev/coledit/pkg/proxy"
	"tableflip.dev/coledit/pkg/report"
	"tableflip.dev/coledit/pkg/resolve"
)

type playlist struct {
	Title  string
	Tracks []string
	Limit  int
	Open   bool

	added     []int
	removed   int
	reordered [][2]int
	changes   int
}

func (p *playlist) MaxTracks() int           { return p.Limit }
func (p *playlist) Removable(i int) bool     { return i > 0 }
func (p *playlist) OnAdd(i int)              { p.added = append(p.added, i) }
func (p *playlist) OnRemove()                { p.removed++ }
func (p *playlist) OnReorder(from, to int)   { p.reordered = append(p.reordered, [2]int{from, to}) }
func (p *playlist) Changed()                 { p.changes++ }
func (p *playlist) KeyAllowed(k string) bool { return k != "admin" }

func boundList(t *testing.T, pl *playlist, cfg Config, opts ...Option) (*ListField, *property.Tree) {
	t.Helper()
	tree, err := property.NewTree(pl)
	require.NoError(t, err)
	prop, err := tree.Get("Tracks")
	require.NoError(t, err)
	p, err := proxy.NewSlice(&pl.Tracks)
	require.NoError(t, err)
	f := NewList("tracks", cfg, opts...)
	require.NoError(t, BindList(f, resolve.New(nil), resolve.Target{Property: prop}, p))
	return f, tree
}

func TestBindMaxItemsPolls(t *testing.T) {
	pl := &playlist{Tracks: []string{"a", "b"}, Limit: 2}
	cfg := DefaultConfig()
	cfg.MaxItems = "MaxTracks"
	f, _ := boundList(t, pl, cfg)
	sched := dispatch.NewManualScheduler()

	f.Attach(context.Background(), sched)
	assert.Equal(t, 2, f.MaxItems())
	assert.False(t, f.AddEnabled())

	pl.Limit = 3
	assert.False(t, f.AddEnabled())
	sched.Tick()
	assert.Equal(t, 3, f.MaxItems())
	assert.True(t, f.AddEnabled())

	f.Detach()
	assert.Zero(t, sched.Active())
	pl.Limit = 1
	sched.Tick()
	assert.Equal(t, 3, f.MaxItems())
}

func TestBindLabelFollowsSibling(t *testing.T) {
	pl := &playlist{Title: "Mix"}
	cfg := DefaultConfig()
	cfg.Label = "Tracks"
	cfg.LabelSource = "Title"
	f, tree := boundList(t, pl, cfg)
	sched := dispatch.NewManualScheduler()

	assert.Equal(t, "Tracks", f.Label())
	f.Attach(context.Background(), sched)
	defer f.Detach()
	assert.Equal(t, "Mix", f.Label())
	assert.Zero(t, sched.Active())

	title, err := tree.Get("Title")
	require.NoError(t, err)
	require.NoError(t, title.Set("Road trip"))
	assert.Equal(t, "Road trip", f.Label())
}

func TestBindAllowAddSibling(t *testing.T) {
	pl := &playlist{}
	cfg := DefaultConfig()
	cfg.AllowAdd = "Open"
	f, tree := boundList(t, pl, cfg)
	f.Attach(context.Background(), dispatch.NewManualScheduler())
	defer f.Detach()

	assert.False(t, f.AddEnabled())
	f.Add()
	assert.Empty(t, pl.Tracks)

	open, err := tree.Get("Open")
	require.NoError(t, err)
	require.NoError(t, open.Set(true))
	assert.True(t, f.AddEnabled())
	f.Add()
	assert.Len(t, pl.Tracks, 1)
}

func TestBindAllowRemovePredicate(t *testing.T) {
	pl := &playlist{Tracks: []string{"a", "b"}}
	cfg := DefaultConfig()
	cfg.AllowRemove = "Removable"
	f, _ := boundList(t, pl, cfg)

	rows := f.Rows()
	assert.False(t, rows[0].RemoveEnabled)
	assert.True(t, rows[1].RemoveEnabled)

	f.Remove(0)
	assert.Equal(t, []string{"a", "b"}, pl.Tracks)
	f.Remove(1)
	assert.Equal(t, []string{"a"}, pl.Tracks)
}

func TestBindCallbacks(t *testing.T) {
	pl := &playlist{Tracks: []string{"a", "b"}}
	cfg := DefaultConfig()
	cfg.AddCallback = "OnAdd"
	cfg.RemoveCallback = "OnRemove"
	cfg.ReorderCallback = "OnReorder"
	cfg.ChangeCallback = "Changed"
	f, _ := boundList(t, pl, cfg)

	f.Add()
	f.Reorder(0, 2)
	f.Remove(0)

	assert.Equal(t, []int{2}, pl.added)
	assert.Equal(t, [][2]int{{0, 2}}, pl.reordered)
	assert.Equal(t, 1, pl.removed)
	assert.Equal(t, 3, pl.changes)
}

func TestBindUnresolvedFallsBack(t *testing.T) {
	pl := &playlist{}
	h := &report.Recorder{}
	tree, err := property.NewTree(pl)
	require.NoError(t, err)
	prop, err := tree.Get("Tracks")
	require.NoError(t, err)
	p, err := proxy.NewSlice(&pl.Tracks)
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.AllowAdd = "Missing"
	cfg.AddCallback = "AlsoMissing"
	f := NewList("tracks", cfg)

	require.NoError(t, BindList(f, resolve.New(nil, resolve.WithHandler(h)), resolve.Target{Property: prop}, p))

	assert.True(t, f.AddEnabled())
	assert.Equal(t, []report.Kind{report.KindConfiguration, report.KindConfiguration}, h.Kinds())
	f.Add()
	assert.Len(t, pl.Tracks, 1)
}

func TestBindMapKeyPredicate(t *testing.T) {
	pl := &playlist{}
	m := ordered(t, "a")
	cfg := DefaultConfig()
	cfg.AllowAdd = "KeyAllowed"
	f := NewMap("keys", cfg)
	require.NoError(t, BindMap(f, resolve.New(nil), resolve.Target{Owner: pl}, proxy.NewOrderedMap(m)))

	f.SetPendingKey("admin")
	assert.Equal(t, KeyInvalid, f.KeyState())
	f.SetPendingKey("guest")
	assert.Equal(t, KeyValid, f.KeyState())
}

func TestWatchTreeSeesExternalAppend(t *testing.T) {
	pl := &playlist{Tracks: []string{"a"}}
	f, tree := boundList(t, pl, DefaultConfig())
	require.Error(t, WatchTree(f, tree, "Nope"))
	require.NoError(t, WatchTree(f, tree, "Tracks"))
	rec := &recorder{}
	f.Subscribe(rec.listen)
	sched := dispatch.NewManualScheduler()
	f.Attach(context.Background(), sched)

	pl.Tracks = append(pl.Tracks, "b")
	sched.Tick()

	assert.Len(t, f.Rows(), 2)
	assert.Equal(t, []events.Event{events.ItemsChanged{Component: "tracks"}}, rec.events)

	f.Detach()
	pl.Tracks = append(pl.Tracks, "c")
	sched.Tick()
	assert.Len(t, rec.events, 1)
}

func TestWatchTreeIgnoresOwnEdits(t *testing.T) {
	pl := &playlist{Tracks: []string{"a", "b"}}
	f, tree := boundList(t, pl, DefaultConfig())
	require.NoError(t, WatchTree(f, tree, "Tracks"))
	rec := &recorder{}
	f.Subscribe(rec.listen)
	sched := dispatch.NewManualScheduler()
	f.Attach(context.Background(), sched)
	defer f.Detach()

	f.Add()
	sched.Tick()
	f.Remove(0)
	sched.Tick()

	assert.Equal(t, []events.Event{
		events.ItemAdded{Component: "tracks", Index: 2},
		events.ItemRemoved{Component: "tracks", Index: 0},
	}, rec.events)

	pl.Tracks = pl.Tracks[:1]
	sched.Tick()
	require.Len(t, rec.events, 3)
	assert.Equal(t, events.ItemsChanged{Component: "tracks"}, rec.events[2])
}

func TestContextCancelDetaches(t *testing.T) {
	pl := &playlist{Limit: 4}
	q := dispatch.NewQueue()
	cfg := DefaultConfig()
	cfg.MaxItems = "MaxTracks"
	f, _ := boundList(t, pl, cfg, WithDispatcher(q))
	sched := dispatch.NewManualScheduler()
	ctx, cancel := context.WithCancel(context.Background())

	f.Attach(ctx, sched)
	require.True(t, f.Attached())
	require.Equal(t, 1, sched.Active())
	cancel()

	require.Eventually(t, func() bool { return q.Len() > 0 }, time.Second, time.Millisecond)
	q.Drain()
	assert.False(t, f.Attached())
	assert.Zero(t, sched.Active())
}
