package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{event: ItemAdded{Index: 2}, want: `added index:2`},
		{event: ItemAdded{Index: 0, Key: "a"}, want: `added key:"a"`},
		{event: ItemRemoved{Index: 1}, want: `removed index:1`},
		{event: ItemRemoved{Key: "b"}, want: `removed key:"b"`},
		{event: ItemReordered{From: 0, To: 2}, want: `reordered from:0 to:2`},
		{event: ItemsChanged{}, want: `items changed`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.event.Describe())
	}
}

func TestCmd(t *testing.T) {
	assert.Nil(t, Cmd(nil))
	cmd := Cmd(ItemsChanged{Component: "shapes"})
	require.NotNil(t, cmd)
	msg, ok := cmd().(ItemsChanged)
	require.True(t, ok)
	assert.Equal(t, ComponentID("shapes"), msg.Source())
}

func TestBus(t *testing.T) {
	var b Bus
	var got []string
	cancelA := b.Subscribe(func(e Event) { got = append(got, "a:"+e.Describe()) })
	b.Subscribe(func(e Event) { got = append(got, "b:"+e.Describe()) })
	b.Subscribe(nil)
	assert.Equal(t, 2, b.Len())

	b.Emit(ItemsChanged{})
	cancelA()
	b.Emit(ItemReordered{From: 1, To: 0})

	assert.Equal(t, []string{
		"a:items changed",
		"b:items changed",
		"b:reordered from:1 to:0",
	}, got)
}
