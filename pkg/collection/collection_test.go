package collection

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveIsNotASwap(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{name: "forward", from: 0, to: 2, want: []string{"B", "C", "A"}},
		{name: "backward", from: 2, to: 0, want: []string{"C", "A", "B"}},
		{name: "adjacent", from: 0, to: 1, want: []string{"B", "A", "C"}},
		{name: "same", from: 1, to: 1, want: []string{"A", "B", "C"}},
		{name: "out of range", from: 0, to: 3, want: []string{"A", "B", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Move([]string{"A", "B", "C"}, tt.from, tt.to)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoveTwoElementRoundTrip(t *testing.T) {
	s := []int{1, 2}
	s = Move(s, 0, 1)
	s = Move(s, 0, 1)
	assert.Equal(t, []int{1, 2}, s)

	three := []int{1, 2, 3}
	three = Move(three, 0, 1)
	three = Move(three, 0, 2)
	assert.NotEqual(t, []int{1, 2, 3}, three)
}

func TestOrdered(t *testing.T) {
	o := NewOrdered[int]()
	require.NoError(t, o.Insert("a", 1))
	require.NoError(t, o.Insert("b", 2))
	require.NoError(t, o.Insert("c", 3))
	require.ErrorIs(t, o.Insert("a", 9), ErrDuplicateKey)

	assert.Equal(t, 3, o.Len())
	assert.Equal(t, []string{"a", "b", "c"}, o.Keys())
	v, ok := o.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	assert.True(t, o.Delete("b"))
	assert.False(t, o.Delete("b"))
	assert.Equal(t, []string{"a", "c"}, o.Keys())
	assert.Equal(t, 1, o.IndexOf("c"))

	o.Move(0, 1)
	assert.Equal(t, []string{"c", "a"}, o.Keys())
	assert.Equal(t, "c", o.KeyAt(0))
	assert.Equal(t, "", o.KeyAt(5))
}

func TestOrderedJSON(t *testing.T) {
	o := NewOrdered[string]()
	o.Set("z", "last")
	o.Set("a", "first")

	data, err := json.Marshal(o)
	require.NoError(t, err)

	back := NewOrdered[string]()
	require.NoError(t, json.Unmarshal(data, back))
	assert.Equal(t, []string{"z", "a"}, back.Keys())

	plain := NewOrdered[string]()
	require.NoError(t, json.Unmarshal([]byte(`{"b":"x","a":"y"}`), plain))
	assert.Equal(t, []string{"a", "b"}, plain.Keys())
}

func TestOrderIndex(t *testing.T) {
	data, err := MarshalOrder([]string{"b", "a"})
	require.NoError(t, err)
	keys, err := UnmarshalOrder(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, keys)

	keys, err = UnmarshalOrder([]byte(`{"a":1,"b":0}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, keys)

	keys, err = UnmarshalOrder(nil)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" MAP ")
	require.NoError(t, err)
	assert.Equal(t, KindMap, k)

	k, err = ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindList, k)

	_, err = ParseKind("tree")
	assert.Error(t, err)
}
