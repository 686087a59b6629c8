package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	p := load(t)
	ctx := context.Background()

	require.NoError(t, p.Put("shapes", Record{Key: "b", Type: "circle", Value: json.RawMessage(`{"R":2}`)}))
	require.NoError(t, p.Put("shapes", Record{Key: "a-with-dash", Type: "square"}))
	require.NoError(t, p.Put("other", Record{Key: "x", Type: "int", Value: json.RawMessage("3")}))

	keys, err := p.Keys(ctx, "shapes")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a-with-dash"}, keys)

	rec, err := p.Get("shapes", "b")
	require.NoError(t, err)
	assert.Equal(t, "b", rec.Key)
	assert.Equal(t, "circle", rec.Type)
	assert.JSONEq(t, `{"R":2}`, string(rec.Value))

	empty, err := p.Get("shapes", "a-with-dash")
	require.NoError(t, err)
	assert.Equal(t, "null", string(empty.Value))

	names, err := p.Collections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"other", "shapes"}, names)
}

func TestRewriteKeepsPosition(t *testing.T) {
	p := load(t)
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, p.Put("m", Record{Key: k, Type: "int", Value: json.RawMessage("0")}))
	}
	require.NoError(t, p.Put("m", Record{Key: "a", Type: "int", Value: json.RawMessage("9")}))

	keys, err := p.Keys(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestDeleteAndOrder(t *testing.T) {
	p := load(t)
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, p.Put("m", Record{Key: k, Type: "int"}))
	}

	require.NoError(t, p.SetOrder("m", []string{"c", "a", "b"}))
	require.NoError(t, p.Delete("m", "a"))
	assert.ErrorIs(t, p.Delete("m", "a"), ErrNotFound)
	_, err := p.Get("m", "a")
	assert.ErrorIs(t, err, ErrNotFound)

	keys, err := p.Keys(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, keys)
}

func TestKeysRecoverUnindexedRecords(t *testing.T) {
	p := load(t)
	ctx := context.Background()
	require.NoError(t, p.Put("m", Record{Key: "z", Type: "int"}))
	require.NoError(t, p.SetOrder("m", []string{"ghost"}))

	require.NoError(t, p.Put("m", Record{Key: "y", Type: "int"}))
	keys, err := p.Keys(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "z"}, keys)
}

func TestCollectionNameRequired(t *testing.T) {
	p := load(t)
	assert.Error(t, p.Put(" ", Record{Key: "a"}))
	assert.Error(t, p.Put("m", Record{}))
	_, err := p.Keys(context.Background(), "")
	assert.Error(t, err)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	data := []byte("path: " + filepath.Join(dir, "db") + "\nfields:\n  shapes:\n    allowAdd: CanAdd\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".coledit.yaml"), data, 0o644))
	t.Setenv("COLEDIT_CONFIG_PATH", dir)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "db"), cfg.BasePath())

	var opts struct {
		AllowAdd string `mapstructure:"allowAdd"`
	}
	require.NoError(t, cfg.Decode("fields.shapes", &opts))
	assert.Equal(t, "CanAdd", opts.AllowAdd)
	require.NoError(t, cfg.Decode("fields.missing", &opts))
}

func TestConfigExpandsHome(t *testing.T) {
	cfg, err := ConfigFromPath("~/data")
	require.NoError(t, err)
	assert.NotContains(t, cfg.BasePath(), "~")
}
