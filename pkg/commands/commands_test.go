package commands

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/coledit/pkg/store"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	cmd := New()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestSubcommands(t *testing.T) {
	cmd := New()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"demo", "edit", "show", "types", "completion", "upgrade", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestTypesCommand(t *testing.T) {
	color.NoColor = true
	out := run(t, "types", "Polygon")
	assert.Contains(t, out, "Square")
	assert.NotContains(t, out, "Circle")
}

func TestShowCommand(t *testing.T) {
	dir := t.TempDir()
	cfg, err := store.ConfigFromPath(dir)
	require.NoError(t, err)
	p, err := store.Load(cfg)
	require.NoError(t, err)
	require.NoError(t, p.Put("garden", store.Record{Key: "pond", Type: "Circle", Value: []byte(`{"Radius":1}`)}))

	out := run(t, "show", "--store", dir, "--json")
	assert.Contains(t, out, `"collection": "garden"`)
	assert.Contains(t, out, `"key": "pond"`)
}

func TestShowCommandCompact(t *testing.T) {
	dir := t.TempDir()
	cfg, err := store.ConfigFromPath(dir)
	require.NoError(t, err)
	p, err := store.Load(cfg)
	require.NoError(t, err)
	require.NoError(t, p.Put("garden", store.Record{Key: "pond", Type: "Circle", Value: []byte(`{"Radius":1}`)}))

	out := run(t, "show", "--store", dir, "--collection", "garden", "--json", "--compact")
	assert.Contains(t, out, `[{"collection":"garden","items":[{"key":"pond","type":"Circle","value":{"Radius":1}}]}]`)
	assert.NotContains(t, out, "\n  ")
}

func TestUpgradeDryRun(t *testing.T) {
	out := run(t, "upgrade", "--dry-run", "--version", "0.4.0")
	assert.Contains(t, out, "go install tableflip.dev/coledit/cmd/coledit@v0.4.0")
}

func TestInstallArgs(t *testing.T) {
	for in, want := range map[string]string{
		"":        "latest",
		"latest":  "latest",
		"1.2.3":   "v1.2.3",
		"v1.2.3":  "v1.2.3",
		"a1b2c3d": "a1b2c3d",
	} {
		assert.Equal(t, []string{"install", coleditPackage + "@" + want}, installArgs(in), in)
	}
}

func TestVersionCommand(t *testing.T) {
	out := run(t, "version", "--short")
	assert.Contains(t, out, "dev")
}
