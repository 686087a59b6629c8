package report

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := New("field.Add", KindBackend, "items", ErrAddFailed)
	assert.Equal(t, "field.Add [backend] field=items: add rejected by backend", err.Error())
	assert.True(t, errors.Is(err, ErrAddFailed))

	err = New("resolve.Value", KindConfiguration, "", ErrUnresolved)
	assert.Equal(t, "resolve.Value [configuration]: source could not be resolved", err.Error())
}

func TestConfigurationWrapsName(t *testing.T) {
	err := Configuration("resolve.Action", "items", "OnAdd", ErrUnresolved)
	assert.Contains(t, err.Error(), `"OnAdd"`)
	assert.True(t, errors.Is(err, ErrUnresolved))
	assert.True(t, IsKind(err, KindConfiguration))
	assert.False(t, IsKind(errors.New("plain"), KindConfiguration))
}

func TestReportUsesGlobalHandler(t *testing.T) {
	rec := &Recorder{}
	SetHandler(rec)
	defer SetHandler(nil)

	Report(nil, New("op", KindType, "", ErrNotCreatable))
	require.Len(t, rec.Errors, 1)
	assert.False(t, rec.Errors[0].Timestamp.IsZero())

	local := &Recorder{}
	Report(local, New("op", KindBackend, "", ErrAddFailed))
	assert.Len(t, rec.Errors, 1)
	assert.Equal(t, []Kind{KindBackend}, local.Kinds())

	Report(nil, nil)
	assert.Len(t, rec.Errors, 1)
}

func TestLogHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	h.HandleError(New("a", KindRejected, "", errors.New("guard")))
	assert.Empty(t, buf.String())

	h.HandleError(New("b", KindConfiguration, "f", ErrUnresolved))
	assert.True(t, strings.Contains(buf.String(), "level=WARN"))

	buf.Reset()
	h.HandleError(New("c", KindInvariant, "f", ErrCountMismatch))
	assert.True(t, strings.Contains(buf.String(), "level=ERROR"))
	assert.Contains(t, buf.String(), "kind=invariant")
}
