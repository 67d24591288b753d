package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterSink(t *testing.T) {
	buf := bytes.Buffer{}
	sink := New(&buf)
	Info(sink, "loaded %d sprites", 3)
	Debugf(sink, "hidden")
	Error(sink, errors.New("boom"), "save failed")

	out := buf.String()
	assert.Contains(t, out, "INFO loaded 3 sprites")
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "ERROR save failed: boom")

	sink.Verbose = true
	Debugf(sink, "shown")
	assert.Contains(t, buf.String(), "DEBUG shown")
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exceptions.txt")
	sink := NewFile(path)
	Info(sink, "not written")
	Error(sink, errors.New("disk full"), "save failed")
	Error(sink, nil, "second")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.NotContains(t, content, "not written")
	assert.Contains(t, content, "Log message: save failed")
	assert.Contains(t, content, "disk full")
	assert.Equal(t, 2, strings.Count(content, "Log message:"))
	assert.Equal(t, path, sink.Path())
}

func TestMultiRecorder(t *testing.T) {
	first, second := NewRecorder(), NewRecorder()
	sink := Multi(first, second, Discard)
	Info(sink, "a")
	Error(sink, errors.New("b"), "c")

	assert.Equal(t, []string{"a"}, first.Messages(Generic))
	assert.Equal(t, []string{"c"}, second.Messages(Exception))
	assert.Len(t, second.Events(), 2)

	var seen []Level
	SinkFunc(func(event Event) { seen = append(seen, event.Level) }).Log(Event{Level: Debug})
	assert.Equal(t, []Level{Debug}, seen)
}
