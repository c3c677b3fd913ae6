package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewTo(&buf, LevelInfo, FormatJSON)
	require.NoError(t, err)

	log.With("run", 7).Warn("skipped match", "entry", "1.json", "reason", errors.New("bad"))
	log.Debug("hidden")
	require.NoError(t, log.Sync())

	var got map[string]any
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got))
	assert.Equal(t, "WARN", got["level"])
	assert.Equal(t, "skipped match", got["msg"])
	assert.Equal(t, "1.json", got["entry"])
	assert.Equal(t, "bad", got["reason"])
	assert.EqualValues(t, 7, got["run"])
}

func TestOddArgs(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewTo(&buf, LevelInfo, FormatJSON)
	require.NoError(t, err)
	log.Info("x", "dangling")
	assert.Contains(t, buf.String(), `"dangling":null`)
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewTo(&bytes.Buffer{}, LevelInfo, "xml")
	assert.Error(t, err)
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Info("nothing happens")
	assert.NoError(t, l.Sync())
}
