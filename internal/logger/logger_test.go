package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlogWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogWriter(SlogConfig{Level: "info", Format: "json"}, &buf)

	log.Info("photo saved", "id", 42)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "photo saved", entry["msg"])
	assert.Equal(t, "albumy", entry["service"])
	assert.EqualValues(t, 42, entry["id"])

	ts, ok := entry["time"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
}

func TestNewSlogWriterLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogWriter(SlogConfig{Level: "warn", Format: "text"}, &buf)

	log.Info("skipped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}
