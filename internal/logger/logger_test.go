package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel(" WARNING "))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelOff, ParseLevel("off"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
	assert.Equal(t, "WARN", LevelWarn.String())
}

func TestZeroLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewZeroLogger(&buf, LevelInfo, Fields{"service": "settlement"})

	l.Warn("wager skipped", map[string]interface{}{"wager_id": "w-1"})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "wager skipped", line["message"])
	assert.Equal(t, "w-1", line["wager_id"])
	assert.Equal(t, "settlement", line["service"])

	buf.Reset()
	l.Debug("hidden", nil)
	assert.Zero(t, buf.Len())

	l.SetLevel(LevelDebug)
	l.Debug("visible", nil)
	assert.Contains(t, buf.String(), "visible")

	buf.Reset()
	l.Error(errors.New("boom"), map[string]interface{}{"event_id": "e-1"})
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestNullLogger(t *testing.T) {
	var l Logger = NewNullLogger()
	assert.NotPanics(t, func() {
		l.Info("x", nil)
		l.Warn("x", nil)
		l.Error(errors.New("x"), nil)
		l.Debug("x", nil)
		l.SetLevel(LevelOff)
	})
}
