package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"invoice-dashboard/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWritesJSONByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.LoggerConfig{Level: "info", Encoding: "json"})

	logger.Info("customer created", "component", "test")
	logger.Debug("dropped below level")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "customer created", record["msg"])
	assert.Equal(t, "test", record["component"])
	assert.NotContains(t, buf.String(), "dropped below level")
}

func TestNewTextEncoding(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.LoggerConfig{Level: "debug", Encoding: "text"})

	logger.Debug("asset stored", "ref", "/customers/a.png")

	assert.Contains(t, buf.String(), "msg=\"asset stored\"")
	assert.Contains(t, buf.String(), "ref=/customers/a.png")
}
