package infra

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ProductionEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("production", &buf)

	logger.Info().Str("key", "value").Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "value", line["key"])
}

func TestNewLogger_DevelopmentEmitsConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("development", &buf)

	logger.Info().Msg("hello")

	var line map[string]any
	assert.Error(t, json.Unmarshal(buf.Bytes(), &line), "console output is not JSON")
	assert.Contains(t, buf.String(), "hello")
}
