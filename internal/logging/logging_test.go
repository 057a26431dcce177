package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brightscope/internal/config"
)

func TestComponentLoggerTagsEntries(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(config.AppConfig{Name: "api", Version: "1.0.0", LogLevel: "info", LogFormat: "json"}, &buf)

	component := Component(base, "payments")
	component.Info().Str("tran_ref", "TST123").Msg("payment updated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "payments", entry["component"])
	assert.Equal(t, "api", entry["service"])
	assert.Equal(t, "TST123", entry["tran_ref"])
	assert.Equal(t, "info", entry["level"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.AppConfig{LogLevel: "warn", LogFormat: "json"}, &buf)

	logger.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}
