package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billflow/internal/config"
	"billflow/internal/logger"
)

func TestSetupWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logger.SetupWriter(config.LogConfig{Level: "info", Format: "json"}, &buf))

	l := logger.WithComponent("invoice_service")
	l.Info().Str("invoice_id", "i1").Msg("created")
	l.Debug().Msg("hidden")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))[0], &entry))
	assert.Equal(t, "invoice_service", entry["component"])
	assert.Equal(t, "i1", entry["invoice_id"])
	assert.Equal(t, "created", entry["message"])
	assert.NotContains(t, buf.String(), "hidden")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestSetupWriter_InvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, logger.SetupWriter(config.LogConfig{Level: "loud"}, &buf))
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logger.SetupWriter(config.LogConfig{Level: "debug", Format: "json"}, &buf))

	l := logger.WithRequestID("req-1")
	l.Warn().Msg("slow")

	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}
