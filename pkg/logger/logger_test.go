package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estomatologia-api/pkg/logger"
)

func TestNew_ProduccionEscribeJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	log.Component("filestore").Warn().Str("file", "submissions.json").Msg("archivo reiniciado")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "filestore", line["component"])
	assert.Equal(t, "submissions.json", line["file"])
	assert.Equal(t, "archivo reiniciado", line["message"])
}

func TestNew_NivelFiltraEventos(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "error", Output: &buf})

	log.Info().Msg("no debe salir")
	assert.Zero(t, buf.Len())
}

func TestNop_NoFalla(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Error().Msg("descartado") })
}
