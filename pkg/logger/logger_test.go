package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/pkg/logger"
)

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "debug", Service: "ventas-api", Output: &buf})

	log := l.Component("sales")
	log.Debug().Str("saleId", "s-1").Msg("venta creada")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ventas-api", entry["service"])
	assert.Equal(t, "sales", entry["component"])
	assert.Equal(t, "s-1", entry["saleId"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNew_NivelDesconocido_UsaInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Level: "verbose", Output: &buf})

	l.Debug().Msg("oculto")
	assert.Zero(t, buf.Len())

	l.Info().Msg("visible")
	assert.NotZero(t, buf.Len())
}
