package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneywatch/internal/platform/config"
	"moneywatch/internal/platform/logging"
)

func TestNewWritesToFallback(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger, closer, err := logging.New(config.LoggerConfig{Level: "info"}, buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug().Msg("hidden")
	logger.Info().Str("title", "Bones").Msg("record appended")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"title":"Bones"`)
	assert.Contains(t, out, `"app":"moneywatch"`)
}

func TestNewWritesToFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "moneywatch.log")
	logger, closer, err := logging.New(config.LoggerConfig{Level: "debug", File: path}, nil)
	require.NoError(t, err)

	logger.Debug().Msg("tick")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"message":"tick"`)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()
	_, _, err := logging.New(config.LoggerConfig{Level: "verbose"}, nil)
	assert.Error(t, err)
}
