package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/magefree/mage-duel-go/internal/config"
)

func TestNewLevels(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := New(config.LoggingConfig{Level: "warn", Format: format}, "duelctl")
		require.NoError(t, err, format)
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel), "%s logger logs info at warn level", format)
		assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel), "%s logger drops errors", format)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "verbose", Format: "console"}, "duelctl")
	assert.ErrorContains(t, err, "logging.level")
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duel.log")
	logger, err := New(config.LoggingConfig{Level: "info", Format: "json", Output: path}, "duel-server")
	require.NoError(t, err)

	logger.Info("duel started")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"duel started"`)
	assert.Contains(t, string(data), `"command":"duel-server"`)
}
