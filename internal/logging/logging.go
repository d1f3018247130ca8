// Package logging builds the zap logger shared by the duel commands.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/magefree/mage-duel-go/internal/config"
)

// New builds the logger for one command. Every entry carries the command
// name so server and CLI output can share a sink.
func New(cfg config.LoggingConfig, command string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.level: %w", err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Format == "console" {
		zapCfg.Encoding = "console"
		zapCfg.Sampling = nil
		if isTerminal(cfg.Output) {
			zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
	}
	output := cfg.Output
	if output == "" {
		output = "stderr"
	}
	zapCfg.OutputPaths = []string{output}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s logger: %w", command, err)
	}
	return logger.With(zap.String("command", command)), nil
}

func isTerminal(output string) bool {
	return output == "" || output == "stderr" || output == "stdout"
}
