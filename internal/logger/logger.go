// Package logger provides centralized logging using arbor.
package logger

import (
	"github.com/ternarybob/arbor"
	arborcommon "github.com/ternarybob/arbor/common"
	"github.com/ternarybob/arbor/models"

	"github.com/ryosukesatoh/narrative-radar/internal/config"
)

// Setup builds a console logger from cfg.
func Setup(cfg config.LoggingConfig) arbor.ILogger {
	logger := arbor.NewLogger().
		WithConsoleWriter(writerConfig(cfg)).
		WithLevelFromString(cfg.Level)
	return logger
}

func writerConfig(cfg config.LoggingConfig) models.WriterConfiguration {
	outputType := models.OutputFormatLogfmt
	if cfg.Format == "json" {
		outputType = models.OutputFormatJSON
	}
	return models.WriterConfiguration{
		Type:       models.LogWriterTypeConsole,
		TimeFormat: "15:04:05.000",
		OutputType: outputType,
	}
}

// Stop flushes buffered log output. Safe to call more than once.
func Stop() {
	arborcommon.Stop()
}
