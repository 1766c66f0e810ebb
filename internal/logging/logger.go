package logging

import (
	"io"
	"os"
	"strings"

	"github.com/DeRuina/timberjack"
	"github.com/sirupsen/logrus"

	"voice-chat/config"
)

// NewLogger builds a logrus logger from the log section of the config.
// Logs always go to stdout; when a file is configured they are also written
// to a size-rotated file.
func NewLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()

	level := logrus.InfoLevel
	if lv, err := logrus.ParseLevel(strings.ToLower(cfg.Level)); err == nil {
		level = lv
	}
	logger.SetLevel(level)

	var output io.Writer = os.Stdout
	if cfg.File != "" {
		output = io.MultiWriter(os.Stdout, &timberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
		})
	}
	logger.SetOutput(output)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
