package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"lonelog/internal/config"
)

const (
	defaultLevel    = "warn"
	timestampFormat = "2006-01-02T15:04:05.000Z07:00"
)

// New builds a logger writing to out. Stdout is left to command output, so
// callers normally pass os.Stderr.
func New(cfg config.LoggingConfig, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)

	level := strings.TrimSpace(cfg.Level)
	if level == "" {
		level = defaultLevel
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	logger.SetLevel(parsed)

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
		})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: timestampFormat})
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}

	return logger, nil
}

// Discard returns a logger that drops everything; used when no logger is
// supplied.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
