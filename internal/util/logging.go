package util

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a logrus logger writing to w with the given level and format
func NewLogger(w io.Writer, level, format string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(w)

	// trace and panic levels are not used
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warning", "warn", "":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return log, nil
}

// Discard returns a logger that drops every entry
func Discard() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// LoggerOr returns l, or a discarding logger when l is nil
func LoggerOr(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return Discard()
	}
	return l
}
