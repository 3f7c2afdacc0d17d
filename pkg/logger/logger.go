package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a new configured logger instance
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(getLogLevel())

	if isJSONFormat() {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			DisableColors:   !isColorEnabled(),
		})
	}

	return logger
}

// getLogLevel determines log level from environment
func getLogLevel() logrus.Level {
	levelStr := strings.ToLower(os.Getenv("FINOPS_REPORTER_LOG_LEVEL"))

	switch levelStr {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// isJSONFormat checks if JSON log format is requested
func isJSONFormat() bool {
	format := strings.ToLower(os.Getenv("FINOPS_REPORTER_LOG_FORMAT"))
	return format == "json"
}

// isColorEnabled checks if colored output is enabled
func isColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.ToLower(os.Getenv("FINOPS_REPORTER_LOG_COLOR")) == "false" {
		return false
	}
	return true
}
