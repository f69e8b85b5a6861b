package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// Init configures the package logger. Production (APP_ENV=production) gets
// JSON output; everything else gets full-timestamp text. When LOG_DIR is set
// a per-day file is appended alongside stdout.
func Init(level string) error {
	Logger = logrus.New()

	appEnv := strings.ToLower(os.Getenv("APP_ENV"))
	if appEnv == "production" {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	switch strings.ToLower(level) {
	case "debug":
		Logger.SetLevel(logrus.DebugLevel)
	case "warning", "warn":
		Logger.SetLevel(logrus.WarnLevel)
	case "error":
		Logger.SetLevel(logrus.ErrorLevel)
	default:
		Logger.SetLevel(logrus.InfoLevel)
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		Logger.SetOutput(os.Stdout)
		return nil
	}
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	fullPath := filepath.Join(logDir, time.Now().Format("02_01_2006")+".log")
	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	Logger.SetOutput(io.MultiWriter(os.Stdout, file))
	return nil
}

// L returns the configured logger, initializing a default one if Init was
// never called (tests, one-shot tools).
func L() *logrus.Logger {
	if Logger == nil {
		_ = Init("info")
	}
	return Logger
}
