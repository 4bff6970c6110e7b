package config

import (
	"log/slog"
	"os"
)

// NewLogger returns the JSON logger used across the service and installs it
// as the slog default.
func NewLogger(service string) *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(h).With("service", service)
	slog.SetDefault(logger)
	return logger
}
