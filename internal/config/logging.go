package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogging configures the global zerolog logger from LOG_LEVEL and
// LOG_FILE. Without LOG_FILE, logs go to fallback: the server passes a console
// writer on stderr, the terminal client passes io.Discard. The returned
// closer releases the log file, if one was opened.
func SetupLogging(c *Config, fallback io.Writer) (io.Closer, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)

	if c.LogFile == "" {
		log.Logger = zerolog.New(fallback).With().Timestamp().Logger()
		return nopCloser{}, nil
	}
	if dir := filepath.Dir(c.LogFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("log dir: %w", err)
		}
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return f, nil
}

// ConsoleWriter is the human-readable stderr output used in development.
func ConsoleWriter() io.Writer {
	return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
