// Package logging builds the zerolog logger handed to the rest of huepair.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"hue-bridge-client/internal/config"
)

// New returns a logger writing to out and, when cfg.File is set, appending to
// that file. The returned closer releases the file and is never nil.
func New(cfg config.LogConfig, out io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var console io.Writer = out
	if !cfg.JSON {
		console = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !cfg.Colors,
		}
	}

	var closer io.Closer = nopCloser{}
	w := console
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("open log file: %w", err)
		}
		closer = f
		w = zerolog.MultiLevelWriter(console, f)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

// ParseLevel maps a config level name to a zerolog level. Empty means info.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	}
	return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", name)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
