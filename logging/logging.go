// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package logging installs the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/danielhkuo/julekalender/cliparse"
)

// Setup builds a logger from cfg and makes it the slog default. The returned
// closer flushes the log file, if any.
func Setup(cfg cliparse.Config) io.Closer {
	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if cfg.LogFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		w = rotating
		closer = rotating
	}

	slog.SetDefault(slog.New(NewHandler(w, cfg.LogFormat)))
	return closer
}

// NewHandler returns a text or JSON handler writing to w.
func NewHandler(w io.Writer, format string) slog.Handler {
	if format == cliparse.LogFormatJSON {
		return slog.NewJSONHandler(w, nil)
	}
	return slog.NewTextHandler(w, nil)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
