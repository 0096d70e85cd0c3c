// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the file-backed logger for a conversion run.
package logging

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFile is where log entries land when no log file is configured.
const DefaultFile = "pdfspeech.log"

const (
	maxSizeMB  = 1
	maxBackups = 3
)

// New returns a logger writing to path, rotating the file once it grows
// past a megabyte. Debug entries are recorded only when verbose is set;
// verbose also echoes every entry to console. The returned closer
// releases the log file.
func New(path string, verbose bool, console io.Writer) (*slog.Logger, io.Closer) {
	if path == "" {
		path = DefaultFile
	}
	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}

	var w io.Writer = sink
	if verbose && console != nil {
		w = io.MultiWriter(sink, console)
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), sink
}
