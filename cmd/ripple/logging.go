package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/ripple/parameter"
)

var (
	logDir            = parameter.LogDir
	logFileName       = parameter.LogFileName
	maxLogSize  int64 = parameter.MaxLogSize
)

// setupLogging routes slog and the standard logger to the debug log file, or discards both
// Returns the open file when debug is set; the terminal UI owns stdout and stderr
func setupLogging(debug bool) *os.File {
	if !debug {
		discard()
		return nil
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		discard()
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("ripple_%s.log", time.Now().Format("20060102_150405")))
		if err := os.Rename(logPath, rotated); err != nil {
			discard()
			return nil
		}
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		discard()
		return nil
	}

	// slog.SetDefault redirects the standard logger too; set it first, then pin log to the file
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	slog.Info("debug logging started", "pid", os.Getpid())
	return f
}

func discard() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	log.SetOutput(io.Discard)
}
