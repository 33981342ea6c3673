package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// NewLogger builds the process logger: JSON on stdout, Debug level in dev.
// When LogDir is set the same stream is also written to a timestamped file;
// the returned closer must be called on shutdown.
func NewLogger(cfg *Config) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if cfg.Environment == "dev" {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if cfg.LogDir != "" {
		f, err := SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			return nil, nil, err
		}
		out = io.MultiWriter(os.Stdout, f)
		closer = f
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetupLogFile creates a new timestamped log file and cleans up old files.
// Returns the file handle (caller must close) or error.
func SetupLogFile(dir string, maxFiles int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("tenderly-%s.log",
		time.Now().Format("2006-01-02T15-04-05")))

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	if err := cleanupOldLogs(dir, maxFiles); err != nil {
		// Logging still works with the new file
		fmt.Fprintf(os.Stderr, "warning: failed to cleanup old logs: %v\n", err)
	}

	return f, nil
}

// cleanupOldLogs removes oldest log files when count exceeds maxFiles.
func cleanupOldLogs(dir string, maxFiles int) error {
	if maxFiles <= 0 {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "tenderly-*.log"))
	if err != nil {
		return err
	}
	if len(files) <= maxFiles {
		return nil
	}

	// Timestamped names sort chronologically
	sort.Strings(files)

	for _, f := range files[:len(files)-maxFiles] {
		if err := os.Remove(f); err != nil {
			return fmt.Errorf("remove %s: %w", f, err)
		}
	}

	return nil
}
