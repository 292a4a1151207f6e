// Package runlog writes a per-run log file alongside the console logger.
package runlog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Options configure Open.
type Options struct {
	// Dir holds the run log files. No file is written when empty.
	Dir string
	// Pipeline names the run, e.g. "files".
	Pipeline string
	// Level is the minimum level written to the file. Defaults to Info.
	Level slog.Leveler
	// Now stamps the file name. Defaults to time.Now.
	Now time.Time
}

// Run is an open run log.
type Run struct {
	// ID identifies the run in every record.
	ID     string
	Path   string
	Logger *slog.Logger

	file *os.File
}

// FileName returns the log file name for a pipeline started at t.
func FileName(pipeline string, t time.Time) string {
	return fmt.Sprintf("%s-csujadconvert-%s.log", t.Format("20060102-150405"), pipeline)
}

// Open creates the run log and returns a logger that writes to both base
// and the file. Every record carries a run_id attribute.
func Open(base *slog.Logger, opts Options) (*Run, error) {
	run := &Run{ID: uuid.NewString()}

	var fileHandler slog.Handler
	if opts.Dir != "" {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		run.Path = filepath.Join(opts.Dir, FileName(opts.Pipeline, now))
		f, err := os.OpenFile(run.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening run log: %w", err)
		}
		run.file = f

		level := opts.Level
		if level == nil {
			level = slog.LevelInfo
		}
		fileHandler = slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	}

	run.Logger = Tee(base, fileHandler).With("run_id", run.ID)
	return run, nil
}

// Close closes the log file.
func (r *Run) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
