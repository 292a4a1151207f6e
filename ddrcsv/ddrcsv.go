// Package ddrcsv writes DDR import CSV files.
//
// Rows are appended to the output one at a time and flushed immediately, so
// a run that stops part way leaves every row written so far intact. The
// header is written with the first row when the file is new or empty.
package ddrcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by Lock when another run holds the output directory.
var ErrLocked = errors.New("output directory is locked by another run")

const lockName = ".csujadconvert.lock"

// Writer appends fixed-column rows to a CSV file.
type Writer struct {
	path   string
	header []string
	file   *os.File
	csv    *csv.Writer
	rows   int
}

// NewWriter returns a writer for path. Nothing is created until the first
// call to Append.
func NewWriter(path string, header []string) *Writer {
	return &Writer{path: path, header: header}
}

// Path returns the output path.
func (w *Writer) Path() string { return w.path }

// Rows returns the number of rows appended by this writer.
func (w *Writer) Rows() int { return w.rows }

// Append writes one row, preceded by the header if the file is empty.
func (w *Writer) Append(row []string) error {
	if len(row) != len(w.header) {
		return fmt.Errorf("row has %d columns, want %d", len(row), len(w.header))
	}
	if w.file == nil {
		if err := w.open(); err != nil {
			return err
		}
	}

	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("flushing row: %w", err)
	}
	w.rows++
	return nil
}

func (w *Writer) open() error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat output file: %w", err)
	}

	w.file = f
	w.csv = csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.csv.Write(w.header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	return nil
}

// Close closes the output file if it was opened.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	w.csv.Flush()
	err := w.csv.Error()
	if cerr := w.file.Close(); cerr != nil && err == nil {
		err = cerr
	}
	w.file = nil
	if err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}

// FilesName returns the file CSV name for a collection and role.
func FilesName(collectionID, role string, t time.Time) string {
	return fmt.Sprintf("%s-%s-files-%s.csv", collectionID, role, t.Format("20060102-1504"))
}

// EntitiesName returns the entity CSV name for a collection.
func EntitiesName(collectionID string, t time.Time) string {
	return fmt.Sprintf("%s-entities-%s.csv", collectionID, t.Format("20060102-1504"))
}

// Lock takes an advisory lock on dir, creating it if needed. The returned
// function releases the lock.
func Lock(dir string) (func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	fl := flock.New(filepath.Join(dir, lockName))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", dir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	return fl.Unlock, nil
}
