package filematch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/densho/csujadconvert/checksum"
)

// BinaryFile is a file found in the binary directory.
type BinaryFile struct {
	Path     string
	Name     string
	LocalID  string
	Sort     int
	External bool
	Rule     string

	// Checksums is only filled in for external files.
	Checksums checksum.Sum
}

// Ext returns the file name extension without the dot.
func (f *BinaryFile) Ext() string {
	return strings.TrimPrefix(filepath.Ext(f.Name), ".")
}

// DiscoverStats counts what Discover saw and skipped.
type DiscoverStats struct {
	Found            int
	InvalidFilenames int
	// NotRegular counts entries that are neither regular files nor symlinks
	// to one.
	NotRegular   int
	HashFailures int
}

// DiscoverOptions tune Discover.
type DiscoverOptions struct {
	// Workers bounds the files hashed at once.
	Workers int
	// SkipHash leaves external files unhashed.
	SkipHash bool
	Logger   *slog.Logger
}

// hashFiles is replaced in tests.
var hashFiles = checksum.Files

// Discover walks dir recursively in lexical order, parses every file name and
// hashes external files. Dot files and dot directories are ignored. Symlinks
// to regular files are followed; symlinked directories are not. Files with
// unparseable names or that fail to hash are logged and left out of the
// result.
func Discover(ctx context.Context, dir string, parser *Parser, opts DiscoverOptions) ([]BinaryFile, DiscoverStats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		files []BinaryFile
		stats DiscoverStats
	)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		stats.Found++
		if !d.Type().IsRegular() {
			if reason := irregular(path, d); reason != "" {
				stats.NotRegular++
				logger.Warn("skipping file", "path", path, "reason", reason)
				return nil
			}
		}

		parsed, err := parser.Parse(name)
		if err != nil {
			stats.InvalidFilenames++
			logger.Warn("skipping file", "path", path, "err", err)
			return nil
		}
		logger.Debug("parsed file name",
			"file", name,
			"local_id", parsed.LocalID,
			"sort", parsed.Sort,
			"external", parsed.External,
			"rule", parsed.Rule)

		files = append(files, BinaryFile{
			Path:     path,
			Name:     name,
			LocalID:  parsed.LocalID,
			Sort:     parsed.Sort,
			External: parsed.External,
			Rule:     parsed.Rule,
		})
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walking %s: %w", dir, err)
	}

	if opts.SkipHash {
		return files, stats, nil
	}

	var (
		paths []string
		index []int
	)
	for i := range files {
		if files[i].External {
			paths = append(paths, files[i].Path)
			index = append(index, i)
		}
	}
	if len(paths) == 0 {
		return files, stats, nil
	}

	results := hashFiles(ctx, paths, opts.Workers)
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	failed := make(map[int]bool)
	for j, res := range results {
		i := index[j]
		if res.Err != nil {
			failed[i] = true
			stats.HashFailures++
			logger.Error("skipping file: hashing failed", "path", res.Path, "err", res.Err)
			continue
		}
		files[i].Checksums = res.Sum
		logger.Debug("hashed external file",
			"file", files[i].Name,
			"sha1", res.Sum.SHA1,
			"size", humanize.Bytes(uint64(res.Sum.Size)))
	}

	if len(failed) == 0 {
		return files, stats, nil
	}
	kept := files[:0]
	for i, f := range files {
		if !failed[i] {
			kept = append(kept, f)
		}
	}
	return kept, stats, nil
}

// irregular returns why a non-regular entry cannot be used, or "" for a
// symlink whose target is a regular file.
func irregular(path string, d fs.DirEntry) string {
	if d.Type()&fs.ModeSymlink == 0 {
		return "not a regular file"
	}
	info, err := os.Stat(path)
	if err != nil {
		return "broken symlink: " + err.Error()
	}
	if !info.Mode().IsRegular() {
		return "symlink target is not a regular file"
	}
	return ""
}
