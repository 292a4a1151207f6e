// Package checksum computes content digests and media types for binary files.
package checksum

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// BlockSize is the read size used when streaming file content.
const BlockSize = 64 * 1024

// Sum holds the digests, size and media type of one file.
type Sum struct {
	SHA1     string
	SHA256   string
	MD5      string
	Size     int64
	MIMEType string
}

// Reader streams r through SHA-1, SHA-256 and MD5 in BlockSize reads.
// MIMEType is left empty.
func Reader(r io.Reader) (Sum, error) {
	h1 := sha1.New()
	h256 := sha256.New()
	hmd5 := md5.New()
	w := io.MultiWriter(h1, h256, hmd5)

	var size int64
	buf := make([]byte, BlockSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			// hash.Hash writes never fail
			_, _ = w.Write(buf[:n])
			size += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Sum{}, err
		}
	}

	return Sum{
		SHA1:   hex.EncodeToString(h1.Sum(nil)),
		SHA256: hex.EncodeToString(h256.Sum(nil)),
		MD5:    hex.EncodeToString(hmd5.Sum(nil)),
		Size:   size,
	}, nil
}

// File hashes the file at path and guesses its media type from the name.
func File(path string) (sum Sum, err error) {
	f, err := os.Open(path)
	if err != nil {
		return Sum{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	sum, err = Reader(f)
	if err != nil {
		return Sum{}, fmt.Errorf("reading %s: %w", path, err)
	}
	sum.MIMEType = MIMEType(path)
	return sum, nil
}

// Result is the outcome of hashing one path in a batch.
type Result struct {
	Path string
	Sum  Sum
	Err  error
}

// Files hashes paths with at most workers files open at once. Results are
// returned in the order of paths. A failure on one file is reported in its
// Result and does not stop the others; only cancellation of ctx does.
func Files(ctx context.Context, paths []string, workers int) []Result {
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Path: path, Err: err}
				return nil
			}
			sum, err := File(path)
			results[i] = Result{Path: path, Sum: sum, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// mediaTypes covers the formats seen in digitization deliveries. Anything
// else falls back to the platform MIME table.
var mediaTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"mp4":  "video/mp4",
	"m4v":  "video/x-m4v",
	"wav":  "audio/x-wav",
	"mpg":  "video/mpeg",
	"mpeg": "video/mpeg",
	"mov":  "video/quicktime",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"jp2":  "image/jp2",
	"pdf":  "application/pdf",
	"txt":  "text/plain",
}

// MIMEType guesses a media type from a file name's extension.
func MIMEType(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return "application/octet-stream"
	}
	if t, ok := mediaTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension("." + ext); t != "" {
		if base, _, err := mime.ParseMediaType(t); err == nil {
			return base
		}
		return t
	}
	return "application/octet-stream"
}
