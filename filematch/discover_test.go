package filematch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/densho/csujadconvert/checksum"
)

// stubHash replaces hashFiles for the duration of the test.
func stubHash(t *testing.T, fn func(ctx context.Context, paths []string, workers int) []checksum.Result) {
	t.Helper()
	orig := hashFiles
	hashFiles = fn
	t.Cleanup(func() { hashFiles = orig })
}

func names(files []BinaryFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestDiscoverFollowsFileSymlinks(t *testing.T) {
	src := t.TempDir()
	dir := t.TempDir()
	writeFiles(t, src, map[string]string{"audio.bin": "abc"})

	links := map[string]string{
		"ike_01_01_006.mp3": filepath.Join(src, "audio.bin"),
		"ike_01_01_007.jpg": filepath.Join(src, "missing.jpg"),
		"ike_01_01_008":     src,
	}
	for name, target := range links {
		if err := os.Symlink(target, filepath.Join(dir, name)); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}
	}

	files, stats, err := Discover(context.Background(), dir, NewParser(4, DefaultExternal), DiscoverOptions{Workers: 1, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("got files %v, want only the symlinked mp3", names(files))
	}
	f := files[0]
	if f.Name != "ike_01_01_006.mp3" || f.LocalID != "ike_01_01_006" || !f.External {
		t.Errorf("file = %+v", f)
	}
	if f.Checksums.SHA1 != "a9993e364706816aba3e25717850c26c9cd0d89d" || f.Checksums.Size != 3 {
		t.Errorf("symlink target not hashed: %+v", f.Checksums)
	}
	if stats.Found != 3 || stats.NotRegular != 2 || stats.InvalidFilenames != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDiscoverSkipsHashFailures(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"ike_01_01_001.mp3": "one",
		"ike_01_01_002.mp3": "two",
		"ike_01_01_003.mp3": "three",
		"ike_01_01_004.jpg": "four",
	})

	stubHash(t, func(ctx context.Context, paths []string, workers int) []checksum.Result {
		results := checksum.Files(ctx, paths, workers)
		for i := range results {
			if strings.HasSuffix(results[i].Path, "ike_01_01_002.mp3") {
				results[i] = checksum.Result{Path: results[i].Path, Err: errors.New("read error")}
			}
		}
		return results
	})

	files, stats, err := Discover(context.Background(), dir, NewParser(4, DefaultExternal), DiscoverOptions{Workers: 2, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	want := []string{"ike_01_01_001.mp3", "ike_01_01_003.mp3", "ike_01_01_004.jpg"}
	if got := names(files); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("files = %v, want %v", got, want)
	}
	if stats.HashFailures != 1 || stats.Found != 4 {
		t.Errorf("stats = %+v", stats)
	}
	for _, f := range files[:2] {
		if f.Checksums.SHA1 == "" {
			t.Errorf("%s lost its checksums", f.Name)
		}
	}
}

func TestDiscoverSkipHash(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"ike_01_01_001.mp3": "one"})

	stubHash(t, func(context.Context, []string, int) []checksum.Result {
		t.Error("hashing should be skipped")
		return nil
	})

	files, _, err := Discover(context.Background(), dir, NewParser(4, DefaultExternal), DiscoverOptions{SkipHash: true, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 1 || !files[0].External || files[0].Checksums.SHA1 != "" {
		t.Errorf("files = %+v", files)
	}
}

func TestDiscoverCanceledIsNotHashFailure(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"ike_01_01_001.mp3": "one",
		"ike_01_01_002.mp3": "two",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, stats, err := Discover(ctx, dir, NewParser(4, DefaultExternal), DiscoverOptions{Workers: 1, Logger: quietLogger()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Discover() error = %v, want context.Canceled", err)
	}
	if stats.HashFailures != 0 {
		t.Errorf("HashFailures = %d, want 0", stats.HashFailures)
	}
}
