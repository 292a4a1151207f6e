package runlog

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestOpenWritesBoth(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer
	base := slog.New(slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelWarn}))

	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	run, err := Open(base, Options{Dir: filepath.Join(dir, "logs"), Pipeline: "files", Now: now})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	run.Logger.Info("begin run")
	run.Logger.Warn("file matches more than one object")
	if err := run.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if want := filepath.Join(dir, "logs", "20240305-140709-csujadconvert-files.log"); run.Path != want {
		t.Errorf("Path = %q, want %q", run.Path, want)
	}
	data, err := os.ReadFile(run.Path)
	if err != nil {
		t.Fatal(err)
	}
	file := string(data)
	for _, want := range []string{"begin run", "more than one object", "run_id=" + run.ID} {
		if !strings.Contains(file, want) {
			t.Errorf("log file missing %q:\n%s", want, file)
		}
	}

	if strings.Contains(console.String(), "begin run") {
		t.Error("console should not receive records below its level")
	}
	if !strings.Contains(console.String(), "more than one object") {
		t.Errorf("console missing warning:\n%s", console.String())
	}
}

func TestOpenWithoutDir(t *testing.T) {
	var console bytes.Buffer
	run, err := Open(slog.New(slog.NewTextHandler(&console, nil)), Options{Pipeline: "entities"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer run.Close()

	if run.Path != "" {
		t.Errorf("Path = %q, want empty", run.Path)
	}
	run.Logger.Info("hello")
	if !strings.Contains(console.String(), "run_id="+run.ID) {
		t.Errorf("console missing run_id:\n%s", console.String())
	}
}

func TestFanoutEnabled(t *testing.T) {
	var a, b bytes.Buffer
	h := newFanoutHandler(
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("fanout should be enabled when any handler is")
	}

	slog.New(h).WithGroup("g").Debug("x", "k", 1)
	if a.Len() != 0 {
		t.Errorf("warn handler got %q", a.String())
	}
	if !strings.Contains(b.String(), "g.k=1") {
		t.Errorf("debug handler got %q", b.String())
	}
}
