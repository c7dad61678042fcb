package storage

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/IshaanNene/mathcrawl/internal/config"
	"github.com/IshaanNene/mathcrawl/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestLineFileAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "math.txt")
	f := NewLineFile(path, testLogger)

	if err := f.Append([]string{`x^{2}`, `\frac{a}{b}`}); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := f.Append([]string{`x^{2}`}); err != nil {
		t.Fatalf("second append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "x^{2}\n\\frac{a}{b}\nx^{2}\n"
	if string(data) != want {
		t.Errorf("file content = %q, want %q", data, want)
	}
}

func TestLineFileAppendEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visited.txt")
	if err := NewLineFile(path, testLogger).Append(nil); err != nil {
		t.Fatalf("append: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("expected empty file, got %d bytes", info.Size())
	}
}

func TestLineFileLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visited.txt")
	if err := os.WriteFile(path, []byte("Mathematics\r\n\nPhysics\n   \nTopology"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewLineFile(path, testLogger).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if want := []string{"Mathematics", "Physics", "Topology"}; !slices.Equal(got, want) {
		t.Errorf("load = %q, want %q", got, want)
	}
}

func TestLineFileLoadMissing(t *testing.T) {
	got, err := NewLineFile(filepath.Join(t.TempDir(), "absent.txt"), testLogger).Load()
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no lines, got %v", got)
	}
}

func TestLineFileAppendError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	// The parent "directory" is a regular file.
	err := NewLineFile(filepath.Join(blocker, "out.txt"), testLogger).Append([]string{"x"})
	var se *types.StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StorageError, got %v", err)
	}
}

func TestOutputRoundTrip(t *testing.T) {
	cfg := &config.OutputConfig{
		Dir:         t.TempDir(),
		VisitedFile: "visited_wiki.txt",
		MathFile:    "math_wiki.txt",
	}
	out := NewOutput(cfg, testLogger)

	if err := out.Save([]string{"A", "B"}, []string{"x^2"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := out.Save([]string{"C"}, nil); err != nil {
		t.Fatalf("second save: %v", err)
	}

	visited, err := out.PreviouslyVisited()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if want := []string{"A", "B", "C"}; !slices.Equal(visited, want) {
		t.Errorf("visited = %v, want %v", visited, want)
	}

	math, err := out.Math.Load()
	if err != nil {
		t.Fatalf("load math: %v", err)
	}
	if want := []string{"x^2"}; !slices.Equal(math, want) {
		t.Errorf("math = %v, want %v", math, want)
	}
	if out.Visited.Path != filepath.Join(cfg.Dir, "visited_wiki.txt") {
		t.Errorf("unexpected visited path %s", out.Visited.Path)
	}
}
