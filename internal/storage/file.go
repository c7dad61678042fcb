package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/IshaanNene/mathcrawl/internal/types"
)

// LineFile is a newline-delimited text file holding one entry per line.
// Entries are written as-is; an entry containing a newline spans lines.
type LineFile struct {
	Path   string
	logger *slog.Logger
}

// NewLineFile creates a LineFile at path.
func NewLineFile(path string, logger *slog.Logger) *LineFile {
	return &LineFile{
		Path:   path,
		logger: logger.With("component", "line_file"),
	}
}

// Append writes lines to the end of the file, creating it and its parent
// directory if needed. Existing content is never rewritten.
func (f *LineFile) Append(lines []string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return &types.StorageError{Path: f.Path, Err: fmt.Errorf("create output dir: %w", err)}
	}

	file, err := os.OpenFile(f.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &types.StorageError{Path: f.Path, Err: err}
	}

	w := bufio.NewWriter(file)
	for _, line := range lines {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return &types.StorageError{Path: f.Path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &types.StorageError{Path: f.Path, Err: err}
	}

	f.logger.Debug("lines appended", "path", f.Path, "count", len(lines))
	return nil
}

// Load returns the non-blank lines of the file. A missing file is empty.
func (f *LineFile) Load() ([]string, error) {
	file, err := os.Open(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &types.StorageError{Path: f.Path, Err: err}
	}
	defer file.Close()

	var lines []string
	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		if line := strings.TrimRight(sc.Text(), "\r"); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &types.StorageError{Path: f.Path, Err: err}
	}

	f.logger.Debug("lines loaded", "path", f.Path, "count", len(lines))
	return lines, nil
}
