package storage

import (
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/IshaanNene/mathcrawl/internal/config"
)

// Output is where a crawl's visited ids and math snippets are appended.
type Output struct {
	Visited *LineFile
	Math    *LineFile
	logger  *slog.Logger
}

// NewOutput builds the output files from cfg.
func NewOutput(cfg *config.OutputConfig, logger *slog.Logger) *Output {
	return &Output{
		Visited: NewLineFile(filepath.Join(cfg.Dir, cfg.VisitedFile), logger),
		Math:    NewLineFile(filepath.Join(cfg.Dir, cfg.MathFile), logger),
		logger:  logger.With("component", "output"),
	}
}

// Save appends visited ids and math snippets. Both files are attempted even
// if the first write fails.
func (o *Output) Save(visited, math []string) error {
	errVisited := o.Visited.Append(visited)
	errMath := o.Math.Append(math)
	if err := errors.Join(errVisited, errMath); err != nil {
		return err
	}

	o.logger.Info("results saved",
		"visited_file", o.Visited.Path,
		"visited", len(visited),
		"math_file", o.Math.Path,
		"math", len(math),
	)
	return nil
}

// PreviouslyVisited loads the ids recorded by earlier runs.
func (o *Output) PreviouslyVisited() ([]string, error) {
	return o.Visited.Load()
}
