package pipeline

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/IshaanNene/mathcrawl/internal/config"
	"github.com/IshaanNene/mathcrawl/internal/types"
)

// Middleware processes a math snippet and returns the (possibly modified)
// snippet. Return "" to drop it.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms a snippet. Return "" to drop it.
	Process(snippet string) (string, error)
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// FromConfig builds the standard snippet pipeline: whitespace normalisation
// followed by the filters in cfg.
func FromConfig(cfg *config.FilterConfig, logger *slog.Logger) (*Pipeline, error) {
	p := New(logger)
	p.Use(&WhitespaceMiddleware{})

	if cfg.MinLength > 0 || cfg.MaxLength > 0 {
		p.Use(&LengthMiddleware{Min: cfg.MinLength, Max: cfg.MaxLength})
	}
	if len(cfg.Reject) > 0 {
		mw, err := NewRejectMiddleware(cfg.Reject)
		if err != nil {
			return nil, err
		}
		p.Use(mw)
	}
	p.logger.Debug("pipeline built", "stages", p.Len())
	return p, nil
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Process runs the snippet through all middleware in order.
func (p *Pipeline) Process(snippet string) (string, error) {
	current := snippet

	for _, mw := range p.middlewares {
		result, err := mw.Process(current)
		if err != nil {
			return "", &types.PipelineError{
				Stage:   mw.Name(),
				Snippet: current,
				Err:     err,
			}
		}
		if result == "" {
			p.logger.Debug("snippet dropped", "stage", mw.Name(), "snippet", snippet)
			return "", nil
		}
		current = result
	}

	return current, nil
}

// Apply processes every snippet and returns the survivors in order, with
// duplicates produced by normalisation removed.
func (p *Pipeline) Apply(snippets []string) ([]string, error) {
	seen := make(map[string]struct{}, len(snippets))
	out := make([]string, 0, len(snippets))
	for _, s := range snippets {
		result, err := p.Process(s)
		if err != nil {
			return nil, err
		}
		if result == "" {
			continue
		}
		if _, dup := seen[result]; dup {
			continue
		}
		seen[result] = struct{}{}
		out = append(out, result)
	}
	return out, nil
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}

// compilePatterns compiles each pattern, reporting the first that fails.
func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}
