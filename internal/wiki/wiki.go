// Package wiki adapts the fetcher and parser to the traversal engine for
// MediaWiki sites.
package wiki

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/IshaanNene/mathcrawl/internal/fetcher"
	"github.com/IshaanNene/mathcrawl/internal/parser"
	"github.com/IshaanNene/mathcrawl/internal/pipeline"
	"github.com/IshaanNene/mathcrawl/internal/types"
)

// SeedIDs turns seed URLs into page identifiers by taking the last path
// segment of each, normalized like the ids found in links. Bare identifiers
// are normalized too; blank entries are dropped.
func SeedIDs(seeds []string) []string {
	ids := make([]string, 0, len(seeds))
	for _, s := range seeds {
		if id := seedID(strings.TrimSpace(s)); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func seedID(seed string) string {
	if u, err := url.Parse(seed); err == nil && u.Path != "" {
		seed = u.EscapedPath()
	}
	seed = strings.TrimRight(seed, "/")
	if i := strings.LastIndex(seed, "/"); i >= 0 {
		seed = seed[i+1:]
	}
	if seed == "" {
		return ""
	}
	return parser.NormalizeID(seed)
}

// Extractor fetches a page and parses math and links out of it. It
// satisfies engine.Extractor.
type Extractor struct {
	fetcher  fetcher.Fetcher
	parser   parser.Parser
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
}

// NewExtractor creates an Extractor. Snippets pass through pipe before
// being returned; a nil pipe keeps them as parsed.
func NewExtractor(f fetcher.Fetcher, p parser.Parser, pipe *pipeline.Pipeline, logger *slog.Logger) *Extractor {
	return &Extractor{
		fetcher:  f,
		parser:   p,
		pipeline: pipe,
		logger:   logger.With("component", "wiki_extractor"),
	}
}

// Extract fetches address and returns its math snippets and linked page ids.
func (e *Extractor) Extract(ctx context.Context, address string) ([]string, []string, error) {
	req, err := types.NewRequest(address)
	if err != nil {
		return nil, nil, err
	}
	req.PageID = seedID(req.URL.EscapedPath())

	resp, err := e.fetcher.Fetch(ctx, req)
	if err != nil {
		var fe *types.FetchError
		if errors.As(err, &fe) && ctx.Err() == nil {
			e.logger.Warn("fetch failed",
				"page", req.PageID,
				"status", fe.StatusCode,
				"retryable", fe.IsRetryable(),
				"retry_after", fe.RetryAfter,
			)
		}
		return nil, nil, fmt.Errorf("fetch %s: %w", address, err)
	}
	if !resp.IsSuccess() {
		return nil, nil, fmt.Errorf("fetch %s: %w", address, &types.FetchError{
			URL:        address,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
		})
	}

	page, err := e.parser.Parse(resp)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", address, err)
	}

	if resp.FinalURL != "" && resp.FinalURL != req.URLString() {
		e.logger.Info("article redirected",
			"page", req.PageID,
			"from", req.URLString(),
			"to", resp.FinalURL,
		)
	}

	math := page.Math
	if e.pipeline != nil {
		if math, err = e.pipeline.Apply(page.Math); err != nil {
			return nil, nil, fmt.Errorf("filter %s: %w", address, err)
		}
	}

	e.logger.Debug("page extracted",
		"page", req.PageID,
		"status", resp.StatusCode,
		"bytes", resp.ContentLength,
		"content_type", resp.ContentType,
		"duration", resp.FetchDuration,
		"math", len(math),
		"filtered", len(page.Math)-len(math),
		"links", len(page.Links),
	)
	return math, page.Links, nil
}
