package wiki

import (
	"context"
	"log/slog"

	"github.com/IshaanNene/mathcrawl/internal/config"
	"github.com/IshaanNene/mathcrawl/internal/engine"
)

// Crawler runs a bounded traversal over wiki articles.
type Crawler struct {
	extractor engine.Extractor
	cfg       config.EngineConfig
	observer  engine.Observer
	logger    *slog.Logger
}

// NewCrawler creates a Crawler. observer may be nil.
func NewCrawler(cfg *config.Config, ex engine.Extractor, observer engine.Observer, logger *slog.Logger) *Crawler {
	return &Crawler{
		extractor: ex,
		cfg:       cfg.Engine,
		observer:  observer,
		logger:    logger,
	}
}

// Address returns the URL of the article with the given id.
func (c *Crawler) Address(id string) string {
	return c.cfg.BaseURL + id
}

// Run crawls from the given seed URLs, skipping the ids in skip. Nil seeds
// fall back to the configured ones.
func (c *Crawler) Run(ctx context.Context, seeds []string, skip []string) (*engine.Result, error) {
	if len(seeds) == 0 {
		seeds = c.cfg.Seeds
	}
	ids := SeedIDs(seeds)

	c.logger.Info("crawl starting",
		"component", "wiki_crawler",
		"seeds", ids,
		"depth", c.cfg.Depth,
		"skip", len(skip),
	)

	return engine.Traverse(ctx, c.extractor, ids, engine.Options{
		Depth:           c.cfg.Depth,
		AlreadyVisited:  skip,
		Address:         c.Address,
		Shuffle:         c.cfg.Shuffle,
		PolitenessDelay: c.cfg.PolitenessDelay,
		Observer:        c.observer,
		Logger:          c.logger,
	})
}
