// Package mathcrawl provides a public SDK for embedding the math crawler as a library.
//
// Example usage:
//
//	crawler, err := mathcrawl.NewCrawler(
//	    mathcrawl.WithDepth(2),
//	    mathcrawl.WithDelay(200*time.Millisecond),
//	    mathcrawl.WithFilter(3, 500),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := crawler.Crawl(ctx, []string{"https://en.wikipedia.org/wiki/Topology"})
//	for _, tex := range res.Math {
//	    fmt.Println(tex)
//	}
package mathcrawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/IshaanNene/mathcrawl/internal/config"
	"github.com/IshaanNene/mathcrawl/internal/engine"
	"github.com/IshaanNene/mathcrawl/internal/fetcher"
	"github.com/IshaanNene/mathcrawl/internal/observability"
	"github.com/IshaanNene/mathcrawl/internal/parser"
	"github.com/IshaanNene/mathcrawl/internal/pipeline"
	"github.com/IshaanNene/mathcrawl/internal/storage"
	"github.com/IshaanNene/mathcrawl/internal/wiki"
)

// Result is what a crawl accumulated.
type Result = engine.Result

// State is the final state of a crawl.
type State = engine.State

const (
	StateCompleted = engine.StateCompleted
	StateCancelled = engine.StateCancelled
	StateFailed    = engine.StateFailed
)

// Observer receives progress callbacks while a crawl runs.
type Observer = engine.Observer

// TraversalError reports the page failure that stopped a crawl.
type TraversalError = engine.TraversalError

// Crawler is the high-level API for using mathcrawl as a library.
type Crawler struct {
	cfg       *config.Config
	logger    *slog.Logger
	observers engine.Observers
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithDepth sets the number of crawl rounds.
func WithDepth(depth int) Option {
	return func(c *Crawler) { c.cfg.Engine.Depth = depth }
}

// WithDelay sets the politeness delay between page fetches.
func WithDelay(d time.Duration) Option {
	return func(c *Crawler) { c.cfg.Engine.PolitenessDelay = d }
}

// WithShuffle randomises the visiting order of each round.
func WithShuffle() Option {
	return func(c *Crawler) { c.cfg.Engine.Shuffle = true }
}

// WithBaseURL sets the URL prefix page ids are appended to.
func WithBaseURL(base string) Option {
	return func(c *Crawler) { c.cfg.Engine.BaseURL = base }
}

// WithUserAgent sets a custom User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *Crawler) { c.cfg.Engine.UserAgents = []string{ua} }
}

// WithBrowser fetches pages through headless Chromium.
func WithBrowser(stealth bool) Option {
	return func(c *Crawler) {
		c.cfg.Fetcher.Type = "browser"
		c.cfg.Fetcher.Stealth = stealth
	}
}

// WithFilter keeps only snippets between minLen and maxLen runes and drops
// any matching a reject pattern.
func WithFilter(minLen, maxLen int, reject ...string) Option {
	return func(c *Crawler) {
		c.cfg.Filter.MinLength = minLen
		c.cfg.Filter.MaxLength = maxLen
		c.cfg.Filter.Reject = reject
	}
}

// WithOutputDir sets the directory Save appends to.
func WithOutputDir(dir string) Option {
	return func(c *Crawler) { c.cfg.Output.Dir = dir }
}

// WithObserver registers a progress observer.
func WithObserver(o Observer) Option {
	return func(c *Crawler) { c.observers = append(c.observers, o) }
}

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) { c.logger = logger }
}

// WithVerbose enables debug-level logging on the default logger.
func WithVerbose() Option {
	return func(c *Crawler) { c.cfg.Logging.Level = "debug" }
}

// NewCrawler creates a new Crawler with the given options.
func NewCrawler(opts ...Option) (*Crawler, error) {
	c := &Crawler{cfg: config.DefaultConfig()}
	for _, opt := range opts {
		opt(c)
	}

	if err := config.Validate(c.cfg); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	if c.logger == nil {
		logger, err := observability.NewLogger(c.cfg.Logging, false)
		if err != nil {
			return nil, err
		}
		c.logger = logger
	}
	return c, nil
}

// Crawl walks from the given seed URLs, or the default seeds when none are
// given. Pages listed in skip are never fetched.
//
// Cancelling ctx returns the partial result with StateCancelled and a nil
// error. A page that cannot be fetched stops the crawl; the partial result
// is returned with StateFailed alongside a *TraversalError.
func (c *Crawler) Crawl(ctx context.Context, seeds []string, skip ...string) (*Result, error) {
	f, err := fetcher.New(c.cfg, c.logger)
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}
	defer f.Close()

	pipe, err := pipeline.FromConfig(&c.cfg.Filter, c.logger)
	if err != nil {
		return nil, fmt.Errorf("build snippet pipeline: %w", err)
	}

	extractor := wiki.NewExtractor(f, parser.NewWikiParser(parser.DefaultLinkPrefix, c.logger), pipe, c.logger)
	return wiki.NewCrawler(c.cfg, extractor, c.observers, c.logger).Run(ctx, seeds, skip)
}

// Save appends the pages first visited and the math found by res to the
// output directory.
func (c *Crawler) Save(res *Result) error {
	return storage.NewOutput(&c.cfg.Output, c.logger).Save(res.NewlyVisited, res.Math)
}

// PreviouslyVisited returns the page ids saved by earlier runs, for use as
// Crawl's skip list.
func (c *Crawler) PreviouslyVisited() ([]string, error) {
	return storage.NewOutput(&c.cfg.Output, c.logger).PreviouslyVisited()
}
