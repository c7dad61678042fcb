package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/mathcrawl/internal/config"
	"github.com/IshaanNene/mathcrawl/internal/engine"
	"github.com/IshaanNene/mathcrawl/internal/fetcher"
	"github.com/IshaanNene/mathcrawl/internal/observability"
	"github.com/IshaanNene/mathcrawl/internal/parser"
	"github.com/IshaanNene/mathcrawl/internal/pipeline"
	"github.com/IshaanNene/mathcrawl/internal/storage"
	"github.com/IshaanNene/mathcrawl/internal/wiki"
)

// runCrawl executes the root command.
func runCrawl(cmd *cobra.Command, f *flags, args []string) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Logging, f.verbose)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}

	var seeds []string
	for _, rawURL := range args {
		if err := config.ValidateURL(rawURL); err != nil {
			return fmt.Errorf("invalid seed URL %q: %w", rawURL, err)
		}
		seeds = append(seeds, rawURL)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, stopping crawl...", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	pipe, err := pipeline.FromConfig(&cfg.Filter, logger)
	if err != nil {
		return fmt.Errorf("build snippet pipeline: %w", err)
	}

	out := storage.NewOutput(&cfg.Output, logger)

	var skip []string
	if cfg.Output.Resume {
		skip, err = out.PreviouslyVisited()
		if err != nil {
			return fmt.Errorf("load visited: %w", err)
		}
		logger.Info("resuming", "previously_visited", len(skip), "file", out.Visited.Path)
	}

	pageFetcher, err := fetcher.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}
	defer pageFetcher.Close()

	var observers engine.Observers
	if cfg.Metrics.Enabled {
		metrics := observability.NewMetrics(logger)
		metrics.StartServer(ctx, cfg.Metrics.Port, cfg.Metrics.Path)
		observers = append(observers, metrics)
	}
	var progress *observability.Progress
	if !f.verbose {
		progress = observability.NewProgress(os.Stderr)
		observers = append(observers, progress)
	}

	extractor := wiki.NewExtractor(pageFetcher, parser.NewWikiParser(parser.DefaultLinkPrefix, logger), pipe, logger)
	crawler := wiki.NewCrawler(cfg, extractor, observers, logger)

	start := time.Now()
	res, crawlErr := crawler.Run(ctx, seeds, skip)
	elapsed := time.Since(start)
	if progress != nil {
		progress.Stop()
	}

	if res == nil {
		return crawlErr
	}

	// Partial results are saved whatever the outcome.
	if err := out.Save(res.NewlyVisited, res.Math); err != nil {
		logger.Error("failed to save results", "error", err)
		if crawlErr == nil {
			crawlErr = err
		}
	}

	logger.Info("crawl finished",
		"state", res.State,
		"elapsed", elapsed,
		"rounds", res.Rounds,
		"visited", len(res.NewlyVisited),
		"math", len(res.Math),
		"pruned", res.Pruned,
		"pending", res.Pending,
	)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "\nCrawl %s in %s\n", res.State, elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "   Rounds:    %d of %d\n", res.Rounds, cfg.Engine.Depth)
	fmt.Fprintf(w, "   Pages:     %d visited, %d without math, %d left queued\n", len(res.NewlyVisited), res.Pruned, res.Pending)
	fmt.Fprintf(w, "   Math:      %d distinct snippets\n", len(res.Math))
	fmt.Fprintf(w, "   Output:    %s, %s\n", out.Visited.Path, out.Math.Path)

	return crawlErr
}
