package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/mathcrawl/internal/config"
)

// flags holds the command-line values layered over the loaded config.
type flags struct {
	cfgFile   string
	verbose   bool
	depth     int
	outputDir string
	resume    bool
	shuffle   bool
	fetcher   string
	delay     time.Duration
}

func main() {
	if err := newRootCmd(&flags{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(f *flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mathcrawl [seed-url]",
		Short: "Harvest math notation from Wikipedia",
		Long: `mathcrawl walks Wikipedia breadth-first from one or more seed articles,
collecting the TeX source of every formula it finds.

Every link on a page that contains math is visited in the next round, for
--depth rounds. Pages without math end their branch. Visited article ids and
math snippets are appended to two text files in the output directory; with
--resume, articles recorded by earlier runs are skipped.

Press Ctrl+C to stop early; everything gathered so far is still saved.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrawl(cmd, f, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&f.cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.Flags().IntVarP(&f.depth, "depth", "d", 4, "number of crawl rounds")
	rootCmd.Flags().StringVarP(&f.outputDir, "output", "o", "", "output directory (default from config: ./data)")
	rootCmd.Flags().BoolVar(&f.resume, "resume", false, "skip articles listed in the existing visited file")
	rootCmd.Flags().BoolVar(&f.shuffle, "shuffle", false, "visit each round in random order")
	rootCmd.Flags().StringVar(&f.fetcher, "fetcher", "", "page fetcher: http or browser")
	rootCmd.Flags().DurationVar(&f.delay, "delay", 0, "politeness delay between page fetches")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd(f))

	return rootCmd
}

// loadConfig loads the config file and applies explicitly set flags.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	applyCLIOverrides(cmd, f, cfg)

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyCLIOverrides copies flags the user actually set into cfg, so config
// file values survive when a flag is left at its default.
func applyCLIOverrides(cmd *cobra.Command, f *flags, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("depth") {
		cfg.Engine.Depth = f.depth
	}
	if changed("output") {
		cfg.Output.Dir = f.outputDir
	}
	if changed("resume") {
		cfg.Output.Resume = f.resume
	}
	if changed("shuffle") {
		cfg.Engine.Shuffle = f.shuffle
	}
	if changed("fetcher") {
		cfg.Fetcher.Type = f.fetcher
	}
	if changed("delay") {
		cfg.Engine.PolitenessDelay = f.delay
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mathcrawl %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.cfgFile)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Engine:\n")
			fmt.Fprintf(w, "  Depth:             %d\n", cfg.Engine.Depth)
			fmt.Fprintf(w, "  Shuffle:           %v\n", cfg.Engine.Shuffle)
			fmt.Fprintf(w, "  Politeness Delay:  %s\n", cfg.Engine.PolitenessDelay)
			fmt.Fprintf(w, "  Request Timeout:   %s\n", cfg.Engine.RequestTimeout)
			fmt.Fprintf(w, "  Base URL:          %s\n", cfg.Engine.BaseURL)
			fmt.Fprintf(w, "  Seeds:             %v\n", cfg.Engine.Seeds)
			fmt.Fprintf(w, "  User Agents:       %d configured\n", len(cfg.Engine.UserAgents))
			fmt.Fprintf(w, "\nFetcher:\n")
			fmt.Fprintf(w, "  Type:              %s\n", cfg.Fetcher.Type)
			fmt.Fprintf(w, "  Follow Redirects:  %v\n", cfg.Fetcher.FollowRedirects)
			fmt.Fprintf(w, "  Max Body Size:     %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Fprintf(w, "  Stealth:           %v\n", cfg.Fetcher.Stealth)
			if cfg.Fetcher.ControlURL != "" {
				fmt.Fprintf(w, "  Control URL:       %s\n", cfg.Fetcher.ControlURL)
			}
			fmt.Fprintf(w, "\nOutput:\n")
			fmt.Fprintf(w, "  Directory:         %s\n", cfg.Output.Dir)
			fmt.Fprintf(w, "  Visited File:      %s\n", cfg.Output.VisitedFile)
			fmt.Fprintf(w, "  Math File:         %s\n", cfg.Output.MathFile)
			fmt.Fprintf(w, "  Resume:            %v\n", cfg.Output.Resume)
			fmt.Fprintf(w, "\nLogging:\n")
			fmt.Fprintf(w, "  Level:             %s\n", cfg.Logging.Level)
			fmt.Fprintf(w, "  Format:            %s\n", cfg.Logging.Format)
			fmt.Fprintf(w, "\nMetrics:\n")
			fmt.Fprintf(w, "  Enabled:           %v\n", cfg.Metrics.Enabled)
			fmt.Fprintf(w, "  Port:              %d\n", cfg.Metrics.Port)
			fmt.Fprintf(w, "  Path:              %s\n", cfg.Metrics.Path)
			return nil
		},
	}
}
