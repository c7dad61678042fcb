package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Engine.Depth < 0 {
		return fmt.Errorf("engine.depth must be >= 0, got %d", cfg.Engine.Depth)
	}
	if cfg.Engine.RequestTimeout <= 0 {
		return fmt.Errorf("engine.request_timeout must be > 0")
	}
	if cfg.Engine.PolitenessDelay < 0 {
		return fmt.Errorf("engine.politeness_delay must be >= 0")
	}
	if err := ValidateURL(cfg.Engine.BaseURL); err != nil {
		return fmt.Errorf("engine.base_url: %w", err)
	}
	if !strings.HasSuffix(cfg.Engine.BaseURL, "/") {
		return fmt.Errorf("engine.base_url must end with '/', got %q", cfg.Engine.BaseURL)
	}
	for _, seed := range cfg.Engine.Seeds {
		if err := ValidateURL(seed); err != nil {
			return fmt.Errorf("engine.seeds: %q: %w", seed, err)
		}
	}

	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}
	if cfg.Fetcher.Type != "http" && cfg.Fetcher.Type != "browser" {
		return fmt.Errorf("fetcher.type must be 'http' or 'browser', got %q", cfg.Fetcher.Type)
	}
	if cfg.Fetcher.ControlURL != "" {
		u, err := url.Parse(cfg.Fetcher.ControlURL)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
			return fmt.Errorf("fetcher.control_url must be a ws:// or wss:// DevTools URL, got %q", cfg.Fetcher.ControlURL)
		}
	}

	if cfg.Filter.MinLength < 0 || cfg.Filter.MaxLength < 0 {
		return fmt.Errorf("filter lengths must be >= 0")
	}
	if cfg.Filter.MaxLength > 0 && cfg.Filter.MaxLength < cfg.Filter.MinLength {
		return fmt.Errorf("filter.max_length (%d) is below filter.min_length (%d)", cfg.Filter.MaxLength, cfg.Filter.MinLength)
	}
	for _, pattern := range cfg.Filter.Reject {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("filter.reject: %q: %w", pattern, err)
		}
	}

	if cfg.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	if cfg.Output.VisitedFile == "" || cfg.Output.MathFile == "" {
		return fmt.Errorf("output.visited_file and output.math_file must not be empty")
	}
	if cfg.Output.VisitedFile == cfg.Output.MathFile {
		return fmt.Errorf("output.visited_file and output.math_file must differ, both are %q", cfg.Output.MathFile)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stderr" && cfg.Logging.Output != "stdout" {
		return fmt.Errorf("logging.output must be 'stderr' or 'stdout', got %q", cfg.Logging.Output)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			return fmt.Errorf("metrics.path must start with '/', got %q", cfg.Metrics.Path)
		}
	}

	return nil
}

// ValidateURL checks if a URL string is valid for crawling.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
