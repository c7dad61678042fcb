package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for mathcrawl.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"  yaml:"engine"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	Filter  FilterConfig  `mapstructure:"filter"  yaml:"filter"`
	Output  OutputConfig  `mapstructure:"output"  yaml:"output"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// EngineConfig controls the traversal.
type EngineConfig struct {
	Depth           int           `mapstructure:"depth"            yaml:"depth"`
	Shuffle         bool          `mapstructure:"shuffle"          yaml:"shuffle"`
	PolitenessDelay time.Duration `mapstructure:"politeness_delay" yaml:"politeness_delay"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"  yaml:"request_timeout"`
	BaseURL         string        `mapstructure:"base_url"         yaml:"base_url"`
	Seeds           []string      `mapstructure:"seeds"            yaml:"seeds"`
	UserAgents      []string      `mapstructure:"user_agents"      yaml:"user_agents"`
}

// FetcherConfig controls the page fetcher.
type FetcherConfig struct {
	Type            string        `mapstructure:"type"              yaml:"type"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	Stealth         bool          `mapstructure:"stealth"           yaml:"stealth"`
	ControlURL      string        `mapstructure:"control_url"       yaml:"control_url"`
}

// FilterConfig controls which math snippets are kept. Zero lengths mean
// no limit.
type FilterConfig struct {
	MinLength int      `mapstructure:"min_length" yaml:"min_length"`
	MaxLength int      `mapstructure:"max_length" yaml:"max_length"`
	Reject    []string `mapstructure:"reject"     yaml:"reject"`
}

// OutputConfig controls where accumulated results are appended.
type OutputConfig struct {
	Dir         string `mapstructure:"dir"          yaml:"dir"`
	VisitedFile string `mapstructure:"visited_file" yaml:"visited_file"`
	MathFile    string `mapstructure:"math_file"    yaml:"math_file"`
	Resume      bool   `mapstructure:"resume"       yaml:"resume"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// MetricsConfig controls Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Depth:          4,
			RequestTimeout: 30 * time.Second,
			BaseURL:        "https://en.wikipedia.org/wiki/",
			Seeds: []string{
				"https://en.wikipedia.org/wiki/Mathematics",
				"https://en.wikipedia.org/wiki/Physics",
			},
			UserAgents: []string{
				"mathcrawl/" + Version + " (+https://github.com/IshaanNene/mathcrawl)",
			},
		},
		Fetcher: FetcherConfig{
			Type:            "http",
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    10,
		},
		Output: OutputConfig{
			Dir:         "./data",
			VisitedFile: "visited_wiki.txt",
			MathFile:    "math_wiki.txt",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
