package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type Config struct {
	WindowDays  int             `yaml:"window_days"`
	Output      string          `yaml:"output"`
	Schedule    string          `yaml:"schedule"`
	RunOnStart  bool            `yaml:"run_on_start"`
	HTTPTimeout time.Duration   `yaml:"http_timeout"`
	Feeds       []FeedSource    `yaml:"feeds"`
	Search      SearchConfig    `yaml:"search"`
	Publishers  PublisherConfig `yaml:"publishers"`
	Logging     LoggingConfig   `yaml:"logging"`
}

// FeedSource is a syndication feed to poll.
type FeedSource struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// SearchQuery is a repository search issued against the search endpoint.
// The pushed:> qualifier is appended at fetch time.
type SearchQuery struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Query string `yaml:"query"`
}

type SearchConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	PerPage int           `yaml:"per_page"`
	Queries []SearchQuery `yaml:"queries"`
}

type PublisherConfig struct {
	Stdout  bool          `yaml:"stdout"`
	Web     WebConfig     `yaml:"web"`
	Discord DiscordConfig `yaml:"discord"`
}

type WebConfig struct {
	Addr string `yaml:"addr"`
}

type DiscordConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	DefaultOutput     = "web/public/data/latest.json"
	DefaultWindowDays = 14
	DefaultSearchURL  = "https://api.github.com"
)

// DefaultFeeds are the feeds polled when the config names none.
var DefaultFeeds = []FeedSource{
	{ID: "solana-blog", Label: "Solana Blog", URL: "https://solana.com/rss"},
	{ID: "helius-blog", Label: "Helius Blog", URL: "https://www.helius.dev/blog/rss.xml"},
	{ID: "superteam", Label: "Superteam", URL: "https://superteam.fun/blog/rss.xml"},
}

// DefaultQueries are the searches issued when the config names none.
var DefaultQueries = []SearchQuery{
	{ID: "anchor", Label: "Anchor framework", Query: "anchor lang:TypeScript OR lang:Rust topic:solana"},
	{ID: "token-extensions", Label: "Token-2022 / Token Extensions", Query: `token-2022 OR "token extensions" topic:solana`},
	{ID: "solana-defi", Label: "DeFi on Solana", Query: "topic:solana (defi OR swap OR lending OR perp)"},
	{ID: "solana-ai", Label: "AI x Solana", Query: `topic:solana (agent OR ai OR "tool calling" OR mcp)`},
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
// Unset variables expand to the empty string.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(varName)
	})
}

func setDefaults(cfg *Config) {
	if cfg.WindowDays == 0 {
		cfg.WindowDays = DefaultWindowDays
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if len(cfg.Feeds) == 0 {
		cfg.Feeds = append([]FeedSource(nil), DefaultFeeds...)
	}
	if cfg.Search.BaseURL == "" {
		cfg.Search.BaseURL = DefaultSearchURL
	}
	if cfg.Search.Token == "" {
		cfg.Search.Token = os.Getenv("GITHUB_TOKEN")
	}
	if cfg.Search.PerPage == 0 {
		cfg.Search.PerPage = 20
	}
	if len(cfg.Search.Queries) == 0 {
		cfg.Search.Queries = append([]SearchQuery(nil), DefaultQueries...)
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

func validate(cfg *Config) error {
	if cfg.WindowDays < 0 {
		return fmt.Errorf("config: window_days must be positive, got %d", cfg.WindowDays)
	}
	if cfg.HTTPTimeout < 0 {
		return fmt.Errorf("config: http_timeout must not be negative")
	}
	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			return fmt.Errorf("config: invalid schedule %q: %w", cfg.Schedule, err)
		}
	}
	if cfg.Search.PerPage < 1 || cfg.Search.PerPage > 100 {
		return fmt.Errorf("config: search.per_page must be between 1 and 100, got %d", cfg.Search.PerPage)
	}

	seen := make(map[string]bool)
	for i, f := range cfg.Feeds {
		if f.ID == "" {
			return fmt.Errorf("config: feeds[%d]: id is required", i)
		}
		if seen[f.ID] {
			return fmt.Errorf("config: feeds[%d]: duplicate id %q", i, f.ID)
		}
		seen[f.ID] = true
		if err := checkHTTPURL(f.URL); err != nil {
			return fmt.Errorf("config: feed %q: %w", f.ID, err)
		}
	}

	seen = make(map[string]bool)
	for i, q := range cfg.Search.Queries {
		if q.ID == "" {
			return fmt.Errorf("config: search.queries[%d]: id is required", i)
		}
		if seen[q.ID] {
			return fmt.Errorf("config: search.queries[%d]: duplicate id %q", i, q.ID)
		}
		seen[q.ID] = true
		if strings.TrimSpace(q.Query) == "" {
			return fmt.Errorf("config: search query %q: query is required", q.ID)
		}
	}
	if err := checkHTTPURL(cfg.Search.BaseURL); err != nil {
		return fmt.Errorf("config: search.base_url: %w", err)
	}

	if wh := cfg.Publishers.Discord.WebhookURL; wh != "" {
		if err := checkHTTPURL(wh); err != nil {
			return fmt.Errorf("config: publishers.discord.webhook_url: %w", err)
		}
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unsupported logging.level %q (supported: trace, debug, info, warn, error)", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: unsupported logging.format %q (supported: text, json)", cfg.Logging.Format)
	}
	return nil
}

func checkHTTPURL(raw string) error {
	if raw == "" {
		return errors.New("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	return nil
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "narrative-radar", "config.yaml")
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	setDefaults(&cfg)
	return &cfg
}

// Load reads the config file, expands environment variables, applies defaults,
// and validates the configuration. With an empty path the default location
// is tried, and a missing file there yields the built-in configuration.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks a configuration after flag overrides were applied.
func (c *Config) Validate() error {
	if c.WindowDays <= 0 {
		return fmt.Errorf("config: window_days must be positive, got %d", c.WindowDays)
	}
	return validate(c)
}
