package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete runtime configuration.
// Hierarchy (highest to lowest): CLI flags, BREACHMINER_* env vars,
// config file (~/.breachminer/config.yaml), defaults.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	Politeness  PolitenessConfig  `yaml:"politeness"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
	LLM         LLMConfig         `yaml:"llm"`

	// LexiconPath points at a YAML lexicon overriding the built-in
	// phrase/negation/heading lists.
	LexiconPath string `yaml:"lexicon_path"`
}

// HTTPConfig controls the judgment fetcher's HTTP client.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy"`
}

// CacheConfig controls the fetch cache (memory + disk, keyed by URL).
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// PolitenessConfig controls how gently sources are fetched.
type PolitenessConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	Delay             time.Duration `yaml:"delay"`  // Fixed extra delay after each fetch
	Jitter            time.Duration `yaml:"jitter"` // Random 0..Jitter added to Delay
	RespectRobots     bool          `yaml:"respect_robots"`
}

// ConcurrencyConfig controls the optional parallel case processing.
// Cases are independent, so workers > 1 is safe; 1 keeps the run
// strictly sequential.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// OutputConfig controls artifact paths and CLI chatter.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Verbose bool   `yaml:"verbose"`
}

// LLMConfig configures the optional post-run summary.
// The summary never affects mined output.
type LLMConfig struct {
	Provider  string `yaml:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model"`
	APIKey    string `yaml:"-"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int    `yaml:"max_tokens"`
	Timeout   int    `yaml:"timeout_seconds"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	cacheDir := ".breachminer-cache"
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".breachminer", "cache")
	}

	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "BreachMiner/0.1 (+https://github.com/courtfirst/breachminer)",
			MaxBodyBytes: 4_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       cacheDir,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Politeness: PolitenessConfig{
			RequestsPerSecond: 1,
			Burst:             1,
			Delay:             700 * time.Millisecond,
			Jitter:            600 * time.Millisecond,
			RespectRobots:     true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 1,
		},
		Output: OutputConfig{
			Dir: "out",
		},
		LLM: LLMConfig{
			MaxTokens: 1000,
			Timeout:   30,
		},
	}
}
