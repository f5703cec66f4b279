package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/libsearch/internal/domain/category"
)

// Config holds the libsearch API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Catalog CatalogConfig `yaml:"catalog"`
	Cache   CacheConfig   `yaml:"cache"`
	GitHub  GitHubConfig  `yaml:"github"`
	SearXNG SearXNGConfig `yaml:"searxng"`
	LLM     LLMConfig     `yaml:"llm"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port               int      `yaml:"port"`
	ReadTimeoutSec     int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec    int      `yaml:"write_timeout_sec"`
	ShutdownSec        int      `yaml:"shutdown_timeout_sec"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// CatalogConfig holds catalog file and listing settings.
type CatalogConfig struct {
	Path            string `yaml:"path"`
	Encoding        string `yaml:"encoding"` // utf-8 (default), latin1
	RepairEncoding  bool   `yaml:"repair_encoding"`
	MaxResults      int    `yaml:"max_results"`
	DefaultPageSize int    `yaml:"default_page_size"`
	MaxPageSize     int    `yaml:"max_page_size"`
	// CacheTTLSec is how long a loaded catalog is served; 0 reloads on every request.
	CacheTTLSec *int           `yaml:"cache_ttl_sec"`
	Categories  []CategoryRule `yaml:"categories"`
}

// CategoryRule overrides the built-in categorization rules, in priority order.
type CategoryRule struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// CacheConfig holds key-value store settings for response caching and token budgets.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // none (default), valkey, redis
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// GitHubConfig holds repository search settings.
type GitHubConfig struct {
	Enabled           bool    `yaml:"enabled"`
	BaseURL           string  `yaml:"base_url"`
	Token             string  `yaml:"token"`
	APIVersion        string  `yaml:"api_version"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	MinStars          int     `yaml:"min_stars"`
	MinForks          int     `yaml:"min_forks"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// SearXNGConfig holds PDF search settings.
type SearXNGConfig struct {
	Enabled    bool   `yaml:"enabled"`
	BaseURL    string `yaml:"base_url"`
	Language   string `yaml:"language"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// LLMConfig holds generative model settings. The model is disabled when APIKey is empty.
type LLMConfig struct {
	Provider     string       `yaml:"provider"`
	APIKey       string       `yaml:"api_key"`
	BaseURL      string       `yaml:"base_url"`
	Model        string       `yaml:"model"`
	Temperature  float32      `yaml:"temperature"`
	MaxTokens    int          `yaml:"max_tokens"`
	ContextBooks int          `yaml:"context_books"`
	Budget       BudgetConfig `yaml:"budget"`
}

// Enabled reports whether a model is configured.
func (c LLMConfig) Enabled() bool { return c.APIKey != "" }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Catalog.Encoding == "" {
		c.Catalog.Encoding = "utf-8"
	}
	if c.Catalog.MaxResults <= 0 {
		c.Catalog.MaxResults = 100
	}
	if c.Catalog.DefaultPageSize <= 0 {
		c.Catalog.DefaultPageSize = 20
	}
	if c.Catalog.MaxPageSize <= 0 {
		c.Catalog.MaxPageSize = 100
	}
	if c.Catalog.CacheTTLSec == nil {
		ttl := 300
		c.Catalog.CacheTTLSec = &ttl
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "none"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.GitHub.BaseURL == "" {
		c.GitHub.BaseURL = "https://api.github.com"
	}
	if c.GitHub.APIVersion == "" {
		c.GitHub.APIVersion = "2022-11-28"
	}
	if c.GitHub.RequestsPerSecond <= 0 {
		c.GitHub.RequestsPerSecond = 5
	}
	if c.GitHub.MinStars <= 0 {
		c.GitHub.MinStars = 10
	}
	if c.GitHub.MinForks <= 0 {
		c.GitHub.MinForks = 5
	}
	if c.GitHub.TimeoutSec <= 0 {
		c.GitHub.TimeoutSec = 10
	}
	if c.SearXNG.BaseURL == "" {
		c.SearXNG.BaseURL = "http://localhost:8080"
	}
	if c.SearXNG.Language == "" {
		c.SearXNG.Language = "pt-BR"
	}
	if c.SearXNG.TimeoutSec <= 0 {
		c.SearXNG.TimeoutSec = 10
	}
	if c.LLM.ContextBooks <= 0 {
		c.LLM.ContextBooks = 50
	}
	if c.LLM.Budget.Action == "" {
		c.LLM.Budget.Action = "warn"
	}
}

// CatalogTTL returns the catalog snapshot lifetime.
func (c *Config) CatalogTTL() time.Duration {
	if c.Catalog.CacheTTLSec == nil {
		return 0
	}
	return time.Duration(*c.Catalog.CacheTTLSec) * time.Second
}

// CategoryRules returns the configured override, or the built-in rules when none is set.
func (c *Config) CategoryRules() []category.Rule {
	if len(c.Catalog.Categories) == 0 {
		return category.DefaultRules()
	}
	rules := make([]category.Rule, 0, len(c.Catalog.Categories))
	for _, r := range c.Catalog.Categories {
		rules = append(rules, category.Rule{Label: category.Label(r.Label), Keywords: r.Keywords})
	}
	return rules
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}
	switch c.Catalog.Encoding {
	case "utf-8", "latin1":
	default:
		return fmt.Errorf("catalog.encoding must be \"utf-8\" or \"latin1\", got %q", c.Catalog.Encoding)
	}
	if c.Catalog.CacheTTLSec != nil && *c.Catalog.CacheTTLSec < 0 {
		return fmt.Errorf("catalog.cache_ttl_sec must not be negative, got %d", *c.Catalog.CacheTTLSec)
	}
	if len(c.Catalog.Categories) > 0 {
		if _, err := category.NewCategorizer(c.CategoryRules()); err != nil {
			return fmt.Errorf("catalog.categories: %w", err)
		}
	}
	switch c.Cache.Driver {
	case "none":
	case "valkey", "redis":
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for driver %q", c.Cache.Driver)
		}
	default:
		return fmt.Errorf("cache.driver must be \"none\", \"valkey\" or \"redis\", got %q", c.Cache.Driver)
	}
	switch c.LLM.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf(
			"llm.budget.action must be \"warn\" or \"reject\", got %q",
			c.LLM.Budget.Action,
		)
	}
	if c.LLM.Enabled() && c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required when llm.api_key is set")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
