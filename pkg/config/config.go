// Package config loads client, CLI and proxy settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Sternrassler/jikan-client/pkg/cache"
	"github.com/Sternrassler/jikan-client/pkg/client"
	"github.com/Sternrassler/jikan-client/pkg/logging"
	"github.com/Sternrassler/jikan-client/pkg/pagination"
	"github.com/Sternrassler/jikan-client/pkg/ratelimit"
	"github.com/Sternrassler/jikan-client/pkg/retry"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

// DefaultUserAgent identifies this client to Jikan.
const DefaultUserAgent = "jikan-client/0.1.0"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	BaseURL    string           `yaml:"base_url"`
	UserAgent  string           `yaml:"user_agent"`
	Timeout    time.Duration    `yaml:"timeout"`
	Redis      RedisConfig      `yaml:"redis"`
	Cache      CacheConfig      `yaml:"cache"`
	Retry      RetryConfig      `yaml:"retry"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Pagination PaginationConfig `yaml:"pagination"`
	Logging    LoggingConfig    `yaml:"logging"`
	Server     ServerConfig     `yaml:"server"`
}

// RedisConfig is optional; an empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

type RetryConfig struct {
	MaxRetries      int           `yaml:"max_retries"`
	InitialDelay    time.Duration `yaml:"initial_delay"`
	Factor          float64       `yaml:"factor"`
	MaxDelay        time.Duration `yaml:"max_delay"`
	HonorRetryAfter bool          `yaml:"honor_retry_after"`
}

type RateLimitConfig struct {
	MaxWait         time.Duration `yaml:"max_wait"`
	DefaultCooldown time.Duration `yaml:"default_cooldown"`
}

type PaginationConfig struct {
	PageSize       int `yaml:"page_size"`
	MaxConcurrency int `yaml:"max_concurrency"`
	MaxPages       int `yaml:"max_pages"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`

	// Pretty forces console output on or off. Unset means "when stderr is a terminal".
	Pretty *bool `yaml:"pretty"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	policy := retry.DefaultPolicy()
	return &Config{
		BaseURL:   client.DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		Timeout:   30 * time.Second,
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: cache.DefaultTTL,
		},
		Retry: RetryConfig{
			MaxRetries:      policy.MaxRetries,
			InitialDelay:    policy.InitialDelay,
			Factor:          policy.Factor,
			MaxDelay:        policy.MaxDelay,
			HonorRetryAfter: policy.HonorRetryAfter,
		},
		RateLimit: RateLimitConfig{
			MaxWait:         ratelimit.DefaultMaxWait,
			DefaultCooldown: ratelimit.DefaultCooldown,
		},
		Pagination: PaginationConfig{
			PageSize:       25,
			MaxConcurrency: 3,
			MaxPages:       10,
		},
		Logging: LoggingConfig{Level: string(logging.LevelInfo)},
		Server:  ServerConfig{Addr: ":8080"},
	}
}

// LoadFile reads a YAML file over the defaults.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}
	return cfg, nil
}

// Load reads path (or the defaults when path is empty), applies the
// environment and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from JIKAN_BASE_URL, USER_AGENT, REDIS_URL,
// LOG_LEVEL and PORT.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("JIKAN_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}
}

// Validate checks the configuration for values the client cannot run with.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.UserAgent == "" {
		add("user_agent is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		add("base_url must be an http(s) URL, got %q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		add("timeout must be positive")
	}
	if c.Retry.MaxRetries < 0 {
		add("retry.max_retries must not be negative")
	}
	if c.Retry.InitialDelay < 0 {
		add("retry.initial_delay must not be negative")
	}
	if c.Retry.Factor < 1 {
		add("retry.factor must be at least 1, got %g", c.Retry.Factor)
	}
	if c.Retry.MaxDelay < 0 {
		add("retry.max_delay must not be negative")
	}
	if c.Pagination.PageSize < 1 || c.Pagination.PageSize > 25 {
		add("pagination.page_size must be between 1 and 25, got %d", c.Pagination.PageSize)
	}
	if c.Pagination.MaxConcurrency < 1 {
		add("pagination.max_concurrency must be at least 1")
	}
	switch logging.LogLevel(strings.ToLower(c.Logging.Level)) {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, "warning", logging.LevelError:
	default:
		add("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}

	return errors.Join(errs...)
}

// RetryPolicy returns the policy shared by flows and retrying sources.
func (c *Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxRetries:      c.Retry.MaxRetries,
		InitialDelay:    c.Retry.InitialDelay,
		Factor:          c.Retry.Factor,
		MaxDelay:        c.Retry.MaxDelay,
		HonorRetryAfter: c.Retry.HonorRetryAfter,
	}
}

// BatchConfig returns the batch fetcher settings.
func (c *Config) BatchConfig() pagination.Config {
	batch := pagination.DefaultConfig()
	batch.PageSize = c.Pagination.PageSize
	batch.MaxConcurrency = c.Pagination.MaxConcurrency
	batch.MaxPages = c.Pagination.MaxPages
	return batch
}

// ClientConfig returns the HTTP client settings. redisClient may be nil.
func (c *Config) ClientConfig(redisClient *redis.Client) client.Config {
	cfg := client.DefaultConfig(redisClient, c.UserAgent)
	cfg.BaseURL = c.BaseURL
	cfg.Timeout = c.Timeout
	cfg.CacheEnabled = c.Cache.Enabled && redisClient != nil
	cfg.CacheTTL = c.Cache.DefaultTTL
	cfg.RateLimit = ratelimit.Config{
		DefaultCooldown: c.RateLimit.DefaultCooldown,
		MaxWait:         c.RateLimit.MaxWait,
	}
	cfg.MaxConcurrency = c.Pagination.MaxConcurrency
	return cfg
}

// LoggerConfig returns the logger settings.
func (c *Config) LoggerConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.Logging.Level)
	if c.Logging.Pretty != nil {
		cfg.Pretty = *c.Logging.Pretty
	}
	return cfg
}

// RedisOptions returns connection options, nil when Redis is not configured.
// Addr may be host:port or a redis:// URL.
func (c *Config) RedisOptions() (*redis.Options, error) {
	addr := c.Redis.Addr
	if addr == "" {
		return nil, nil
	}
	if strings.Contains(addr, "://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	}, nil
}
