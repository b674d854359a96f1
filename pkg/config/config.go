package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Window bounds accepted for the lookback selector.
const (
	MinWindowDays = 7
	MaxWindowDays = 180
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"2s"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Dashboard struct {
		CatalogFile  string        `yaml:"catalog_file"`
		DefaultDays  int           `yaml:"default_days" default:"30"`
		FetchTimeout time.Duration `yaml:"fetch_timeout" default:"10s"`
		Workers      int           `yaml:"workers" default:"8"`
		CacheTTL     time.Duration `yaml:"cache_ttl" default:"30m"`
		TrendCap     int           `yaml:"trend_cap" default:"6"`
	} `yaml:"dashboard"`
	Yahoo struct {
		BaseURL   string        `yaml:"base_url" default:"https://query1.finance.yahoo.com"`
		Timeout   time.Duration `yaml:"timeout" default:"10s"`
		RPS       int           `yaml:"rps" default:"5"`
		UserAgent string        `yaml:"user_agent" default:"Mozilla/5.0 (compatible; MarketSnap/1.0)"`
	} `yaml:"yahoo"`
	Scrape struct {
		Timeout   time.Duration `yaml:"timeout" default:"10s"`
		UserAgent string        `yaml:"user_agent" default:"Mozilla/5.0 (compatible; MarketSnap/1.0)"`
	} `yaml:"scrape"`
	RateLimit struct {
		Capacity float64 `yaml:"capacity" default:"5"`
		Refill   float64 `yaml:"refill_per_sec" default:"0.2"`
	} `yaml:"ratelimit"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix" default:"marketsnap:"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"marketsnap.snapshots"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled      bool          `yaml:"enabled"`
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port" default:"9000"`
		Database     string        `yaml:"database" default:"default"`
		User         string        `yaml:"user" default:"default"`
		Password     string        `yaml:"password"`
		UseHTTP      bool          `yaml:"use_http"`
		AsyncInsert  bool          `yaml:"async_insert"`
		WaitForAsync bool          `yaml:"wait_for_async_insert"`
		DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
	} `yaml:"clickhouse"`
}

// Load reads and parses a YAML configuration file. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("MARKETSNAP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("MARKETSNAP_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
		c.ClickHouse.Enabled = true
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be 'json' or 'console', got '%s'", c.Log.Format)
	}
	if c.Dashboard.DefaultDays < MinWindowDays || c.Dashboard.DefaultDays > MaxWindowDays {
		return fmt.Errorf("dashboard.default_days must be in %d..%d, got %d", MinWindowDays, MaxWindowDays, c.Dashboard.DefaultDays)
	}
	if c.Dashboard.CacheTTL <= 0 {
		return fmt.Errorf("dashboard.cache_ttl must be positive")
	}
	if c.Dashboard.FetchTimeout <= 0 {
		return fmt.Errorf("dashboard.fetch_timeout must be positive")
	}
	if c.Dashboard.Workers <= 0 {
		return fmt.Errorf("dashboard.workers must be positive")
	}
	if c.Dashboard.TrendCap <= 0 {
		return fmt.Errorf("dashboard.trend_cap must be positive")
	}
	if c.Yahoo.BaseURL == "" {
		return fmt.Errorf("yahoo.base_url is required")
	}
	if c.RateLimit.Capacity <= 0 || c.RateLimit.Refill <= 0 {
		return fmt.Errorf("ratelimit.capacity and ratelimit.refill_per_sec must be positive")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.topic is required when kafka is enabled")
		}
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}
