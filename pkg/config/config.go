package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Auth struct {
		SessionTTL  time.Duration `yaml:"session_ttl"`
		MaxSessions int           `yaml:"max_sessions"`
		BcryptCost  int           `yaml:"bcrypt_cost"`
	} `yaml:"auth"`
	Probe struct {
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
		CacheTTL     time.Duration `yaml:"cache_ttl"`
		CacheBackend string        `yaml:"cache_backend"` // memory or redis
	} `yaml:"probe"`
	Dashboard struct {
		Enabled  bool `yaml:"enabled"`
		Viewport struct {
			Width  int `yaml:"width"`
			Height int `yaml:"height"`
		} `yaml:"viewport"`
		Remote struct {
			BaseURL string        `yaml:"base_url"`
			Token   string        `yaml:"token"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"remote"`
	} `yaml:"dashboard"`
	Redis struct {
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Password     string        `yaml:"password"`
		DB           int           `yaml:"db"`
		PoolSize     int           `yaml:"pool_size"`
		PoolTimeout  time.Duration `yaml:"pool_timeout"`
		MinIdleConns int           `yaml:"min_idle_conns"`
	} `yaml:"redis"`
	ClickHouse struct {
		Enabled      bool          `yaml:"enabled"`
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		AsyncInsert  bool          `yaml:"async_insert"`
		WaitForAsync bool          `yaml:"wait_for_async_insert"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		BatchTimeout time.Duration `yaml:"batch_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		Async        bool          `yaml:"async"`
	} `yaml:"kafka"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

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

	if v := os.Getenv("WEFN_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		if ok {
			c.Redis.Host = host
			if p, err := strconv.Atoi(port); err == nil {
				c.Redis.Port = p
			}
		} else {
			c.Redis.Host = v
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
		c.ClickHouse.Enabled = true
	}
	if v := os.Getenv("REMOTE_TOKEN"); v != "" {
		c.Dashboard.Remote.Token = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Auth.SessionTTL == 0 {
		c.Auth.SessionTTL = time.Hour
	}
	if c.Auth.MaxSessions == 0 {
		c.Auth.MaxSessions = 3
	}
	if c.Probe.FetchTimeout == 0 {
		c.Probe.FetchTimeout = 15 * time.Second
	}
	if c.Probe.CacheTTL == 0 {
		c.Probe.CacheTTL = 10 * time.Minute
	}
	if c.Probe.CacheBackend == "" {
		c.Probe.CacheBackend = "memory"
	}
	if c.Dashboard.Viewport.Width == 0 {
		c.Dashboard.Viewport.Width = 1366
	}
	if c.Dashboard.Viewport.Height == 0 {
		c.Dashboard.Viewport.Height = 768
	}
	if c.Dashboard.Remote.Timeout == 0 {
		c.Dashboard.Remote.Timeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Probe.CacheBackend != "memory" && c.Probe.CacheBackend != "redis" {
		return fmt.Errorf("probe.cache_backend must be 'memory' or 'redis', got '%s'", c.Probe.CacheBackend)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	if c.Dashboard.Enabled && c.Dashboard.Remote.BaseURL == "" {
		return fmt.Errorf("dashboard.remote.base_url is required when the dashboard engine is enabled")
	}
	return nil
}
