// Package config loads process configuration from defaults, an optional YAML
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	// Load .env file to environments
	_ "github.com/joho/godotenv/autoload"
)

// FileEnv names the environment variable holding the optional YAML config path
const FileEnv = "PLACEMENT_CONFIG"

// ErrInvalidConfig is wrapped by every validation failure from Load
var ErrInvalidConfig = errors.New("invalid config")

// Config holds every setting the server reads at startup
type Config struct {
	Port        string   `koanf:"port"`
	AllowOrigin []string `koanf:"allow_origin"`
	LogLevel    string   `koanf:"log_level"`
	// Logging enables the auth attempt file log
	Logging bool `koanf:"logging"`

	SecretKey      string        `koanf:"secret_key"`
	TokenTTL       time.Duration `koanf:"token_ttl"`
	AdminSecretKey string        `koanf:"admin_secret_key"`
	AdminEmail     string        `koanf:"admin_email"`
	AdminPassword  string        `koanf:"admin_password"`

	DBHost           string `koanf:"db_host"`
	DBPort           string `koanf:"db_port"`
	DBUsername       string `koanf:"db_username"`
	DBPassword       string `koanf:"db_password"`
	DBDatabase       string `koanf:"db_database"`
	UseConnectionStr bool   `koanf:"use_connection_str"`
	DBConnectionStr  string `koanf:"db_connection_str"`

	RedisURL      string `koanf:"redis_url"`
	RabbitMQURL   string `koanf:"rabbitmq_url"`
	RabbitMQQueue string `koanf:"rabbitmq_queue"`
	GCSBucket     string `koanf:"gcs_bucket"`

	RateLimitRequestsPerSecond int `koanf:"rate_limit_requests_per_second"`
	// BlacklistSweepSpec is the cron spec of the in-memory token blacklist sweep
	BlacklistSweepSpec string `koanf:"blacklist_sweep_spec"`
	MaxUploadBytes     int64  `koanf:"max_upload_bytes"`

	StrictProfileFields bool `koanf:"strict_profile_fields"`
	PageSizeDefault     int  `koanf:"page_size_default"`
	PageSizeMax         int  `koanf:"page_size_max"`
}

// New returns a Config filled with defaults
func New() *Config {
	return &Config{
		Port:                       "8080",
		AllowOrigin:                []string{"http://localhost:3000"},
		LogLevel:                   "info",
		TokenTTL:                   24 * time.Hour,
		RabbitMQQueue:              "placement.events",
		RateLimitRequestsPerSecond: 10,
		BlacklistSweepSpec:         "@every 10m",
		MaxUploadBytes:             10 << 20,
		PageSizeDefault:            10,
		PageSizeMax:                100,
	}
}

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. YAML file if PLACEMENT_CONFIG is set
//  3. environment variables, lower-cased (DB_HOST -> db_host)
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(FileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	envProvider := env.ProviderWithValue("", ".", envValue)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// listKeys are comma separated in the environment
var listKeys = map[string]bool{"allow_origin": true}

func envValue(key string, value string) (string, interface{}) {
	key = strings.ToLower(key)
	if !listKeys[key] {
		return key, value
	}
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// Validate checks required settings and clamps pagination bounds
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("%w: secret_key must be set", ErrInvalidConfig)
	}
	if c.UseConnectionStr {
		if c.DBConnectionStr == "" {
			return fmt.Errorf("%w: db_connection_str is empty", ErrInvalidConfig)
		}
	} else if c.DBHost == "" || c.DBPort == "" || c.DBUsername == "" || c.DBPassword == "" || c.DBDatabase == "" {
		return fmt.Errorf("%w: database configuration is incomplete", ErrInvalidConfig)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: token_ttl must be positive", ErrInvalidConfig)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	}
	if c.PageSizeMax <= 0 {
		c.PageSizeMax = 100
	}
	if c.PageSizeDefault <= 0 || c.PageSizeDefault > c.PageSizeMax {
		c.PageSizeDefault = min(10, c.PageSizeMax)
	}
	return nil
}

// DSN returns the Postgres connection string
func (c *Config) DSN() string {
	if c.UseConnectionStr {
		return c.DBConnectionStr
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUsername, c.DBPassword, c.DBHost, c.DBPort, c.DBDatabase)
}
