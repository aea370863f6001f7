// Package config loads sheetsections configuration from defaults, an optional
// YAML file, a .env file and SHEETSECTIONS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable, e.g. SHEETSECTIONS_SERVER_PORT.
const EnvPrefix = "SHEETSECTIONS"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Sheet    SheetConfig    `yaml:"sheet" envconfig:"SHEET"`
	Fetch    FetchConfig    `yaml:"fetch" envconfig:"FETCH"`
	Cache    CacheConfig    `yaml:"cache" envconfig:"CACHE"`
	Grouping GroupingConfig `yaml:"grouping" envconfig:"GROUPING"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" split_words:"true"`
	Port            int           `yaml:"port" split_words:"true" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" split_words:"true" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" split_words:"true" validate:"gt=0"`
}

// SheetConfig identifies the spreadsheet to serve
type SheetConfig struct {
	ID     string   `yaml:"id" envconfig:"ID"`
	GIDs   []string `yaml:"gids" envconfig:"GIDS"`
	Tabs   []string `yaml:"tabs" split_words:"true"`
	Format string   `yaml:"format" split_words:"true" validate:"oneof=csv xlsx api"`
	APIKey string   `yaml:"api_key" envconfig:"API_KEY" validate:"required_if=Format api"`
	Title  string   `yaml:"title" split_words:"true"`
}

// FetchConfig controls outbound requests
type FetchConfig struct {
	BaseURL     string        `yaml:"base_url" envconfig:"BASE_URL" validate:"omitempty,url"`
	Timeout     time.Duration `yaml:"timeout" split_words:"true" validate:"gt=0"`
	MaxRetries  int           `yaml:"max_retries" split_words:"true" validate:"min=0,max=10"`
	Concurrency int           `yaml:"concurrency" split_words:"true" validate:"min=1,max=32"`
}

// CacheConfig configures caching of raw export bodies
type CacheConfig struct {
	Backend  string        `yaml:"backend" split_words:"true" validate:"oneof=none memory redis"`
	TTL      time.Duration `yaml:"ttl" envconfig:"TTL" validate:"gte=0"`
	RedisURL string        `yaml:"redis_url" envconfig:"REDIS_URL" validate:"required_if=Backend redis"`
}

// GroupingConfig holds header detection parameters
type GroupingConfig struct {
	MarkerColumn  string `yaml:"marker_column" split_words:"true" validate:"required"`
	MarkerValue   string `yaml:"marker_value" split_words:"true" validate:"required"`
	DensityWindow int    `yaml:"density_window" split_words:"true" validate:"min=1"`
	DensityMin    int    `yaml:"density_min" split_words:"true" validate:"min=1,ltefield=DensityWindow"`
	KeepEmptyRows bool   `yaml:"keep_empty_rows" split_words:"true"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" split_words:"true" validate:"min=1"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" split_words:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gt=0"`
	Burst   int     `yaml:"burst" split_words:"true" validate:"min=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" split_words:"true" validate:"oneof=json text"`
	Output   string `yaml:"output" split_words:"true" validate:"oneof=stdout stderr file both"`
	FilePath string `yaml:"file_path" split_words:"true" validate:"required_if=Output file,required_if=Output both"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  25 * time.Second,
		},
		Sheet: SheetConfig{
			GIDs:   []string{"0"},
			Format: "csv",
		},
		Fetch: FetchConfig{
			Timeout:     30 * time.Second,
			MaxRetries:  3,
			Concurrency: 4,
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     5 * time.Minute,
		},
		Grouping: GroupingConfig{
			MarkerColumn:  "figur idé",
			MarkerValue:   "Figur Idé",
			DensityWindow: 6,
			DensityMin:    3,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     10,
				Burst:   20,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stderr",
			FilePath: "logs/sheetsections.log",
		},
	}
}

// Load builds the configuration. Values are taken, in increasing precedence,
// from Default, the YAML file at path (skipped when path is empty), a .env file
// in the working directory and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// A missing .env file is not an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys missing from the file
// keep their current values.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
