package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultHTTPPort       = 8000
	DefaultGRPCPort       = 8081
	DefaultStudioWhatsApp = "+919999999999"
	DefaultDatabaseName   = "pictiv"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	HTTP       HTTPConfig       `yaml:"http"`
	GRPC       GRPCConfig       `yaml:"grpc"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Studio     StudioConfig     `yaml:"studio"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Google     GoogleConfig     `yaml:"google"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

type GRPCConfig struct {
	Enabled    bool `yaml:"enabled"`
	Port       int  `yaml:"port"`
	Reflection bool `yaml:"reflection"`
}

// DatabaseConfig holds the document store location. URL and Name are
// normally supplied through DATABASE_URL and DATABASE_NAME.
type DatabaseConfig struct {
	URL                   string `yaml:"url"`
	Name                  string `yaml:"name"`
	ConnectTimeoutSeconds int    `yaml:"connect_timeout_seconds"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// RateLimitConfig limits form submissions per client. Zero disables it.
type RateLimitConfig struct {
	SubmissionsPerMinute int `yaml:"submissions_per_minute"`
	Burst                int `yaml:"burst"`
}

type StudioConfig struct {
	WhatsApp string `yaml:"whatsapp"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

// Load reads the optional YAML file at configPath, then applies
// environment overrides and defaults. A missing file or .env is not an error.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var config Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		// ${VAR} references are expanded before parsing.
		expandedData := []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(expandedData, &config); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http port %d out of range", c.HTTP.Port)
	}
	if c.GRPC.Enabled && (c.GRPC.Port < 0 || c.GRPC.Port > 65535) {
		return fmt.Errorf("grpc port %d out of range", c.GRPC.Port)
	}
	if c.RateLimit.SubmissionsPerMinute < 0 {
		return errors.New("rate_limit.submissions_per_minute must not be negative")
	}
	if strings.Trim(c.Studio.WhatsApp, "+ ") == "" {
		return errors.New("studio whatsapp number is required")
	}
	if (c.Google.CredentialsFile == "") != (c.Google.SpreadsheetID == "") {
		return errors.New("google.credentials_file and google.spreadsheet_id must be set together")
	}
	return nil
}

// applyEnv lets the process environment override file values.
func (c *Config) applyEnv() error {
	if raw := strings.TrimSpace(os.Getenv("PORT")); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", raw, err)
		}
		c.HTTP.Port = port
	}
	if v := os.Getenv("STUDIO_WHATSAPP"); v != "" {
		c.Studio.WhatsApp = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("DATABASE_NAME"); v != "" {
		c.Database.Name = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "pictiv-studio-api"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = DefaultHTTPPort
	}
	if c.GRPC.Port == 0 {
		c.GRPC.Port = DefaultGRPCPort
	}
	if c.Database.ConnectTimeoutSeconds <= 0 {
		c.Database.ConnectTimeoutSeconds = 10
	}
	if c.Studio.WhatsApp == "" {
		c.Studio.WhatsApp = DefaultStudioWhatsApp
	}
	if c.RateLimit.SubmissionsPerMinute > 0 && c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = c.RateLimit.SubmissionsPerMinute
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}

// DatabaseName returns the configured database name or the default one.
func (c DatabaseConfig) DatabaseName() string {
	if c.Name != "" {
		return c.Name
	}
	return DefaultDatabaseName
}
