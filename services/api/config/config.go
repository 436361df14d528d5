package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Supported patient store backends.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds environment-driven settings for the REST API.
type Config struct {
	Port            int    `yaml:"port"`
	SolarDataPath   string `yaml:"solar_data_path"`
	DatabaseDriver  string `yaml:"database_driver"`
	DatabaseURL     string `yaml:"database_url,omitempty"`
	SQLitePath      string `yaml:"sqlite_path"`
	CORSAllowOrigin string `yaml:"cors_allow_origin"`
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`
	MetricsEnabled  bool   `yaml:"metrics_enabled"`
}

// flagKeys maps config keys to the CLI flag names that may override them.
var flagKeys = map[string]string{
	"port":            "port",
	"solar_data_path": "data",
	"database_driver": "driver",
	"sqlite_path":     "sqlite",
	"log_level":       "log-level",
}

// Load reads configuration from environment variables (optionally .env).
// Flags present in the given set take precedence over the environment when
// they were set on the command line. flags may be nil.
func Load(flags *pflag.FlagSet) (Config, error) {
	_ = godotenv.Load() // ignore missing file

	v := viper.New()
	v.SetDefault("port", "8000")
	v.SetDefault("solar_data_path", "dados/painel_solar.csv")
	v.SetDefault("database_driver", DriverPostgres)
	v.SetDefault("sqlite_path", "db.sqlite3")
	v.SetDefault("cors_allow_origin", "*")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("metrics_enabled", true)
	v.AutomaticEnv()
	_ = v.BindEnv("port", "PORT", "API_PORT")

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := Config{
		SolarDataPath:   strings.TrimSpace(v.GetString("solar_data_path")),
		DatabaseDriver:  strings.ToLower(strings.TrimSpace(v.GetString("database_driver"))),
		DatabaseURL:     strings.TrimSpace(v.GetString("database_url")),
		SQLitePath:      strings.TrimSpace(v.GetString("sqlite_path")),
		CORSAllowOrigin: v.GetString("cors_allow_origin"),
		LogLevel:        strings.ToLower(v.GetString("log_level")),
		LogFormat:       strings.ToLower(v.GetString("log_format")),
	}

	portStr := v.GetString("port")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return cfg, fmt.Errorf("invalid PORT: %s", portStr)
	}
	cfg.Port = port

	metricsStr := v.GetString("metrics_enabled")
	metrics, err := strconv.ParseBool(metricsStr)
	if err != nil {
		return cfg, fmt.Errorf("invalid METRICS_ENABLED: %s", metricsStr)
	}
	cfg.MetricsEnabled = metrics

	if cfg.SolarDataPath == "" {
		return cfg, errors.New("SOLAR_DATA_PATH must not be empty")
	}

	switch cfg.DatabaseDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return cfg, errors.New("DATABASE_URL is required")
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return cfg, errors.New("SQLITE_PATH must not be empty")
		}
	default:
		return cfg, fmt.Errorf("invalid DATABASE_DRIVER: %s", cfg.DatabaseDriver)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return cfg, fmt.Errorf("invalid LOG_LEVEL: %s", cfg.LogLevel)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return cfg, fmt.Errorf("invalid LOG_FORMAT: %s", cfg.LogFormat)
	}

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Redacted returns a copy with the database password masked.
func (c Config) Redacted() Config {
	if c.DatabaseURL == "" {
		return c
	}
	if u, err := url.Parse(c.DatabaseURL); err == nil && u.User != nil {
		c.DatabaseURL = u.Redacted()
	}
	return c
}

// YAML renders the redacted configuration.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c.Redacted())
}
