package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix  = "DBADMIN_"
	EnvConfig  = "DBADMIN_CONFIG"
	DefaultEnv = ".env"
)

type Config struct {
	Port      int    `koanf:"port"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
	ProjectID string `koanf:"project_id"`

	DatabaseDriver    string `koanf:"database_driver"`
	DatabaseURL       string `koanf:"database_url"`
	DatabaseURLSecret string `koanf:"database_url_secret"`
	DatabaseSchema    string `koanf:"database_schema"`

	RowLimit     int           `koanf:"row_limit"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
	CORSOrigins  []string      `koanf:"cors_origins"`
	AuthEnabled  bool          `koanf:"auth_enabled"`
}

func defaults() map[string]any {
	return map[string]any{
		"port":            5000,
		"log_level":       "info",
		"log_format":      "json",
		"database_driver": "postgres",
		"database_schema": "",
		"row_limit":       100,
		"query_timeout":   "30s",
		"cors_origins":    []string{"*"},
		"auth_enabled":    false,
	}
}

// unprefixed are the conventional variables honoured without the
// DBADMIN_ prefix. PORT is set by Cloud Run.
var unprefixed = map[string]string{
	"PORT":         "port",
	"DATABASE_URL": "database_url",
	"PROJECTID":    "project_id",
}

// New loads configuration. Precedence, lowest first: defaults, the YAML
// file named by DBADMIN_CONFIG, conventional variables (PORT,
// DATABASE_URL), DBADMIN_ variables. A .env file in the working directory
// is read into the environment first.
func New() (*Config, error) {
	if err := godotenv.Load(DefaultEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", DefaultEnv, err)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		return unprefixed[key], value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if key == "config" {
			return "", nil
		}
		if key == "cors_origins" {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	var problems []string
	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("port %d out of range", c.Port))
	}
	if c.DatabaseURL == "" && c.DatabaseURLSecret == "" {
		problems = append(problems, "one of database_url or database_url_secret is required")
	}
	if c.RowLimit <= 0 {
		problems = append(problems, "row_limit must be positive")
	}
	if c.QueryTimeout < 0 {
		problems = append(problems, "query_timeout cannot be negative")
	}
	if c.AuthEnabled && c.ProjectID == "" {
		problems = append(problems, "project_id is required when auth is enabled")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
