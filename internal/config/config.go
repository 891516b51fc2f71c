package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names. Each one overrides its config-file field.
const (
	EnvConfigPath        = "CONFIG_PATH"
	EnvPort              = "PORT"
	EnvDBConnection      = "DB_CONNECTION"
	EnvSessionTTL        = "SESSION_TTL"
	EnvSessionCookieName = "SESSION_COOKIE_NAME"
	EnvRedisAddr         = "REDIS_ADDR"
	EnvRedisPassword     = "REDIS_PASSWORD"
	EnvRedisDB           = "REDIS_DB"
	EnvBootstrapUser     = "BOOTSTRAP_USERNAME"
	EnvBootstrapPassword = "BOOTSTRAP_PASSWORD"
	EnvLogLevel          = "LOG_LEVEL"
	EnvProd              = "IS_PROD"
)

// Defaults applied when neither file nor environment supplies a value.
const (
	DefaultPort           = 8080
	DefaultCookieName     = "vault_sid"
	DefaultSessionTTL     = 7 * 24 * time.Hour
	DefaultLoginRateLimit = 10
)

// ErrMissingDatabaseDSN indicates no database DSN is present in the config.
var ErrMissingDatabaseDSN = errors.New("missing database dsn (set `database-dsn` or `database.dsn` in config file, or DB_CONNECTION)")

// SessionConfig holds session cookie settings.
type SessionConfig struct {
	TTL        time.Duration `yaml:"ttl"`
	CookieName string        `yaml:"cookie-name"`
	Secure     bool          `yaml:"secure"`
}

// RedisConfig holds optional cache settings; empty addr disables caching.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// BootstrapConfig holds the default account credentials created on first start.
type BootstrapConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Config is the resolved application configuration.
type Config struct {
	Port           int             `yaml:"port"`
	DatabaseDSN    string          `yaml:"database-dsn"`
	Session        SessionConfig   `yaml:"session"`
	Redis          RedisConfig     `yaml:"redis"`
	Bootstrap      BootstrapConfig `yaml:"bootstrap"`
	LogLevel       string          `yaml:"log-level"`
	Prod           bool            `yaml:"prod"`
	LoginRateLimit int             `yaml:"login-rate-limit"`
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// Load reads the YAML config file, applies environment overrides, and fills
// defaults. A missing file is fine as long as the environment provides a DSN.
func Load(configPath string) (Config, error) {
	// fileConfig adds the nested database.dsn form alongside the flat key.
	type fileConfig struct {
		Config   `yaml:",inline"`
		Database struct {
			DSN string `yaml:"dsn"`
		} `yaml:"database"`
	}

	var parsed fileConfig
	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		if errUnmarshal := yaml.Unmarshal(data, &parsed); errUnmarshal != nil {
			return Config{}, fmt.Errorf("parse config file: %w", errUnmarshal)
		}
	}

	cfg := parsed.Config
	if strings.TrimSpace(cfg.DatabaseDSN) == "" {
		cfg.DatabaseDSN = strings.TrimSpace(parsed.Database.DSN)
	}

	applyEnvOverrides(&cfg)

	if cfg.Port <= 0 || cfg.Port > 65535 {
		cfg.Port = DefaultPort
	}
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = DefaultSessionTTL
	}
	if strings.TrimSpace(cfg.Session.CookieName) == "" {
		cfg.Session.CookieName = DefaultCookieName
	}
	if cfg.LoginRateLimit <= 0 {
		cfg.LoginRateLimit = DefaultLoginRateLimit
	}

	if strings.TrimSpace(cfg.DatabaseDSN) == "" {
		return Config{}, ErrMissingDatabaseDSN
	}
	return cfg, nil
}

// applyEnvOverrides lets the environment win over the config file.
func applyEnvOverrides(cfg *Config) {
	if portRaw := strings.TrimSpace(os.Getenv(EnvPort)); portRaw != "" {
		if port, errParse := strconv.Atoi(portRaw); errParse == nil {
			cfg.Port = port
		}
	}
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		cfg.DatabaseDSN = dsn
	}
	if ttlRaw := strings.TrimSpace(os.Getenv(EnvSessionTTL)); ttlRaw != "" {
		if ttl, errParse := time.ParseDuration(ttlRaw); errParse == nil && ttl > 0 {
			cfg.Session.TTL = ttl
		}
	}
	if name := strings.TrimSpace(os.Getenv(EnvSessionCookieName)); name != "" {
		cfg.Session.CookieName = name
	}
	if addr := strings.TrimSpace(os.Getenv(EnvRedisAddr)); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv(EnvRedisPassword); password != "" {
		cfg.Redis.Password = password
	}
	if dbRaw := strings.TrimSpace(os.Getenv(EnvRedisDB)); dbRaw != "" {
		if db, errParse := strconv.Atoi(dbRaw); errParse == nil {
			cfg.Redis.DB = db
		}
	}
	if user := strings.TrimSpace(os.Getenv(EnvBootstrapUser)); user != "" {
		cfg.Bootstrap.Username = user
	}
	if password := os.Getenv(EnvBootstrapPassword); password != "" {
		cfg.Bootstrap.Password = password
	}
	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		cfg.LogLevel = level
	}
	if prod := strings.TrimSpace(os.Getenv(EnvProd)); prod != "" {
		cfg.Prod = prod == "true" || prod == "1"
	}
}
