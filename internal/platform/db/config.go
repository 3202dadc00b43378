package db

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "config/config.yaml"
	defaultSQLitePath = "data/libratrack.db"
	defaultAddr       = ":8000"
	defaultTokenTTL   = 24 * time.Hour
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // mysql | postgres | sqlite3
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Path     string `yaml:"path"` // sqlite3 only
	DSN      string `yaml:"dsn"`  // 指定時は上記より優先
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type AuthConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

type Certs struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type Config struct {
	Version     string         `yaml:"version"`
	Mode        string         `yaml:"mode"`
	Server      ServerConfig   `yaml:"server"`
	DB          DatabaseConfig `yaml:"database"`
	Auth        AuthConfig     `yaml:"auth"`
	Certificate Certs          `yaml:"certificate"`
}

// LoadConfig reads the YAML file at path, then applies .env and environment overrides.
// A missing file is not an error; defaults are used instead.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	buf, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// .env は任意
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)

	if cfg.Mode != "dev" && cfg.Mode != "release" {
		return nil, fmt.Errorf("invalid mode %q (want dev or release)", cfg.Mode)
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		driver, dsn := driverFromURL(v)
		cfg.DB.Driver = driver
		if driver == string(DialectSQLite) {
			cfg.DB.Path, cfg.DB.DSN = dsn, ""
		} else {
			cfg.DB.DSN = dsn
		}
	}
	if v := os.Getenv("LIBRATRACK_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("LIBRATRACK_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LIBRATRACK_JWT_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Mode == "" {
		cfg.Mode = "dev"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"http://localhost:5173"}
	}
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = string(DialectSQLite)
	}
	if cfg.DB.Driver == string(DialectSQLite) && cfg.DB.Path == "" && cfg.DB.DSN == "" {
		cfg.DB.Path = defaultSQLitePath
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = defaultTokenTTL
	}
}

// driverFromURL maps a DATABASE_URL onto a driver name and a DSN that driver understands.
func driverFromURL(raw string) (string, string) {
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return string(DialectPostgres), raw
	case strings.HasPrefix(raw, "mysql://"):
		return string(DialectMySQL), strings.TrimPrefix(raw, "mysql://")
	case strings.HasPrefix(raw, "sqlite://"):
		return string(DialectSQLite), strings.TrimPrefix(raw, "sqlite://")
	default:
		return string(DialectSQLite), raw
	}
}
