package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "PINBOARD_"

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	JWT        JWTConfig        `yaml:"jwt"`
	Auth       AuthConfig       `yaml:"auth"`
	Pagination PaginationConfig `yaml:"pagination"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	Host            string        `yaml:"host"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds database configuration. Driver is postgres or memory.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int32  `yaml:"max_conns"`
	Migrate  bool   `yaml:"migrate"`
}

// RedisConfig holds the profile cache configuration
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

// AuthConfig holds password hashing and session cookie settings
type AuthConfig struct {
	BcryptCost int    `yaml:"bcrypt_cost"`
	CookieName string `yaml:"cookie_name"`
}

// PaginationConfig holds pin listing page sizes
type PaginationConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	UserPageSize    int `yaml:"user_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used for any value not set in the file or environment
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, Host: "0.0.0.0", ShutdownTimeout: 15 * time.Second},
		Database: DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			DBName:   "pinboard",
			SSLMode:  "disable",
			MaxConns: 10,
			Migrate:  true,
		},
		Redis:      RedisConfig{Addr: "localhost:6379", TTL: 10 * time.Minute},
		JWT:        JWTConfig{TTL: 24 * time.Hour},
		Auth:       AuthConfig{BcryptCost: 10, CookieName: "authToken"},
		Pagination: PaginationConfig{DefaultPageSize: 50, UserPageSize: 25, MaxPageSize: 100},
		Log:        LogConfig{Level: "info"},
	}
}

// Load reads configuration from a YAML file, then applies .env and PINBOARD_* overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"SERVER_HOST":    &cfg.Server.Host,
		"DB_DRIVER":      &cfg.Database.Driver,
		"DB_HOST":        &cfg.Database.Host,
		"DB_USER":        &cfg.Database.User,
		"DB_PASSWORD":    &cfg.Database.Password,
		"DB_NAME":        &cfg.Database.DBName,
		"DB_SSLMODE":     &cfg.Database.SSLMode,
		"REDIS_ADDR":     &cfg.Redis.Addr,
		"REDIS_PASSWORD": &cfg.Redis.Password,
		"JWT_SECRET":     &cfg.JWT.Secret,
		"LOG_LEVEL":      &cfg.Log.Level,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"SERVER_PORT": &cfg.Server.Port,
		"DB_PORT":     &cfg.Database.Port,
	}
	for key, dst := range ints {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
			}
			*dst = n
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "REDIS_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sREDIS_ENABLED: %w", envPrefix, err)
		}
		cfg.Redis.Enabled = enabled
	}
	return nil
}

// Validate reports settings the server cannot start with
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("jwt ttl must be positive")
	}
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Pagination.DefaultPageSize < 1 || c.Pagination.UserPageSize < 1 {
		return errors.New("page sizes must be positive")
	}
	if c.Pagination.MaxPageSize < c.Pagination.DefaultPageSize || c.Pagination.MaxPageSize < c.Pagination.UserPageSize {
		return errors.New("max page size must not be below the default page sizes")
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
