// Package config handles loading and parsing application configuration.
// Sources, lowest priority first:
//  1. Defaults declared with env-default:"..." tags
//  2. An optional YAML file:     --config=/path/to/config.yaml
//  3. The PORT environment variable (a local .env file may provide it)
//
// The parsed values are returned as a *Config pointer so the struct is
// shared by reference rather than copied everywhere.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Environments accepted in Config.Env.
const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

// Store backends accepted in Config.Storage.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// Config is the root configuration structure.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env-default:"dev"`

	// Storage picks the student store. Both choices keep data in memory
	// only; "sqlite" runs it through an in-memory SQLite database.
	Storage string `yaml:"storage" env-default:"memory"`

	HTTPServer `yaml:"http_server"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Host is the interface to bind; empty means all interfaces.
	Host string `yaml:"host"`

	// Port is the only setting the environment can override.
	Port string `yaml:"port" env:"PORT" env-default:"3000"`
}

// Addr is the TCP address the server listens on, e.g. ":3000".
func (h HTTPServer) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// Load reads the config. configPath may be empty, in which case only
// defaults and the environment are consulted.
func Load(configPath string) (*Config, error) {
	// A missing .env is normal; anything else (bad syntax, permissions)
	// is worth failing on.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
		// ReadConfig parses the YAML and then applies env overrides and
		// env-default values for fields the file left empty.
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvDev, EnvStaging, EnvProd:
	default:
		return fmt.Errorf("invalid env %q: want dev, staging or prod", c.Env)
	}

	switch c.Storage {
	case StorageMemory, StorageSQLite:
	default:
		return fmt.Errorf("invalid storage %q: want memory or sqlite", c.Storage)
	}

	if _, err := net.LookupPort("tcp", c.Port); err != nil {
		return fmt.Errorf("invalid port %q: %w", c.Port, err)
	}
	return nil
}

// MustLoad reads, validates, and returns the application config.
//
// The name "MustLoad" follows a Go convention: functions prefixed with
// "Must" are allowed to panic/fatal on failure. If this function
// returns, the config is valid.
func MustLoad() *Config {
	configPath := flag.String("config", "", "Path to an optional configuration YAML file")
	flag.Parse()

	cfg, err := Load(*configPath)
	if err != nil {
		log.Fatalf("cannot load config: %s", err.Error())
	}
	return cfg
}
