// Package config loads the server configuration from a YAML file, a .env
// file and BRACKENHOLD_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"Brackenhold/internal/game"
)

const envPrefix = "BRACKENHOLD_"

// Storage kinds.
const (
	StorageXML  = "xml"
	StorageBolt = "bolt"
)

// Config holds everything serve needs to start a world.
type Config struct {
	Addr           string   `yaml:"addr"`
	WebsocketAddr  string   `yaml:"websocket_addr"`
	MetricsAddr    string   `yaml:"metrics_addr"`
	WelcomeMessage string   `yaml:"welcome_message"`
	WorldFile      string   `yaml:"world_file"`
	Charset        string   `yaml:"charset"`
	Admins         []string `yaml:"admins"`
	Storage        Storage  `yaml:"storage"`
	Log            Log      `yaml:"log"`
}

// Storage selects the archive Save and Restore use.
type Storage struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

// Log configures the zap logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Addr:           ":1357",
		WelcomeMessage: "Welcome to the server!\n Type help for a list of commands.",
		Charset:        "utf-8",
		Storage:        Storage{Kind: StorageXML, Path: "saves"},
		Log:            Log{Level: "info", Format: "console"},
	}
}

// Load builds a Config from defaults, the YAML file at path (if any), a .env
// file in the working directory and the process environment.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Addr = getEnv("ADDR", c.Addr)
	c.WebsocketAddr = getEnv("WEBSOCKET_ADDR", c.WebsocketAddr)
	c.MetricsAddr = getEnv("METRICS_ADDR", c.MetricsAddr)
	c.WelcomeMessage = getEnv("WELCOME_MESSAGE", c.WelcomeMessage)
	c.WorldFile = getEnv("WORLD_FILE", c.WorldFile)
	c.Charset = getEnv("CHARSET", c.Charset)
	c.Admins = getEnvList("ADMINS", c.Admins)
	c.Storage.Kind = getEnv("STORAGE_KIND", c.Storage.Kind)
	c.Storage.Path = getEnv("STORAGE_PATH", c.Storage.Path)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Validate reports the first setting serve could not start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("config: addr must not be empty")
	}
	switch c.Storage.Kind {
	case StorageXML, StorageBolt:
	default:
		return fmt.Errorf("config: unknown storage kind %q", c.Storage.Kind)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return errors.New("config: storage path must not be empty")
	}
	if _, err := game.Charset(c.Charset); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// getEnv returns the BRACKENHOLD_ variable key, or fallback when unset.
func getEnv(key, fallback string) string {
	value := os.Getenv(envPrefix + key)
	if value == "" {
		return fallback
	}
	return value
}

// getEnvList splits a comma-separated BRACKENHOLD_ variable.
func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(envPrefix + key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
