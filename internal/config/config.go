// Package config resolves tada settings from defaults, a TOML file, the
// environment (including a .env file) and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds every setting the CLI and TUI read.
type Config struct {
	DataDir  string `toml:"data_dir"`
	Backend  string `toml:"backend"`
	Key      string `toml:"key"`
	Theme    string `toml:"theme"`
	LogLevel string `toml:"log_level"`
	Color    string `toml:"color"`
	Group    bool   `toml:"group"`

	// Path of the config file that was applied, empty if none.
	File string `toml:"-"`
}

// Environment variables read by Load.
const (
	EnvDataDir  = "TADA_DATA_DIR"
	EnvBackend  = "TADA_BACKEND"
	EnvKey      = "TADA_KEY"
	EnvTheme    = "TADA_THEME"
	EnvLogLevel = "TADA_LOG_LEVEL"
	EnvColor    = "TADA_COLOR"
)

var projectFileNames = []string{"tada.toml", ".tada.toml"}

// Default returns the built-in settings: a JSON file in the working
// directory under the "todos" key.
func Default() Config {
	return Config{
		DataDir:  ".",
		Backend:  "json",
		Key:      "todos",
		Theme:    "classic",
		LogLevel: "warn",
		Color:    "auto",
	}
}

// Load applies, in order: defaults, the config file (path, or the first
// project/user file found when path is empty), then environment variables.
// A .env file in the working directory is loaded into the environment first;
// variables already set win over it.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.File = path
	}

	loadFromEnv(&cfg)
	return cfg, nil
}

func loadFromEnv(cfg *Config) {
	set := func(dst *string, name string) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*dst = v
		}
	}
	set(&cfg.DataDir, EnvDataDir)
	set(&cfg.Backend, EnvBackend)
	set(&cfg.Key, EnvKey)
	set(&cfg.Theme, EnvTheme)
	set(&cfg.LogLevel, EnvLogLevel)
	set(&cfg.Color, EnvColor)
}

func findConfigFile() string {
	for _, name := range projectFileNames {
		if fileExists(name) {
			return name
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		p := filepath.Join(dir, "tada", "config.toml")
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func fileExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}

// Validate rejects settings that cannot be used.
func (c Config) Validate() error {
	switch c.Backend {
	case "json", "sqlite", "sqlite3", "memory":
	default:
		return fmt.Errorf("backend: unknown %q (want json, sqlite, sqlite3 or memory)", c.Backend)
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color: unknown %q (want auto, always or never)", c.Color)
	}
	if strings.TrimSpace(c.Key) == "" {
		return errors.New("key: must not be empty")
	}
	if c.Backend != "memory" && strings.TrimSpace(c.DataDir) == "" {
		return errors.New("data_dir: must not be empty")
	}
	return nil
}
