package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the blorbview configuration file (~/.config/blorbview/config.yaml).
// Unset pointer fields leave the flag defaults alone.
type Config struct {
	GamesDir string `yaml:"games_dir"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	ServerAddress string `yaml:"server_address"`
	CacheSize     *int   `yaml:"cache_size"`

	ExtractDir   string `yaml:"extract_dir"`
	StringsLimit *int   `yaml:"strings_limit"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "blorbview", "config.yaml")
}

// LoadConfig reads the config file at path, or at the default location when
// path is empty. A missing default file yields a zero Config; a file that exists
// but does not parse is an error.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = configPath()
		if path == "" {
			return Config{}, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// applyGlobalConfig fills logging flags the user did not set.
func applyGlobalConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyGamesConfig fills --games-path from the config file when unset.
func applyGamesConfig(c *cli.Command, cfg Config) {
	if cfg.GamesDir != "" && !c.IsSet("games-path") {
		gamesPath = cfg.GamesDir
	}
}
