package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FileName is the optional config file looked up next to the program.
const FileName = "webshell.yaml"

const (
	defaultWidth    = 800
	defaultHeight   = 600
	defaultDevPort  = 8000
	defaultLogLevel = "info"

	envDevPort  = "WEBSHELL_DEV_PORT"
	envLogLevel = "WEBSHELL_LOG_LEVEL"
)

// Config holds the tunables of a shell program.
type Config struct {
	Width             int
	Height            int
	DevPort           int
	LogLevel          string
	StrictPlaceholder bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width:    defaultWidth,
		Height:   defaultHeight,
		DevPort:  defaultDevPort,
		LogLevel: defaultLogLevel,
	}
}

// Load builds a Config from an optional YAML file plus environment
// overrides read through getenv. A missing file is not an error.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path != "" {
		fileCfg, err := loadFromFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		default:
			merge(&cfg, fileCfg)
		}
	}

	if getenv == nil {
		getenv = os.Getenv
	}
	applyEnvOverrides(&cfg, getenv)
	return cfg, nil
}

type fileConfig struct {
	Width             *int    `yaml:"width"`
	Height            *int    `yaml:"height"`
	DevPort           *int    `yaml:"dev_port"`
	LogLevel          *string `yaml:"log_level"`
	StrictPlaceholder *bool   `yaml:"strict_placeholder"`
}

func loadFromFile(path string) (fileConfig, error) {
	var raw fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return raw, err
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return raw, err
	}

	if raw.Width != nil && *raw.Width <= 0 {
		return raw, errors.New("width must be > 0")
	}
	if raw.Height != nil && *raw.Height <= 0 {
		return raw, errors.New("height must be > 0")
	}
	if raw.DevPort != nil && !validPort(*raw.DevPort) {
		return raw, fmt.Errorf("dev_port %d out of range", *raw.DevPort)
	}
	return raw, nil
}

func merge(cfg *Config, raw fileConfig) {
	if raw.Width != nil {
		cfg.Width = *raw.Width
	}
	if raw.Height != nil {
		cfg.Height = *raw.Height
	}
	if raw.DevPort != nil {
		cfg.DevPort = *raw.DevPort
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.StrictPlaceholder != nil {
		cfg.StrictPlaceholder = *raw.StrictPlaceholder
	}
}

func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	if v := getenv(envDevPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil && validPort(port) {
			cfg.DevPort = port
		} else {
			log.Printf("invalid %s value %q", envDevPort, v)
		}
	}

	if v := getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

func validPort(port int) bool {
	return port > 0 && port < 65536
}
