package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultInterval is the pause between watch rounds.
	DefaultInterval = 5 * time.Second

	envConfigPath = "RENICE_CONFIG"
	envInterval   = "RENICE_INTERVAL"
	envLogFile    = "RENICE_LOGFILE"
)

// Config holds defaults that command-line flags may override.
type Config struct {
	Interval time.Duration
	LogFile  string
	Verbose  bool
	// Nice is the default target niceness token (integer or symbolic name).
	Nice    string
	Matches []string
}

// Load builds a Config from an optional YAML file plus environment overrides.
// An empty path falls back to $RENICE_CONFIG.
func Load(path string) (Config, error) {
	cfg := Config{Interval: DefaultInterval}

	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path != "" {
		fileCfg, err := loadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		if fileCfg.Interval != 0 {
			cfg.Interval = fileCfg.Interval
		}
		if fileCfg.LogFile != "" {
			cfg.LogFile = fileCfg.LogFile
		}
		cfg.Verbose = fileCfg.Verbose
		cfg.Nice = fileCfg.Nice
		cfg.Matches = fileCfg.Matches
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envInterval); v != "" {
		if dur, err := ParseInterval(v); err == nil {
			cfg.Interval = dur
		} else {
			log.Printf("invalid %s value %q: %v", envInterval, v, err)
		}
	}
	if v := strings.TrimSpace(os.Getenv(envLogFile)); v != "" {
		cfg.LogFile = v
	}
}

// ParseInterval accepts a Go duration ("1m30s") or a whole number of seconds.
func ParseInterval(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	var dur time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		dur = time.Duration(secs) * time.Second
	} else {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return 0, err
		}
		dur = parsed
	}
	if dur <= 0 {
		return 0, errors.New("interval must be > 0")
	}
	return dur, nil
}

type fileConfig struct {
	Interval string   `yaml:"interval"`
	LogFile  string   `yaml:"logfile"`
	Verbose  bool     `yaml:"verbose"`
	Nice     string   `yaml:"nice"`
	Matches  []string `yaml:"match"`
}

func loadFromFile(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	var raw fileConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, err
	}

	if raw.Interval != "" {
		dur, err := ParseInterval(raw.Interval)
		if err != nil {
			return cfg, fmt.Errorf("parse interval: %w", err)
		}
		cfg.Interval = dur
	}
	cfg.LogFile = strings.TrimSpace(raw.LogFile)
	cfg.Verbose = raw.Verbose
	cfg.Nice = strings.TrimSpace(raw.Nice)
	for _, m := range raw.Matches {
		if m = strings.TrimSpace(m); m != "" {
			cfg.Matches = append(cfg.Matches, m)
		}
	}

	return cfg, nil
}
