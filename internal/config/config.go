package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the minimal settings required to boot the intel engine.
type Config struct {
	Feeds    FeedsConfig    `yaml:"feeds"`
	Session  SessionConfig  `yaml:"session"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// FeedsConfig groups the abuse.ch upstream endpoints.
type FeedsConfig struct {
	ThreatFoxURL string        `yaml:"threatFoxURL"`
	URLhausURL   string        `yaml:"urlhausURL"`
	Timeout      time.Duration `yaml:"timeout"`
	BatchLimit   int           `yaml:"batchLimit"`
}

// SessionConfig controls ingestion cadence and the in-memory buffer.
type SessionConfig struct {
	PollInterval        time.Duration `yaml:"pollInterval"`
	StartupBurst        int           `yaml:"startupBurst"`
	BufferCapacity      int           `yaml:"bufferCapacity"`
	BurstSignalWindow   time.Duration `yaml:"burstSignalWindow"`
	TacticalAlertWindow time.Duration `yaml:"tacticalAlertWindow"`
	AnalysisDelay       time.Duration `yaml:"analysisDelay"`
	GracefulTimeout     time.Duration `yaml:"gracefulTimeout"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// MetricsConfig controls the Prometheus scrape listener.
type MetricsConfig struct {
	Address string `yaml:"address"`
}

// AnalysisConfig holds the remote-analysis key placeholder. The remote
// engine is permanently disabled; the key is accepted but never sent.
type AnalysisConfig struct {
	APIKey string `yaml:"apiKey"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("VAYU_INTEL_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Feeds: FeedsConfig{
			ThreatFoxURL: "https://threatfox-api.abuse.ch/api/v1/",
			URLhausURL:   "https://urlhaus-api.abuse.ch/v1/urls/recent/",
			Timeout:      10 * time.Second,
			BatchLimit:   15,
		},
		Session: SessionConfig{
			PollInterval:        5 * time.Second,
			StartupBurst:        12,
			BufferCapacity:      50,
			BurstSignalWindow:   time.Second,
			TacticalAlertWindow: 5 * time.Second,
			AnalysisDelay:       500 * time.Millisecond,
			GracefulTimeout:     10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Metrics: MetricsConfig{Address: ":2112"},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VAYU_INTEL_THREATFOX_URL"); v != "" {
		cfg.Feeds.ThreatFoxURL = v
	}
	if v := os.Getenv("VAYU_INTEL_URLHAUS_URL"); v != "" {
		cfg.Feeds.URLhausURL = v
	}
	if v := os.Getenv("VAYU_INTEL_FEED_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Feeds.Timeout = d
		}
	}
	if v := os.Getenv("VAYU_INTEL_FEED_BATCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Feeds.BatchLimit = n
		}
	}
	if v := os.Getenv("VAYU_INTEL_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Session.PollInterval = d
		}
	}
	if v := os.Getenv("VAYU_INTEL_STARTUP_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Session.StartupBurst = n
		}
	}
	if v := os.Getenv("VAYU_INTEL_BUFFER_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Session.BufferCapacity = n
		}
	}
	if v := os.Getenv("VAYU_INTEL_ANALYSIS_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Session.AnalysisDelay = d
		}
	}
	if v := os.Getenv("VAYU_INTEL_BURST_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Session.BurstSignalWindow = d
		}
	}
	if v := os.Getenv("VAYU_INTEL_TACTICAL_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Session.TacticalAlertWindow = d
		}
	}
	if v := os.Getenv("VAYU_INTEL_GRACEFUL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Session.GracefulTimeout = d
		}
	}
	if v := os.Getenv("VAYU_INTEL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("VAYU_INTEL_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("VAYU_INTEL_METRICS_ADDRESS"); v != "" {
		cfg.Metrics.Address = v
	}
	if v := os.Getenv("VAYU_INTEL_ANALYSIS_API_KEY"); v != "" {
		cfg.Analysis.APIKey = v
	}
}
