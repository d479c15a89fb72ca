package config

import (
	"errors"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTotalTime is used when a bank's totalTime is missing or malformed.
const DefaultTotalTime = "00:10:00"

// maxClockSeconds is the longest clock that still fits a time.Duration.
const maxClockSeconds = math.MaxInt64 / int64(time.Second)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
		// ReportLimit bounds the archived report list; 0 keeps everything.
		ReportLimit int64 `yaml:"report_limit"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Bank struct {
		Path string `yaml:"path"`
		TTL  string `yaml:"ttl"`
	} `yaml:"bank"`
	Quiz struct {
		// Tick is the length of one countdown unit, "1s" unless overridden.
		Tick string `yaml:"tick"`
	} `yaml:"quiz"`
	Export struct {
		Dir    string `yaml:"dir"`
		Format string `yaml:"format"`
	} `yaml:"export"`
	Log struct {
		Dir string `yaml:"dir"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Bank.Path = "data/quizData.json"
	cfg.Quiz.Tick = "1s"
	cfg.Export.Dir = "."
	cfg.Export.Format = "pdf"
	cfg.Log.Dir = "."
	return cfg
}

// Load reads YAML config from path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// ParseClock parses an "HH:MM:SS" duration. Shorter forms "MM:SS" and "SS"
// are accepted. Fields must be unsigned digits. ok is false when raw is
// malformed or does not fit a time.Duration.
func ParseClock(raw string) (d time.Duration, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	parts := strings.Split(raw, ":")
	if len(parts) > 3 {
		return 0, false
	}
	var total int64
	for _, p := range parts {
		if p == "" || strings.TrimLeft(p, "0123456789") != "" {
			return 0, false
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || total > (maxClockSeconds-n)/60 {
			return 0, false
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second, true
}

// ClockDuration parses raw with ParseClock and fails closed to
// DefaultTotalTime.
func ClockDuration(raw string) time.Duration {
	if d, ok := ParseClock(raw); ok {
		return d
	}
	d, _ := ParseClock(DefaultTotalTime)
	return d
}
