package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	cases := map[string]time.Duration{
		"00:10:00":      10 * time.Minute,
		"00:00:02":      2 * time.Second,
		"01:02:03":      time.Hour + 2*time.Minute + 3*time.Second,
		"90":            90 * time.Second,
		"05:30":         5*time.Minute + 30*time.Second,
		"2562047:47:16": 2562047*time.Hour + 47*time.Minute + 16*time.Second,
	}
	for raw, want := range cases {
		got, ok := ParseClock(raw)
		if !ok || got != want {
			t.Fatalf("ParseClock(%q) = %v, %v; want %v", raw, got, ok, want)
		}
	}
	for _, raw := range []string{"", "ten minutes", "00:-1:00", "1:2:3:4", "00::10", "+1:00:00", "-5", "1: 00",
		"3000000000:00:00", "99999999999999999999"} {
		if _, ok := ParseClock(raw); ok {
			t.Fatalf("expected %q rejected", raw)
		}
	}
}

func TestClockDurationFailsClosed(t *testing.T) {
	if got := ClockDuration("garbage"); got != 10*time.Minute {
		t.Fatalf("expected default 10m, got %v", got)
	}
	if got := ClockDuration("3000000000:00:00"); got != 10*time.Minute {
		t.Fatalf("expected overflowing clock to fall back to 10m, got %v", got)
	}
	if got := ClockDuration("+1:00:00"); got != 10*time.Minute {
		t.Fatalf("expected signed clock to fall back to 10m, got %v", got)
	}
	if got := ClockDuration("00:00:05"); got != 5*time.Second {
		t.Fatalf("expected 5s, got %v", got)
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := TTLDuration("bogus", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback on parse error, got %v", got)
	}
	if got := TTLDuration("30s", time.Minute); got != 30*time.Second {
		t.Fatalf("expected 30s, got %v", got)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("server:\n  port: \"9090\"\nbank:\n  path: bank.yaml\nredis:\n  report_limit: 50\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Bank.Path != "bank.yaml" || cfg.Redis.ReportLimit != 50 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Export.Format != "pdf" || cfg.Quiz.Tick != "1s" {
		t.Fatalf("expected defaults kept, got %+v", cfg)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("expected defaults for missing file, got %v", err)
	}
	if cfg.Bank.Path != Default().Bank.Path {
		t.Fatalf("expected default bank path, got %q", cfg.Bank.Path)
	}
}
