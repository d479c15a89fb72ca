package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"timed-quiz/internal/app"
	"timed-quiz/internal/config"
	"timed-quiz/internal/eventlog"
)

func TestPrintEvents(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Dir = t.TempDir()

	var out bytes.Buffer
	if err := printEvents(&out, cfg, ""); err != nil {
		t.Fatalf("print empty log: %v", err)
	}
	if !strings.Contains(out.String(), "no events in ") {
		t.Fatalf("unexpected output for empty log: %q", out.String())
	}

	l, err := eventlog.NewLogger(cfg.Log.Dir)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	at := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	_ = l.Append(eventlog.LogEvent{Time: at, Event: app.EventSessionStarted, SessionID: "s1", Name: "Ada", Categories: []string{"Easy", "Hard"}})
	_ = l.Append(eventlog.LogEvent{Time: at, Event: app.EventSessionStarted, SessionID: "s2", Name: "Bob"})
	_ = l.Append(eventlog.LogEvent{Time: at.Add(time.Minute), Event: app.EventSessionSubmitted, SessionID: "s1", Score: 2, Total: 3})

	out.Reset()
	if err := printEvents(&out, cfg, "s1"); err != nil {
		t.Fatalf("print events: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines for s1, got %q", out.String())
	}
	if !strings.Contains(lines[0], "Ada") || !strings.Contains(lines[0], "[Easy,Hard]") {
		t.Fatalf("unexpected start line %q", lines[0])
	}
	if !strings.Contains(lines[1], app.EventSessionSubmitted) || !strings.HasSuffix(lines[1], "2/3") {
		t.Fatalf("unexpected submit line %q", lines[1])
	}
}

func TestEventsCommandReadsDir(t *testing.T) {
	dir := t.TempDir()
	l, err := eventlog.NewLogger(dir)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	_ = l.Append(eventlog.LogEvent{Event: app.EventSessionRetried, SessionID: "s9"})

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", dir + "/missing.yaml", "events", "--dir", dir})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), app.EventSessionRetried) || !strings.Contains(out.String(), "s9") {
		t.Fatalf("unexpected output %q", out.String())
	}
}
