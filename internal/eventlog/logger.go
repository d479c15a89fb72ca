// Package eventlog appends quiz lifecycle events to a JSONL file.
package eventlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"timed-quiz/internal/app"
)

// FileName is the log file created inside the configured directory.
const FileName = "quiz-events.jsonl"

// LogEvent is a single line of the event log.
type LogEvent struct {
	Time       time.Time `json:"time"`
	Event      string    `json:"event"`
	SessionID  string    `json:"session,omitempty"`
	Name       string    `json:"name,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Score      int       `json:"score,omitempty"`
	Total      int       `json:"total,omitempty"`
	Remaining  int       `json:"remaining,omitempty"`
}

// Logger writes append-only JSONL events and implements app.EventSink.
type Logger struct {
	path string
	mu   sync.Mutex
}

// NewLogger creates a Logger writing to dir/quiz-events.jsonl. The
// directory is created if needed; an existing file is never truncated.
func NewLogger(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return &Logger{path: filepath.Join(dir, FileName)}, nil
}

// Path returns the file the logger appends to.
func (l *Logger) Path() string { return l.path }

// Emit records a machine event. Write failures are reported on the
// standard logger and otherwise ignored.
func (l *Logger) Emit(ev app.Event) {
	err := l.Append(LogEvent{
		Time:       ev.Time.UTC(),
		Event:      ev.Kind,
		SessionID:  ev.SessionID,
		Name:       ev.Participant.FullName,
		Phone:      ev.Participant.PhoneNumber,
		Categories: ev.Categories,
		Score:      ev.Score,
		Total:      ev.Total,
		Remaining:  ev.Remaining,
	})
	if err != nil {
		log.Printf("event log: %v", err)
	}
}

// Append writes event as one JSON line. A zero Time is set to now.
func (l *Logger) Append(event LogEvent) error {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	// Encode terminates the value with a newline.
	if err := json.NewEncoder(f).Encode(event); err != nil {
		f.Close()
		return fmt.Errorf("append %s event: %w", event.Event, err)
	}
	return f.Close()
}

// ReadAll returns every event in the log. A missing file yields no events.
func (l *Logger) ReadAll() ([]LogEvent, error) {
	return l.Read("")
}

// Read returns the events of one session in file order, or all events when
// sessionID is empty.
func (l *Logger) Read(sessionID string) ([]LogEvent, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return []LogEvent{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()

	events := []LogEvent{}
	dec := json.NewDecoder(f)
	for n := 1; ; n++ {
		var event LogEvent
		err := dec.Decode(&event)
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode event %d of %s: %w", n, l.path, err)
		}
		if sessionID == "" || event.SessionID == sessionID {
			events = append(events, event)
		}
	}
}
