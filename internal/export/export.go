// Package export turns a finished quiz report into a document.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"timed-quiz/internal/domain"
)

// DefaultBaseName matches the file name participants get by default.
const DefaultBaseName = "results"

// ErrUnknownFormat is returned for an export format with no exporter.
var ErrUnknownFormat = errors.New("unknown export format")

// Exporter renders a report.
type Exporter interface {
	Export(w io.Writer, report domain.Report) error
	Extension() string
	ContentType() string
}

// ForFormat returns the exporter registered under format ("pdf", "json").
func ForFormat(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "pdf":
		return PDF{}, nil
	case "json":
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile exports report into dir/base.<ext> and returns the path.
func WriteFile(dir, base string, exp Exporter, report domain.Report) (string, error) {
	if base == "" {
		base = DefaultBaseName
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(dir, base+"."+exp.Extension())

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := exp.Export(f, report); err != nil {
		f.Close()
		return "", fmt.Errorf("export %s: %w", exp.Extension(), err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}
