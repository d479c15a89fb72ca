package export

import (
	"encoding/json"
	"io"

	"timed-quiz/internal/domain"
)

// JSON writes the report as an indented JSON document.
type JSON struct{}

func (JSON) Export(w io.Writer, report domain.Report) error {
	if report.Rows == nil {
		report.Rows = []domain.ReportRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func (JSON) Extension() string   { return "json" }
func (JSON) ContentType() string { return "application/json" }
