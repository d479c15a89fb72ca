package http

import (
	"bytes"
	"errors"
	"log"
	"net/http"

	"timed-quiz/internal/app"
	"timed-quiz/internal/domain"
	"timed-quiz/internal/export"
)

// ExportHandler serves the report of a submitted session as a download.
type ExportHandler struct {
	service *app.QuizService
}

func NewExportHandler(service *app.QuizService) *ExportHandler {
	return &ExportHandler{service: service}
}

// ServeHTTP handles GET /export?clientId=&format=pdf|json.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		http.Error(w, "missing clientId", http.StatusBadRequest)
		return
	}
	exp, err := export.ForFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	machine, ok := h.service.Get(clientID)
	if !ok {
		http.Error(w, "no quiz for client", http.StatusNotFound)
		return
	}

	report, err := h.service.Finish(r.Context(), machine)
	if errors.Is(err, domain.ErrWrongState) {
		http.Error(w, "quiz not submitted", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// render fully before any header is written
	var buf bytes.Buffer
	if err := exp.Export(&buf, report); err != nil {
		log.Printf("export %s for %s: %v", exp.Extension(), clientID, err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", exp.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.DefaultBaseName+"."+exp.Extension()+`"`)
	_, _ = w.Write(buf.Bytes())
}
