package web

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/autoimmunedb/internal/core"
	"github.com/JonMunkholm/autoimmunedb/internal/logging"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleExportCSV downloads the results of ?q= as CSV.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "results.csv", "text/csv; charset=utf-8", core.WriteCSV)
}

// handleExportXLSX downloads the results of ?q= as an Excel workbook.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "results.xlsx", xlsxContentType, core.WriteXLSX)
}

// export re-runs the search and streams the encoded result. The body is
// buffered so an encoding failure can still be reported with a status.
func (s *Server) export(w http.ResponseWriter, r *http.Request, filename, contentType string, write func(io.Writer, *core.SearchResult) error) {
	res, err := s.search(r, r.URL.Query().Get("q"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, res); err != nil {
		s.respondError(w, r, fmt.Errorf("export %s: %w", filename, err), http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("results exported",
		"format", filename,
		"rows", res.Count(),
		"bytes", buf.Len(),
	)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
