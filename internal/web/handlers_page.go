package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/autoimmunedb/internal/core"
	"github.com/JonMunkholm/autoimmunedb/internal/logging"
	"github.com/JonMunkholm/autoimmunedb/internal/web/templates"
)

// handleIndex renders the dashboard with the session's dataset preview.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, templates.PageParams{}, http.StatusOK)
}

// handleSearch runs the form query against the session's dataset.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.PostFormValue("q")
	params := templates.PageParams{Query: query}

	res, err := s.search(r, query)
	if err != nil {
		s.renderError(w, r, params, err)
		return
	}

	logging.FromContext(r.Context()).Info("search",
		"query_len", len(query),
		"status", res.Status,
		"matches", res.Count(),
	)

	if res.Status == core.StatusNoMatch {
		msg := core.NoMatchMessage()
		params.Alert = &msg
	}
	params.Result = res
	s.renderPage(w, r, params, http.StatusOK)
}

// handleUpload loads a multipart CSV upload into the session's slot.
// The same bytes as the current dataset are served from the slot.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ds, cached, filename, err := s.loadUpload(w, r)
	if err != nil {
		if wantsJSON(r) {
			s.respondError(w, r, err, statusFor(err))
			return
		}
		s.renderError(w, r, templates.PageParams{}, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{
			"filename": filename,
			"cached":   cached,
			"dataset":  datasetInfo(ds, s.cfg.Dataset.PreviewRows),
		})
		return
	}

	notice := fmt.Sprintf("Loaded %s: %d rows", filename, ds.Len())
	if cached {
		notice += " (unchanged)"
	}
	s.renderPage(w, r, templates.PageParams{Notice: notice}, http.StatusOK)
}

// loadUpload reads the "file" form field within the size limit and parses
// it under the upload limiter.
func (s *Server) loadUpload(w http.ResponseWriter, r *http.Request) (ds *core.Dataset, cached bool, filename string, err error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, false, "", fmt.Errorf("%w: limit is %d bytes", core.ErrFileTooLarge, maxSize)
		}
		return nil, false, "", fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, false, "", core.ErrNoFile
	}
	defer file.Close()

	ctx := r.Context()
	if err := s.uploads.Acquire(ctx); err != nil {
		return nil, false, header.Filename, err
	}
	defer s.uploads.Release()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, false, header.Filename, fmt.Errorf("read upload: %w", err)
	}

	logger := logging.WithFields(ctx, "filename", header.Filename, "bytes", len(data))
	ds, cached, err = sessionFrom(ctx).Loader.Load(data)
	if err != nil {
		return nil, false, header.Filename, err
	}
	logger.Info("dataset loaded",
		"rows", ds.Len(),
		"columns", len(ds.Header),
		"cached", cached,
	)
	logging.Annotate(ctx, "upload_bytes", len(data), "dataset_rows", ds.Len(), "cached", cached)
	return ds, cached, header.Filename, nil
}

// handleResetPage clears the dataset and returns to the dashboard.
func (s *Server) handleResetPage(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r.Context()).Loader.Clear()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// search runs the query against the session's current dataset.
func (s *Server) search(r *http.Request, query string) (*core.SearchResult, error) {
	ds := sessionFrom(r.Context()).Loader.Current()
	res, err := core.Search(ds, query, core.SearchOptions{Columns: s.cfg.Dataset.DisplayColumns})
	if err != nil {
		return nil, err
	}
	logging.Annotate(r.Context(), "query_len", len(query), "dataset_rows", ds.Len(), "matches", res.Count())
	return res, nil
}

// renderError renders the dashboard with the error as an alert.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, params templates.PageParams, err error) {
	msg := core.MapError(err)
	status := statusFor(err)
	logError(r, err, msg, status)

	params.Alert = &msg
	params.Result = nil
	s.renderPage(w, r, params, status)
}

// renderPage fills in content and the dataset preview, then writes the page.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, params templates.PageParams, status int) {
	params.Content = s.page
	if ds := sessionFrom(r.Context()).Loader.Current(); ds != nil {
		params.Dataset = &templates.DatasetSummary{
			Rows:    ds.Len(),
			Header:  ds.Header,
			Preview: ds.Head(s.cfg.Dataset.PreviewRows),
			Digest:  ds.Digest,
			Size:    ds.Size,
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Page(params).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}
