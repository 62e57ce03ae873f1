package web

import (
	"net/http"

	"github.com/JonMunkholm/autoimmunedb/internal/core"
)

// SearchResponse is the JSON body of GET /api/search.
type SearchResponse struct {
	Query   string              `json:"query"`
	Status  core.SearchStatus   `json:"status"`
	Count   int                 `json:"count"`
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
	Matched []int               `json:"matched"`
	Message string              `json:"message,omitempty"`
	Code    string              `json:"code,omitempty"`
}

// DatasetInfo describes the loaded dataset without its full contents.
type DatasetInfo struct {
	Rows    int                 `json:"rows"`
	Header  []string            `json:"header"`
	Digest  string              `json:"digest"`
	Size    int64               `json:"size"`
	Preview []map[string]string `json:"preview"`
}

func datasetInfo(ds *core.Dataset, previewRows int) DatasetInfo {
	head := ds.Head(previewRows)
	preview := make([]map[string]string, len(head))
	for i := range head {
		preview[i] = ds.Record(i)
	}
	return DatasetInfo{
		Rows:    ds.Len(),
		Header:  ds.Header,
		Digest:  ds.Digest,
		Size:    ds.Size,
		Preview: preview,
	}
}

// handleAPISearch answers ?q= against the session's dataset.
// A search with no matches is a 200 carrying a warning message.
func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	res, err := s.search(r, query)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	resp := SearchResponse{
		Query:   res.Query,
		Status:  res.Status,
		Count:   res.Count(),
		Columns: res.Columns,
		Rows:    res.Records(),
		Matched: res.Matched,
	}
	if resp.Matched == nil {
		resp.Matched = []int{}
	}
	if res.Status == core.StatusNoMatch {
		msg := core.NoMatchMessage()
		resp.Message = msg.Message
		resp.Code = msg.Code
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAPIDataset reports whether a dataset is loaded and summarizes it.
func (s *Server) handleAPIDataset(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	body := map[string]any{
		"loaded":          false,
		"stats":           sess.Loader.Stats(),
		"session_started": sess.CreatedAt,
	}
	if ds := sess.Loader.Current(); ds != nil {
		body["loaded"] = true
		body["dataset"] = datasetInfo(ds, s.cfg.Dataset.PreviewRows)
	}
	writeJSON(w, http.StatusOK, body)
}

// handleAPIReset drops the session's dataset.
func (s *Server) handleAPIReset(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r.Context()).Loader.Clear()
	w.WriteHeader(http.StatusNoContent)
}
