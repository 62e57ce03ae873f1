package templates

import (
	"fmt"
	"net/url"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/autoimmunedb/internal/content"
	"github.com/JonMunkholm/autoimmunedb/internal/core"
)

//go:generate templ generate

// DatasetSummary describes the session's loaded dataset.
type DatasetSummary struct {
	Rows    int
	Header  []string
	Preview []core.Row
	Digest  string
	Size    int64
}

// PageParams is everything the dashboard needs for one render.
type PageParams struct {
	Content *content.Page
	Dataset *DatasetSummary // nil when nothing is uploaded
	Query   string
	Result  *core.SearchResult // nil unless a search ran and succeeded
	Alert   *core.UserMessage
	Notice  string
}

func hasMatches(res *core.SearchResult) bool {
	return res != nil && res.Status == core.StatusMatched
}

func datasetMeta(ds *DatasetSummary) string {
	return fmt.Sprintf("%d rows, %d columns loaded", ds.Rows, len(ds.Header))
}

func alertClass(msg core.UserMessage) string {
	if msg.Severity == core.SeverityWarning {
		return "alert alert-warning"
	}
	return "alert alert-error"
}

func alertText(msg core.UserMessage) string {
	return msg.Message + ". " + msg.Action
}

// exportURL links the export endpoint for format with the same query.
func exportURL(format, query string) string {
	return "/export/results." + format + "?q=" + url.QueryEscape(query)
}

// emojiIcon turns an emoji into an inline SVG favicon.
func emojiIcon(emoji string) string {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><text y=".9em" font-size="90">` +
		templ.EscapeString(emoji) + `</text></svg>`
	return "data:image/svg+xml," + url.PathEscape(svg)
}
