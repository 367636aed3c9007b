package sheets

import (
	"net/url"
	"strings"

	"github.com/sells-group/intel-relay/internal/model"
)

// Detect infers the document type from the URL string alone, case-insensitively.
func Detect(rawURL string) model.SheetType {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "docs.google.com/spreadsheets"):
		return model.SheetTypeGoogleSheets
	case strings.HasSuffix(lower, ".csv"),
		strings.Contains(lower, "format=csv"),
		strings.Contains(lower, "output=csv"):
		return model.SheetTypeCSV
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xls"):
		return model.SheetTypeXLSX
	default:
		return model.SheetTypeUnknown
	}
}

// ExportURL rewrites a Google Sheets edit/view URL to its CSV export form:
// https://docs.google.com/spreadsheets/d/<id>/export?format=csv[&gid=<gid>].
// If the document id cannot be extracted, the URL is returned unchanged and
// the fetch proceeds degraded.
func ExportURL(rawURL string) string {
	id := documentID(rawURL)
	if id == "" {
		return rawURL
	}
	export := "https://docs.google.com/spreadsheets/d/" + id + "/export?format=csv"
	if gid := sheetGID(rawURL); gid != "" {
		export += "&gid=" + gid
	}
	return export
}

// documentID pulls the path segment following "/d/".
func documentID(rawURL string) string {
	_, rest, found := strings.Cut(rawURL, "/d/")
	if !found {
		return ""
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// sheetGID pulls a gid from the fragment (#gid=N) or the query string.
func sheetGID(rawURL string) string {
	if _, frag, found := strings.Cut(rawURL, "#gid="); found {
		if i := strings.IndexAny(frag, "&/?"); i >= 0 {
			frag = frag[:i]
		}
		return frag
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("gid")
}
