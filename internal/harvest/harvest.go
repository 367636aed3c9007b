// Package harvest scans arbitrary decoded JSON payloads for spreadsheet links.
package harvest

import (
	"sort"
	"strings"
)

// keyHints flag object keys whose string values are harvested even when the
// value itself does not look like a spreadsheet URL.
var keyHints = []string{"spreadsheet", "sheet", "csv"}

// SpreadsheetURLs walks payload (objects, arrays, scalars) and returns every
// string that looks like a spreadsheet link, deduplicated, in first-seen
// order. Object keys are visited in sorted order so output is stable across
// runs. Payloads come from decoded JSON and are acyclic.
func SpreadsheetURLs(payload any) []string {
	var urls []string
	seen := make(map[string]struct{})

	add := func(u string) {
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	var walk func(v any)
	walk = func(v any) {
		switch val := v.(type) {
		case string:
			if looksLikeSheetURL(val) {
				add(val)
			}
		case []any:
			for _, item := range val {
				walk(item)
			}
		case map[string]any:
			keys := make([]string, 0, len(val))
			for k := range val {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if s, ok := val[k].(string); ok && keyHinted(k) {
					add(s)
					continue
				}
				walk(val[k])
			}
		}
	}
	walk(payload)

	return urls
}

// looksLikeSheetURL is the value-shape heuristic: an http(s) string pointing
// at a Google Sheets doc, a .csv/.xlsx file, or a CSV export.
func looksLikeSheetURL(s string) bool {
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http") {
		return false
	}
	return strings.Contains(lower, "docs.google.com/spreadsheets") ||
		strings.HasSuffix(lower, ".csv") ||
		strings.HasSuffix(lower, ".xlsx") ||
		strings.Contains(lower, "format=csv")
}

// keyHinted reports whether an object key suggests its value is a sheet link.
func keyHinted(key string) bool {
	lower := strings.ToLower(key)
	for _, hint := range keyHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
