package model

import "time"

// SheetType classifies a spreadsheet URL by its syntactic shape.
type SheetType string

const (
	SheetTypeGoogleSheets SheetType = "google-sheets"
	SheetTypeCSV          SheetType = "csv"
	SheetTypeXLSX         SheetType = "xlsx"
	SheetTypeUnknown      SheetType = "unknown"
)

// SheetRow is one parsed spreadsheet row, keyed by header cell.
type SheetRow map[string]any

// SheetResult is the outcome of fetching and parsing a single spreadsheet URL.
// Exactly one of Parsed or Error is set.
type SheetResult struct {
	URL      string     `json:"url"`
	Type     SheetType  `json:"type"`
	Parsed   []SheetRow `json:"parsed,omitempty"`
	Error    string     `json:"error,omitempty"`
	ParsedAt time.Time  `json:"parsedAt"`
}

// OK reports whether the sheet was fetched and parsed successfully.
func (s SheetResult) OK() bool {
	return s.Error == "" && len(s.Parsed) > 0
}
