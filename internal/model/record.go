// Package model holds the shared domain types for the Lindy relay.
package model

import "time"

// NormalizedBundle is the canonical reshaping of spreadsheet rows. Either
// sub-field may be absent; an empty bundle is never stored on a record.
type NormalizedBundle struct {
	CompanyIntelligence SheetRow `json:"company_intelligence,omitempty"`
	CompetitiveAnalysis SheetRow `json:"competitive_analysis,omitempty"`
}

// Empty reports whether normalization produced nothing usable.
func (b NormalizedBundle) Empty() bool {
	return b.CompanyIntelligence == nil && b.CompetitiveAnalysis == nil
}

// CompanyRecord is the durable (process-lifetime) record of a company's
// latest intelligence callback.
type CompanyRecord struct {
	RequestID    string            `json:"requestId"`
	Company      string            `json:"company"`
	Raw          any               `json:"raw"`
	Spreadsheets []SheetResult     `json:"spreadsheets,omitempty"`
	Normalized   *NormalizedBundle `json:"normalized,omitempty"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// Display returns what a dashboard should render: the normalized bundle when
// present, otherwise the raw callback payload. Never nil for a stored record.
func (r *CompanyRecord) Display() any {
	if r.Normalized != nil {
		return r.Normalized
	}
	return r.Raw
}

// HasSheets reports whether at least one spreadsheet parsed successfully.
func (r *CompanyRecord) HasSheets() bool {
	for _, s := range r.Spreadsheets {
		if s.OK() {
			return true
		}
	}
	return false
}
