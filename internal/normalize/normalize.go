// Package normalize reshapes parsed spreadsheet rows into the two canonical
// record shapes the dashboard understands.
package normalize

import (
	"regexp"
	"strings"

	"github.com/sells-group/intel-relay/internal/model"
)

// intelKeys are the recognized company-intelligence column headers, in both
// camelCase and snake_case spellings.
var intelKeys = []string{
	"companyName", "company_name",
	"location",
	"oneLiner", "one_liner",
	"industry",
	"employeeCount", "employee_count",
}

// competitiveKeys mark a competitive-analysis row.
var competitiveKeys = []string{"main_company", "competitors"}

var competitorSplit = regexp.MustCompile(`[;,]\s*`)

// FromSheets scans sheets in input order and returns the first matching row
// for each canonical shape. Sheets with errors or no parsed rows are skipped.
// An empty bundle means "no normalization available", not an error.
func FromSheets(results []model.SheetResult) model.NormalizedBundle {
	var bundle model.NormalizedBundle

	for _, sheet := range results {
		if !sheet.OK() {
			continue
		}
		for _, row := range sheet.Parsed {
			if bundle.CompanyIntelligence == nil && hasAnyKey(row, intelKeys) {
				bundle.CompanyIntelligence = row
			}
			if bundle.CompetitiveAnalysis == nil && hasAnyKey(row, competitiveKeys) {
				bundle.CompetitiveAnalysis = withCompetitorList(row)
			}
			if bundle.CompanyIntelligence != nil && bundle.CompetitiveAnalysis != nil {
				return bundle
			}
		}
	}

	return bundle
}

func hasAnyKey(row model.SheetRow, keys []string) bool {
	for _, k := range keys {
		if _, ok := row[k]; ok {
			return true
		}
	}
	return false
}

// withCompetitorList coerces a delimited competitors string into a list of
// {name} objects. Already-listy values pass through untouched.
func withCompetitorList(row model.SheetRow) model.SheetRow {
	out := make(model.SheetRow, len(row))
	for k, v := range row {
		out[k] = v
	}

	raw, ok := out["competitors"].(string)
	if !ok {
		return out
	}

	var competitors []any
	for _, token := range competitorSplit.Split(raw, -1) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		competitors = append(competitors, map[string]any{"name": token})
	}
	out["competitors"] = competitors

	return out
}
