package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSheetResult_OK(t *testing.T) {
	assert.False(t, SheetResult{}.OK())
	assert.False(t, SheetResult{Error: "Fetch failed: 500 Internal Server Error"}.OK())
	assert.True(t, SheetResult{Parsed: []SheetRow{{"a": "1"}}}.OK())
}

func TestNormalizedBundle_Empty(t *testing.T) {
	assert.True(t, NormalizedBundle{}.Empty())
	assert.False(t, NormalizedBundle{CompanyIntelligence: SheetRow{}}.Empty())
	assert.False(t, NormalizedBundle{CompetitiveAnalysis: SheetRow{}}.Empty())
}

func TestCompanyRecord_Display(t *testing.T) {
	raw := map[string]any{"company": "Acme"}
	rec := CompanyRecord{Raw: raw}
	assert.Equal(t, raw, rec.Display())

	bundle := &NormalizedBundle{CompanyIntelligence: SheetRow{"companyName": "Acme"}}
	rec.Normalized = bundle
	assert.Equal(t, bundle, rec.Display())
}

func TestCompanyRecord_HasSheets(t *testing.T) {
	rec := CompanyRecord{}
	assert.False(t, rec.HasSheets())

	rec.Spreadsheets = []SheetResult{{Error: "nope"}}
	assert.False(t, rec.HasSheets())

	rec.Spreadsheets = append(rec.Spreadsheets, SheetResult{Parsed: []SheetRow{{"a": "1"}}})
	assert.True(t, rec.HasSheets())
}

func TestCompanyRecord_JSONShape(t *testing.T) {
	rec := CompanyRecord{
		RequestID: "req-1",
		Company:   "Acme",
		Raw:       map[string]any{"k": "v"},
		UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "req-1", decoded["requestId"])
	assert.Equal(t, "Acme", decoded["company"])
	// Absent sheets and normalization are omitted, not null.
	assert.NotContains(t, decoded, "spreadsheets")
	assert.NotContains(t, decoded, "normalized")
}
