package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCompany_PrecedenceOrder(t *testing.T) {
	// "company" beats "companyName" beats "company_name" beats "name".
	payload := map[string]any{
		"company":      "Acme",
		"companyName":  "Acme Inc",
		"company_name": "Acme LLC",
		"name":         "acme-co",
	}
	assert.Equal(t, "Acme", ExtractCompany(payload))

	delete(payload, "company")
	assert.Equal(t, "Acme Inc", ExtractCompany(payload))

	delete(payload, "companyName")
	assert.Equal(t, "Acme LLC", ExtractCompany(payload))

	delete(payload, "company_name")
	assert.Equal(t, "acme-co", ExtractCompany(payload))
}

func TestExtractCompany_Fallbacks(t *testing.T) {
	assert.Equal(t, "Unknown", ExtractCompany(map[string]any{}))
	assert.Equal(t, "Unknown", ExtractCompany(map[string]any{"company": 42.0}))
	assert.Equal(t, "Unknown", ExtractCompany(map[string]any{"company": "   "}))
	assert.Equal(t, "Unknown", ExtractCompany([]any{"not", "an", "object"}))
	assert.Equal(t, "Unknown", ExtractCompany(nil))
}

func TestResolveRequestID_QueryBeatsBody(t *testing.T) {
	payload := map[string]any{"request_id": "body-id", "requestId": "camel-id"}
	assert.Equal(t, "query-id", ResolveRequestID("query-id", payload))
	assert.Equal(t, "body-id", ResolveRequestID("", payload))

	delete(payload, "request_id")
	assert.Equal(t, "camel-id", ResolveRequestID("", payload))
}

func TestResolveRequestID_GeneratesWhenAbsent(t *testing.T) {
	first := ResolveRequestID("", map[string]any{})
	second := ResolveRequestID("", map[string]any{})
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
