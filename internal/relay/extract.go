package relay

import (
	"strings"

	"github.com/google/uuid"
)

// companyExtractors is the ordered candidate list for pulling a company name
// out of a callback payload. First non-empty result wins.
var companyExtractors = []func(map[string]any) string{
	fieldExtractor("company"),
	fieldExtractor("companyName"),
	fieldExtractor("company_name"),
	fieldExtractor("name"),
}

func fieldExtractor(key string) func(map[string]any) string {
	return func(payload map[string]any) string {
		s, _ := payload[key].(string)
		return strings.TrimSpace(s)
	}
}

// ExtractCompany returns the display key to store a callback under, falling
// back to "Unknown" when no recognizable field is present.
func ExtractCompany(payload any) string {
	obj, ok := payload.(map[string]any)
	if !ok {
		return "Unknown"
	}
	for _, extract := range companyExtractors {
		if name := extract(obj); name != "" {
			return name
		}
	}
	return "Unknown"
}

// ResolveRequestID picks the correlation id for a callback: query parameter,
// then body request_id, then body requestId, then a fresh UUID.
func ResolveRequestID(queryID string, payload any) string {
	if queryID != "" {
		return queryID
	}
	if obj, ok := payload.(map[string]any); ok {
		for _, key := range []string{"request_id", "requestId"} {
			if s, ok := obj[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return uuid.NewString()
}
