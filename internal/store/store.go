// Package store provides the in-memory coordination substrate for the relay:
// short-lived pending results keyed by correlation id, and durable
// (process-lifetime) company records. Both stores are deliberately
// memory-only and per-process; swapping in a shared durable backend must not
// change these contracts.
package store

import (
	"github.com/sells-group/intel-relay/internal/model"
)

// PendingStore holds raw callback payloads keyed by correlation id.
// Single-writer per id, single-consumer: Take removes on delivery.
type PendingStore interface {
	// Put stores payload under id, overwriting any prior value (last write wins).
	Put(id string, payload any)

	// Get returns the payload without consuming it.
	Get(id string) (any, bool)

	// Take returns and atomically removes the payload, so a payload is
	// delivered to at most one poller.
	Take(id string) (any, bool)

	// Delete removes the payload if present.
	Delete(id string)
}

// CompanyStore holds company records keyed by request id, with a secondary
// company-name index that always points at the most recent upsert.
type CompanyStore interface {
	// Upsert creates or replaces the record for requestID and repoints the
	// company index at it. Returns a copy of the stored record.
	Upsert(requestID, company string, raw any) model.CompanyRecord

	// UpdateSpreadsheets attaches sheet results (and an optional normalized
	// bundle) to an existing record in one atomic mutation. Unknown
	// requestID is a no-op returning false.
	UpdateSpreadsheets(requestID string, sheets []model.SheetResult, normalized *model.NormalizedBundle) (model.CompanyRecord, bool)

	// LatestByCompany returns the most recently upserted record for the
	// company name (exact, case-sensitive match).
	LatestByCompany(company string) (model.CompanyRecord, bool)
}
