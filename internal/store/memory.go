package store

import (
	"sync"
	"time"

	"github.com/sells-group/intel-relay/internal/model"
)

// MemoryPending is the process-memory PendingStore.
type MemoryPending struct {
	mu      sync.Mutex
	pending map[string]any
}

// NewMemoryPending creates an empty pending store.
func NewMemoryPending() *MemoryPending {
	return &MemoryPending{pending: make(map[string]any)}
}

// Put stores payload under id, overwriting any prior value.
func (s *MemoryPending) Put(id string, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[id] = payload
}

// Get returns the payload without consuming it.
func (s *MemoryPending) Get(id string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.pending[id]
	return payload, ok
}

// Take returns and removes the payload under one lock, so concurrent pollers
// cannot both observe it.
func (s *MemoryPending) Take(id string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	return payload, ok
}

// Delete removes the payload if present.
func (s *MemoryPending) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

// MemoryCompanies is the process-memory CompanyStore. The byCompany index is
// mutated under the same lock as the record map, so a reader never observes a
// company pointing at a request id with no record.
type MemoryCompanies struct {
	mu        sync.RWMutex
	records   map[string]*model.CompanyRecord
	byCompany map[string]string
}

// NewMemoryCompanies creates an empty company store.
func NewMemoryCompanies() *MemoryCompanies {
	return &MemoryCompanies{
		records:   make(map[string]*model.CompanyRecord),
		byCompany: make(map[string]string),
	}
}

// Upsert creates or replaces the record for requestID and repoints the
// company index at it.
func (s *MemoryCompanies) Upsert(requestID, company string, raw any) model.CompanyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &model.CompanyRecord{
		RequestID: requestID,
		Company:   company,
		Raw:       raw,
		UpdatedAt: time.Now().UTC(),
	}
	s.records[requestID] = rec
	s.byCompany[company] = requestID

	return *rec
}

// UpdateSpreadsheets attaches sheet results to an existing record as a single
// mutation. Unknown requestID is a no-op.
func (s *MemoryCompanies) UpdateSpreadsheets(requestID string, sheets []model.SheetResult, normalized *model.NormalizedBundle) (model.CompanyRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[requestID]
	if !ok {
		return model.CompanyRecord{}, false
	}
	rec.Spreadsheets = sheets
	rec.Normalized = normalized
	rec.UpdatedAt = time.Now().UTC()

	return *rec, true
}

// LatestByCompany returns the most recently upserted record for company.
func (s *MemoryCompanies) LatestByCompany(company string) (model.CompanyRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requestID, ok := s.byCompany[company]
	if !ok {
		return model.CompanyRecord{}, false
	}
	rec, ok := s.records[requestID]
	if !ok {
		return model.CompanyRecord{}, false
	}

	return *rec, true
}
