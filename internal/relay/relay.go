// Package relay orchestrates the Lindy request/callback flow: outbound
// triggers, webhook callback ingestion, pending-result polling, and
// company-record refresh.
package relay

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/intel-relay/internal/harvest"
	"github.com/sells-group/intel-relay/internal/model"
	"github.com/sells-group/intel-relay/internal/normalize"
	"github.com/sells-group/intel-relay/internal/sheets"
	"github.com/sells-group/intel-relay/internal/store"
	"github.com/sells-group/intel-relay/pkg/lindy"
)

// ErrMissingCompany is returned when a trigger or refresh names no company.
// It is a client error: no side effects have occurred.
var ErrMissingCompany = errors.New("company is required")

// Service drives the analysis request lifecycle. Stores are injected so a
// durable backend can replace the in-memory ones without touching
// orchestration logic.
type Service struct {
	lindy       lindy.Client
	fetcher     *sheets.Fetcher
	pending     store.PendingStore
	companies   store.CompanyStore
	callbackURL string
}

// New creates a relay service. callbackURL is advertised to the agent so it
// knows where to post results; empty is allowed when configured out-of-band.
func New(client lindy.Client, fetcher *sheets.Fetcher, pending store.PendingStore, companies store.CompanyStore, callbackURL string) *Service {
	return &Service{
		lindy:       client,
		fetcher:     fetcher,
		pending:     pending,
		companies:   companies,
		callbackURL: callbackURL,
	}
}

// TriggerInput is the client-facing trigger request.
type TriggerInput struct {
	RequestID          string
	Company            string
	IncludeCompetitive bool
	Metadata           map[string]any
}

// Trigger forwards a research task to the agent and returns the correlation
// id. It does not block on the eventual callback.
func (s *Service) Trigger(ctx context.Context, in TriggerInput) (string, error) {
	if in.Company == "" {
		return "", ErrMissingCompany
	}

	requestID := in.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	err := s.lindy.Trigger(ctx, lindy.TriggerRequest{
		RequestID:          requestID,
		Company:            in.Company,
		IncludeCompetitive: in.IncludeCompetitive,
		Metadata:           in.Metadata,
		CallbackURL:        s.callbackURL,
	})
	if err != nil {
		return "", err
	}

	zap.L().Info("trigger accepted",
		zap.String("request_id", requestID),
		zap.String("company", in.Company),
	)

	return requestID, nil
}

// CallbackResult reports what a callback ingested.
type CallbackResult struct {
	RequestID  string
	Company    string
	SheetCount int
}

// HandleCallback ingests an agent callback. The raw payload is persisted
// first (pending store and company store), then any spreadsheet links are
// harvested, fetched concurrently, normalized, and attached to the record in
// one mutation. A poller may observe the raw-only state transiently.
func (s *Service) HandleCallback(ctx context.Context, queryID string, payload any) CallbackResult {
	requestID := ResolveRequestID(queryID, payload)
	company := ExtractCompany(payload)

	s.pending.Put(requestID, payload)
	s.companies.Upsert(requestID, company, payload)

	urls := harvest.SpreadsheetURLs(payload)
	result := CallbackResult{RequestID: requestID, Company: company}
	if len(urls) == 0 {
		zap.L().Info("callback ingested, no spreadsheet links",
			zap.String("request_id", requestID),
			zap.String("company", company),
		)
		return result
	}

	results := s.fetcher.FetchAll(ctx, urls)
	s.companies.UpdateSpreadsheets(requestID, results, bundleOf(results))
	result.SheetCount = len(results)

	zap.L().Info("callback ingested",
		zap.String("request_id", requestID),
		zap.String("company", company),
		zap.Int("sheets", len(results)),
	)

	return result
}

// Poll consumes the pending payload for a correlation id. A payload is
// delivered at most once; an absent id means "not ready", never an error.
func (s *Service) Poll(requestID string) (any, bool) {
	return s.pending.Take(requestID)
}

// DeletePending is the explicit cleanup half of the read-then-acknowledge
// poll protocol.
func (s *Service) DeletePending(requestID string) {
	s.pending.Delete(requestID)
}

// Latest returns the durable record for a company name, exact match.
func (s *Service) Latest(company string) (model.CompanyRecord, bool) {
	return s.companies.LatestByCompany(company)
}

// Refresh re-fetches and re-normalizes the spreadsheets of a company's
// stored record. URLs come from the record's existing sheet results when
// present, otherwise from re-harvesting the stored raw payload; refresh never
// discovers links beyond what the last callback carried.
func (s *Service) Refresh(ctx context.Context, company string) (model.CompanyRecord, bool, error) {
	if company == "" {
		return model.CompanyRecord{}, false, ErrMissingCompany
	}

	rec, ok := s.companies.LatestByCompany(company)
	if !ok {
		return model.CompanyRecord{}, false, nil
	}

	var urls []string
	if len(rec.Spreadsheets) > 0 {
		for _, sheet := range rec.Spreadsheets {
			urls = append(urls, sheet.URL)
		}
	} else {
		urls = harvest.SpreadsheetURLs(rec.Raw)
	}
	if len(urls) == 0 {
		return rec, false, nil
	}

	results := s.fetcher.FetchAll(ctx, urls)
	updated, ok := s.companies.UpdateSpreadsheets(rec.RequestID, results, bundleOf(results))
	if !ok {
		return rec, false, nil
	}

	zap.L().Info("company refreshed",
		zap.String("company", company),
		zap.Int("sheets", len(results)),
	)

	return updated, true, nil
}

// bundleOf normalizes fetched sheets; an empty bundle is stored as nil so the
// record falls back to its raw payload.
func bundleOf(results []model.SheetResult) *model.NormalizedBundle {
	bundle := normalize.FromSheets(results)
	if bundle.Empty() {
		return nil
	}
	return &bundle
}
