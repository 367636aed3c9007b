package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/intel-relay/internal/relay"
	"github.com/sells-group/intel-relay/pkg/lindy"
)

type triggerRequest struct {
	RequestID          string         `json:"request_id"`
	Company            string         `json:"company"`
	IncludeCompetitive bool           `json:"include_competitive"`
	Metadata           map[string]any `json:"metadata"`
}

// handleTrigger forwards a research task to the agent. Upstream non-2xx
// responses pass through with their original status and body, uninterpreted.
func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if q := r.URL.Query().Get("request_id"); q != "" {
		req.RequestID = q
	}

	requestID, err := s.svc.Trigger(r.Context(), relay.TriggerInput{
		RequestID:          req.RequestID,
		Company:            req.Company,
		IncludeCompetitive: req.IncludeCompetitive,
		Metadata:           req.Metadata,
	})
	if err != nil {
		s.writeTriggerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"request_id": requestID})
}

func (s *Server) writeTriggerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, relay.ErrMissingCompany):
		writeError(w, http.StatusBadRequest, relay.ErrMissingCompany.Error())
	case errors.Is(err, lindy.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, lindy.ErrTimeout.Error())
	default:
		var apiErr *lindy.APIError
		if errors.As(err, &apiErr) {
			writeJSON(w, apiErr.StatusCode, map[string]any{
				"error":    "trigger rejected by agent",
				"upstream": apiErr.Body,
			})
			return
		}
		zap.L().Error("trigger failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "trigger failed")
	}
}

// handleCallback ingests an agent callback. The payload shape is arbitrary;
// it only needs to be valid JSON.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	var payload any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	result := s.svc.HandleCallback(r.Context(), r.URL.Query().Get("request_id"), payload)

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"request_id": result.RequestID,
	})
}

// handlePoll consumes the pending result for a correlation id. Absence is
// "not ready", indistinguishable from "never existed" by design.
func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	payload, ok := s.svc.Poll(requestID)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"ready": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ready": true, "data": payload})
}

func (s *Server) handlePollDelete(w http.ResponseWriter, r *http.Request) {
	s.svc.DeletePending(chi.URLParam(r, "requestID"))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleLatest returns the durable record for a company, rendering
// normalized data when available and the raw payload otherwise.
func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	company := r.URL.Query().Get("company")
	if company == "" {
		writeError(w, http.StatusBadRequest, "company query parameter is required")
		return
	}

	rec, ok := s.svc.Latest(company)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"found": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"found":     true,
		"data":      rec.Display(),
		"updatedAt": rec.UpdatedAt.Format(time.RFC3339),
		"hasSheets": rec.HasSheets(),
	})
}

type refreshRequest struct {
	Company string `json:"company"`
}

// handleRefresh re-fetches and re-normalizes a company's stored spreadsheet
// links in place.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, refreshed, err := s.svc.Refresh(r.Context(), req.Company)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !refreshed {
		writeJSON(w, http.StatusOK, map[string]any{"refreshed": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"refreshed": true,
		"updatedAt": rec.UpdatedAt.Format(time.RFC3339),
		"data":      rec.Display(),
	})
}
