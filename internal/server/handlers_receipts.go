package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/dmoreno/cv-studio/internal/llm"
	"github.com/dmoreno/cv-studio/internal/server/middleware"
	"github.com/dmoreno/cv-studio/internal/types"
)

// handleExtractReceipt runs receipt extraction over uploaded text or HTML
// and returns the structured result. Low-confidence or incomplete results
// come back with needs_review set rather than failing.
func (s *Server) handleExtractReceipt(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.ExtractReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	extraction, err := s.extractor.Extract(r.Context(), userID, req.Content, req.IsHTML)
	if err != nil {
		if errors.Is(err, llm.ErrAllProvidersFailed) {
			s.errorResponse(w, http.StatusServiceUnavailable, "extraction service unavailable")
			return
		}
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, extraction)
}

// handleListReceipts lists the user's stored receipts, newest first.
func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
	}

	receipts, err := s.ledger.ListReceipts(r.Context(), userID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to list receipts")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"receipts": receipts})
}

// handleGetReceipt returns one stored receipt, scoped to the user.
func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "id must be a UUID")
		return
	}

	receipt, err := s.ledger.GetReceipt(r.Context(), userID, id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to get receipt")
		return
	}
	if receipt == nil {
		s.errorResponse(w, http.StatusNotFound, "receipt not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, receipt)
}
