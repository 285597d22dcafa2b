// Package handlers provides HTTP handlers for financial reports.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/jmkang/stockscope/internal/domain"
	"github.com/jmkang/stockscope/internal/modules/financials"
)

// CompanyResolver turns a corp code into a registry record.
type CompanyResolver interface {
	Resolve(ctx context.Context, code string) (domain.CompanyRecord, error)
}

// Handler handles financial report HTTP requests
type Handler struct {
	service  *financials.Service
	resolver CompanyResolver
	log      zerolog.Logger
}

// NewHandler creates a new financials handler
func NewHandler(service *financials.Service, resolver CompanyResolver, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		resolver: resolver,
		log:      log.With().Str("handler", "financials").Logger(),
	}
}

// HandleGetFinancials returns the reconstructed quarterly report for one
// company. A stale (but still served) report is flagged in the response
// header.
func (h *Handler) HandleGetFinancials(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	rec, err := h.resolver.Resolve(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			h.writeError(w, http.StatusNotFound, "COMPANY_NOT_FOUND", "unknown company code")
			return
		}
		h.log.Error().Err(err).Str("code", code).Msg("Company resolution failed")
		h.writeError(w, http.StatusInternalServerError, "INTERNAL", "please retry later")
		return
	}

	report, stale, err := h.service.Report(r.Context(), rec)
	if err != nil {
		h.log.Error().Err(err).Str("code", code).Msg("Failed to build financial report")
		h.writeError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "data source unavailable, please retry later")
		return
	}

	if stale {
		w.Header().Set("X-Cache-Status", "stale")
	} else {
		w.Header().Set("X-Cache-Status", "fresh")
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
