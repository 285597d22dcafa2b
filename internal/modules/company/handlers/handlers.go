// Package handlers provides HTTP handlers for company search, profiles,
// disclosures and news.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/jmkang/stockscope/internal/domain"
	"github.com/jmkang/stockscope/internal/modules/company"
)

// Handler handles company HTTP requests
type Handler struct {
	service *company.Service
	log     zerolog.Logger
}

// NewHandler creates a new company handler
func NewHandler(service *company.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "company").Logger(),
	}
}

// HandleSearch returns companies matching ?q=, best match first.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_QUERY", "query parameter q is required")
		return
	}

	results, err := h.service.Search(r.Context(), query, limitParam(r))
	if err != nil {
		h.log.Error().Err(err).Str("query", query).Msg("Company search failed")
		h.writeError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "data source unavailable, please retry later")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
	})
}

// HandleGetCompany returns the detailed company profile.
func (h *Handler) HandleGetCompany(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	info, err := h.service.Info(r.Context(), code)
	if err != nil {
		h.respondServiceError(w, code, err, "Company profile lookup failed")
		return
	}
	h.writeJSON(w, http.StatusOK, info)
}

// HandleGetDisclosures returns the company's recent filings.
func (h *Handler) HandleGetDisclosures(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	feed, err := h.service.Disclosures(r.Context(), code, limitParam(r))
	if err != nil {
		h.respondServiceError(w, code, err, "Disclosure feed lookup failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"code":        code,
		"disclosures": feed,
	})
}

// HandleGetNews returns recent articles about the company.
func (h *Handler) HandleGetNews(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	articles, err := h.service.News(r.Context(), code, limitParam(r))
	if err != nil {
		h.respondServiceError(w, code, err, "News lookup failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"code":     code,
		"articles": articles,
	})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, code string, err error, logMsg string) {
	if errors.Is(err, domain.ErrCompanyNotFound) {
		h.writeError(w, http.StatusNotFound, "COMPANY_NOT_FOUND", "unknown company code")
		return
	}
	h.log.Error().Err(err).Str("code", code).Msg(logMsg)
	h.writeError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "data source unavailable, please retry later")
}

// limitParam parses ?limit=, zero when absent or malformed; services
// apply their own defaults and caps.
func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
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
