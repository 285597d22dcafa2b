package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all financial report routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/companies/{code}/financials", h.HandleGetFinancials)
}
