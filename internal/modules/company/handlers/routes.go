package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all company routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	// Flat registrations: the financials handler shares the /companies
	// prefix, so no subrouter is mounted here.
	r.Get("/companies/search", h.HandleSearch)
	r.Get("/companies/{code}", h.HandleGetCompany)
	r.Get("/companies/{code}/disclosures", h.HandleGetDisclosures)
	r.Get("/companies/{code}/news", h.HandleGetNews)
}
