package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/up4down/up4down-server/internal/http/response"
)

// handleListCategories returns all categories.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalogService.ListCategories(r.Context())
	if err != nil {
		s.logger.Error("Failed to list categories", "error", err)
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, categories, s.logger)
}

// handleBrowseItems returns items filtered by category slugs and text query.
// Repeated `category` parameters select a union; `q` narrows by title.
func (s *Server) handleBrowseItems(w http.ResponseWriter, r *http.Request) {
	slugs := r.URL.Query()["category"]
	query := r.URL.Query().Get("q")

	items, err := s.catalogService.Browse(r.Context(), slugs, query)
	if err != nil {
		s.logger.Error("Failed to browse items", "error", err, "categories", slugs, "query", query)
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, items, s.logger)
}

// handleFeaturedItems returns the featured items for the landing surface.
func (s *Server) handleFeaturedItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalogService.Featured(r.Context())
	if err != nil {
		s.logger.Error("Failed to list featured items", "error", err)
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, items, s.logger)
}

// handleGetItem returns a single item by ID.
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Item ID is required", s.logger)
		return
	}

	item, err := s.catalogService.GetItem(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, item, s.logger)
}

// handleRelatedItems returns items sharing a category with the given item.
func (s *Server) handleRelatedItems(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Item ID is required", s.logger)
		return
	}

	items, err := s.catalogService.Related(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, items, s.logger)
}

// handleSuggest returns bounded search-as-you-type title suggestions.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.suggestService.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.logger.Error("Failed to get suggestions", "error", err)
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, suggestions, s.logger)
}
