package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/up4down/up4down-server/internal/http/response"
)

// handleSubmitRating records an anonymous 1-5 rating for an item and
// returns the item with its fresh aggregates.
func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Item ID is required", s.logger)
		return
	}

	var req struct {
		Rating int `json:"rating"`
	}
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	item, err := s.ratingService.Submit(r.Context(), id, req.Rating)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, item, s.logger)
}

// handleTriggerDownload records a download and hands back the file location.
func (s *Server) handleTriggerDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Item ID is required", s.logger)
		return
	}

	result, err := s.downloadService.Trigger(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}
