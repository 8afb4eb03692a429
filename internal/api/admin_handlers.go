package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/up4down/up4down-server/internal/http/response"
	"github.com/up4down/up4down-server/internal/service"
)

// handleAdminLogin verifies credentials and issues a session token.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if req.Username == "" || req.Password == "" {
		response.BadRequest(w, "Username and password are required", s.logger)
		return
	}

	token, admin, err := s.adminService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]any{
		"token":      token,
		"username":   admin.Username,
		"expires_in": int(s.tokens.SessionDuration().Seconds()),
	}, s.logger)
}

// handleCreateItem creates a new catalog item.
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var input service.CreateItemInput
	if err := json.UnmarshalRead(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	item, err := s.itemService.Create(r.Context(), input)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.logger.Info("admin created item",
		"item_id", item.ID,
		"admin_id", getAdminID(r.Context()),
		"admin", getUsername(r.Context()))
	response.Created(w, item, s.logger)
}

// handleUpdateItem applies a partial update to an item.
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Item ID is required", s.logger)
		return
	}

	var input service.UpdateItemInput
	if err := json.UnmarshalRead(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	item, err := s.itemService.Update(r.Context(), id, input)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, item, s.logger)
}

// handleDeleteItem removes an item.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Item ID is required", s.logger)
		return
	}

	if err := s.itemService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.logger.Info("admin deleted item",
		"item_id", id,
		"admin_id", getAdminID(r.Context()),
		"admin", getUsername(r.Context()))
	response.NoContent(w)
}

// handleTestScript dry-runs a script against a synthetic item built from
// the in-progress form values. Always returns 200 with the captured
// console output; script failures are log lines, not HTTP errors.
func (s *Server) handleTestScript(w http.ResponseWriter, r *http.Request) {
	var input service.ScriptTestInput
	if err := json.UnmarshalRead(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	result := s.adminService.TestScript(r.Context(), input)
	response.Success(w, result, s.logger)
}

// handleCreateCategory creates a new category.
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var input service.CreateCategoryInput
	if err := json.UnmarshalRead(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	cat, err := s.categoryService.Create(r.Context(), input)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, cat, s.logger)
}

// handleUpdateCategory applies a partial update to a category.
func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Category ID is required", s.logger)
		return
	}

	var input service.UpdateCategoryInput
	if err := json.UnmarshalRead(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	cat, err := s.categoryService.Update(r.Context(), id, input)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, cat, s.logger)
}

// handleDeleteCategory removes a category. Its items are untouched.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Category ID is required", s.logger)
		return
	}

	if err := s.categoryService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
