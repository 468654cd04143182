package http

import (
	"errors"
	"net/http"

	"seti/workshop/internal/repository"
)

type createResourceRequest struct {
	Name        string  `json:"name"`
	CategoryID  int64   `json:"category_id"`
	SessionID   *int64  `json:"session_id"`
	URL         string  `json:"url"`
	Description *string `json:"description"`
}

func (s *Server) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	var req createResourceRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" || req.URL == "" || req.CategoryID == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	id, err := s.store.CreateResource(r.Context(), repository.NewResource{
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		SessionID:   req.SessionID,
		URL:         req.URL,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "Resource added successfully",
		"resource_id": id,
	})
}

type updateResourceRequest struct {
	Name        *string `json:"name"`
	CategoryID  *int64  `json:"category_id"`
	SessionID   *int64  `json:"session_id"`
	URL         *string `json:"url"`
	Description *string `json:"description"`
}

func (s *Server) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	resourceID, err := pathID(r, "resourceID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_resource_id")
		return
	}
	var req updateResourceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	updated, err := s.store.UpdateResource(r.Context(), resourceID, repository.ResourceUpdate{
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		SessionID:   req.SessionID,
		URL:         req.URL,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNoFields) {
			writeError(w, http.StatusBadRequest, "no_fields")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "resource_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Resource updated successfully"})
}

func (s *Server) handleListAllResources(w http.ResponseWriter, r *http.Request) {
	resources, err := s.store.ListResources(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	entries := make([]map[string]any, 0, len(resources))
	for _, resource := range resources {
		entries = append(entries, map[string]any{
			"id":          resource.ID,
			"name":        resource.Name,
			"category_id": resource.CategoryID,
			"session_id":  resource.SessionID,
			"url":         resource.URL,
			"description": resource.Description,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"resources": entries})
}

func (s *Server) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	resourceID, err := pathID(r, "resourceID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_resource_id")
		return
	}
	deleted, err := s.store.DeleteResource(r.Context(), resourceID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "resource_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Resource deleted successfully"})
}

// handleStudentResources is gated on a completed profile.
func (s *Server) handleStudentResources(w http.ResponseWriter, r *http.Request) {
	student := studentFromContext(r.Context())
	if !student.ProfileCompleted {
		writeError(w, http.StatusForbidden, "profile_incomplete")
		return
	}

	views, err := s.store.ListResourceViews(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	entries := make([]map[string]any, 0, len(views))
	for _, view := range views {
		entries = append(entries, map[string]any{
			"id":          view.ID,
			"name":        view.Name,
			"url":         view.URL,
			"description": view.Description,
			"category":    view.Category,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"resources": entries})
}

func (s *Server) handleResourceCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListResourceCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, category.Name)
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": names})
}
