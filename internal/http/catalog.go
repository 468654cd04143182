package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"

	"seti/workshop/internal/model"
	"seti/workshop/internal/repository"
)

const dateLayout = "2006-01-02"

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func formatDate(date *time.Time) *string {
	if date == nil {
		return nil
	}
	formatted := date.Format(dateLayout)
	return &formatted
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	id, err := s.store.CreateCategory(r.Context(), req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "Category added successfully",
		"category_id": id,
	})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	entries := make([]map[string]any, 0, len(categories))
	for _, category := range categories {
		entries = append(entries, map[string]any{
			"category_id": category.ID,
			"name":        category.Name,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": entries})
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_category_id")
		return
	}
	category, err := s.store.GetCategory(r.Context(), categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "category_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category_id": category.ID,
		"name":        category.Name,
	})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_category_id")
		return
	}
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	updated, err := s.store.UpdateCategory(r.Context(), categoryID, req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "category_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category updated successfully"})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_category_id")
		return
	}
	deleted, err := s.store.DeleteCategory(r.Context(), categoryID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "category_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}

type workshopSummary struct {
	ID                int64   `json:"workshop_id"`
	CategoryID        int64   `json:"category_id"`
	CategoryName      string  `json:"category_name"`
	Name              string  `json:"name"`
	Description       *string `json:"description"`
	DurationDays      int     `json:"duration_days"`
	MinutesPerSession int     `json:"minutes_per_session"`
	SessionsPerDay    int     `json:"sessions_per_day"`
	Capacity          int     `json:"capacity"`
	Fee               float64 `json:"fee"`
	Instructor        *string `json:"instructor"`
	Status            string  `json:"status"`
	WorkshopImage     *string `json:"workshop_image"`
	StartDate         *string `json:"start_date"`
}

func summarizeWorkshop(workshop model.Workshop) workshopSummary {
	return workshopSummary{
		ID:                workshop.ID,
		CategoryID:        workshop.CategoryID,
		CategoryName:      workshop.CategoryName,
		Name:              workshop.Name,
		Description:       workshop.Description,
		DurationDays:      workshop.DurationDays,
		MinutesPerSession: workshop.MinutesPerSession,
		SessionsPerDay:    workshop.SessionsPerDay,
		Capacity:          workshop.Capacity,
		Fee:               workshop.Fee,
		Instructor:        workshop.Instructor,
		Status:            workshop.Status,
		WorkshopImage:     workshop.WorkshopImage,
		StartDate:         formatDate(workshop.StartDate),
	}
}

type createWorkshopRequest struct {
	CategoryID        int64   `json:"category_id"`
	Name              string  `json:"name"`
	Description       *string `json:"description"`
	DurationDays      int     `json:"duration_days"`
	MinutesPerSession int     `json:"minutes_per_session"`
	SessionsPerDay    int     `json:"sessions_per_day"`
	Capacity          int     `json:"capacity"`
	Fee               float64 `json:"fee"`
	Instructor        *string `json:"instructor"`
	Status            string  `json:"status"`
	WorkshopImage     *string `json:"workshop_image"`
	StartDate         *string `json:"start_date"`
}

func (s *Server) handleCreateWorkshop(w http.ResponseWriter, r *http.Request) {
	var req createWorkshopRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_start_date")
		return
	}

	category, err := s.store.GetCategory(r.Context(), req.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusBadRequest, "invalid_category_id")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	status := req.Status
	if status == "" {
		status = "Upcoming"
	}
	id, err := s.store.CreateWorkshop(r.Context(), repository.NewWorkshop{
		CategoryID:        category.ID,
		CategoryName:      category.Name,
		Name:              req.Name,
		Description:       req.Description,
		DurationDays:      req.DurationDays,
		MinutesPerSession: req.MinutesPerSession,
		SessionsPerDay:    req.SessionsPerDay,
		Capacity:          req.Capacity,
		Fee:               req.Fee,
		Instructor:        req.Instructor,
		Status:            status,
		WorkshopImage:     req.WorkshopImage,
		StartDate:         startDate,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "Workshop added successfully",
		"workshop_id": id,
	})
}

func (s *Server) handleListWorkshops(w http.ResponseWriter, r *http.Request) {
	workshops, err := s.store.ListWorkshops(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	entries := make([]workshopSummary, 0, len(workshops))
	for _, workshop := range workshops {
		entries = append(entries, summarizeWorkshop(workshop))
	}
	writeJSON(w, http.StatusOK, map[string]any{"workshops": entries})
}

func (s *Server) handleGetWorkshop(w http.ResponseWriter, r *http.Request) {
	workshopID, err := pathID(r, "workshopID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_workshop_id")
		return
	}
	workshop, err := s.store.GetWorkshop(r.Context(), workshopID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "workshop_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, summarizeWorkshop(workshop))
}

type updateWorkshopRequest struct {
	Name              *string  `json:"name"`
	Description       *string  `json:"description"`
	DurationDays      *int     `json:"duration_days"`
	MinutesPerSession *int     `json:"minutes_per_session"`
	SessionsPerDay    *int     `json:"sessions_per_day"`
	Capacity          *int     `json:"capacity"`
	Fee               *float64 `json:"fee"`
	Instructor        *string  `json:"instructor"`
	Status            *string  `json:"status"`
	WorkshopImage     *string  `json:"workshop_image"`
	StartDate         *string  `json:"start_date"`
}

func (s *Server) handleUpdateWorkshop(w http.ResponseWriter, r *http.Request) {
	workshopID, err := pathID(r, "workshopID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_workshop_id")
		return
	}
	var req updateWorkshopRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_start_date")
		return
	}

	updated, err := s.store.UpdateWorkshop(r.Context(), workshopID, repository.WorkshopUpdate{
		Name:              req.Name,
		Description:       req.Description,
		DurationDays:      req.DurationDays,
		MinutesPerSession: req.MinutesPerSession,
		SessionsPerDay:    req.SessionsPerDay,
		Capacity:          req.Capacity,
		Fee:               req.Fee,
		Instructor:        req.Instructor,
		Status:            req.Status,
		WorkshopImage:     req.WorkshopImage,
		StartDate:         startDate,
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
		writeError(w, http.StatusNotFound, "workshop_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Workshop updated successfully"})
}

func (s *Server) handleDeleteWorkshop(w http.ResponseWriter, r *http.Request) {
	workshopID, err := pathID(r, "workshopID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_workshop_id")
		return
	}
	deleted, err := s.store.DeleteWorkshop(r.Context(), workshopID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "workshop_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Workshop deleted successfully"})
}
