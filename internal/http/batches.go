package http

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"

	"seti/workshop/internal/model"
	"seti/workshop/internal/repository"
)

type batchSummary struct {
	ID            int64   `json:"id"`
	WorkshopID    int64   `json:"workshop_id"`
	CategoryID    int64   `json:"category_id"`
	WorkshopName  string  `json:"workshop_name"`
	BatchName     *string `json:"batch_name"`
	Instructor    *string `json:"instructor"`
	Status        string  `json:"status"`
	StartDate     *string `json:"start_date"`
	StartTime     *string `json:"start_time"`
	EndTime       *string `json:"end_time"`
	Location      *string `json:"location"`
	ZoomLink      *string `json:"zoom_link"`
	ZoomMeetingID *string `json:"zoom_meeting_id"`
	ZoomPassword  *string `json:"zoom_password"`
}

func summarizeBatch(batch model.Batch) batchSummary {
	return batchSummary{
		ID:            batch.ID,
		WorkshopID:    batch.WorkshopID,
		CategoryID:    batch.CategoryID,
		WorkshopName:  batch.WorkshopName,
		BatchName:     batch.BatchName,
		Instructor:    batch.Instructor,
		Status:        batch.Status,
		StartDate:     formatDate(batch.StartDate),
		StartTime:     batch.StartTime,
		EndTime:       batch.EndTime,
		Location:      batch.Location,
		ZoomLink:      batch.ZoomLink,
		ZoomMeetingID: batch.ZoomMeetingID,
		ZoomPassword:  batch.ZoomPassword,
	}
}

type createBatchRequest struct {
	WorkshopID    int64   `json:"workshop_id"`
	BatchName     *string `json:"batch_name"`
	Instructor    *string `json:"instructor"`
	Status        string  `json:"status"`
	StartDate     *string `json:"start_date"`
	StartTime     *string `json:"start_time"`
	EndTime       *string `json:"end_time"`
	Location      *string `json:"location"`
	ZoomLink      *string `json:"zoom_link"`
	ZoomMeetingID *string `json:"zoom_meeting_id"`
	ZoomPassword  *string `json:"zoom_password"`
}

func (s *Server) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	var req createBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_start_date")
		return
	}

	workshop, err := s.store.GetWorkshop(r.Context(), req.WorkshopID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusBadRequest, "invalid_workshop_id")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	status := req.Status
	if status == "" {
		status = "Upcoming"
	}
	id, err := s.store.CreateBatch(r.Context(), repository.NewBatch{
		WorkshopID:    workshop.ID,
		CategoryID:    workshop.CategoryID,
		WorkshopName:  workshop.Name,
		BatchName:     req.BatchName,
		Instructor:    req.Instructor,
		Status:        status,
		StartDate:     startDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Location:      req.Location,
		ZoomLink:      req.ZoomLink,
		ZoomMeetingID: req.ZoomMeetingID,
		ZoomPassword:  req.ZoomPassword,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Batch added successfully",
		"batch_id": id,
	})
}

func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := s.store.ListBatches(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	entries := make([]batchSummary, 0, len(batches))
	for _, batch := range batches {
		entries = append(entries, summarizeBatch(batch))
	}
	writeJSON(w, http.StatusOK, map[string]any{"batches": entries})
}

func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	batchID, err := pathID(r, "batchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_batch_id")
		return
	}
	batch, err := s.store.GetBatch(r.Context(), batchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "batch_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, summarizeBatch(batch))
}

type updateBatchRequest struct {
	BatchName     *string `json:"batch_name"`
	Instructor    *string `json:"instructor"`
	Status        *string `json:"status"`
	StartDate     *string `json:"start_date"`
	StartTime     *string `json:"start_time"`
	EndTime       *string `json:"end_time"`
	Location      *string `json:"location"`
	ZoomLink      *string `json:"zoom_link"`
	ZoomMeetingID *string `json:"zoom_meeting_id"`
	ZoomPassword  *string `json:"zoom_password"`
}

func (s *Server) handleUpdateBatch(w http.ResponseWriter, r *http.Request) {
	batchID, err := pathID(r, "batchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_batch_id")
		return
	}
	var req updateBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_start_date")
		return
	}

	updated, err := s.store.UpdateBatch(r.Context(), batchID, repository.BatchUpdate{
		BatchName:     req.BatchName,
		Instructor:    req.Instructor,
		Status:        req.Status,
		StartDate:     startDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Location:      req.Location,
		ZoomLink:      req.ZoomLink,
		ZoomMeetingID: req.ZoomMeetingID,
		ZoomPassword:  req.ZoomPassword,
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
		writeError(w, http.StatusNotFound, "batch_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Batch updated successfully"})
}

func (s *Server) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	batchID, err := pathID(r, "batchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_batch_id")
		return
	}
	deleted, err := s.store.DeleteBatch(r.Context(), batchID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "batch_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Batch deleted successfully"})
}
