package http

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// enrollmentStatus derives the enrollment status from the workshop and
// batch statuses. ok is false for every combination enrollment is closed
// for.
func enrollmentStatus(workshopStatus, batchStatus string) (string, bool) {
	switch {
	case workshopStatus == "Completed" || workshopStatus == "Cancelled":
		return "", false
	case batchStatus == "Completed" || batchStatus == "Cancelled":
		return "", false
	case workshopStatus == "Active" && batchStatus == "Active":
		return "Active", true
	case workshopStatus == "Upcoming" && batchStatus == "Upcoming":
		return "Upcoming", true
	default:
		return "", false
	}
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	workshopID, err := pathID(r, "workshopID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_workshop_id")
		return
	}
	batchID, err := pathID(r, "batchID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_batch_id")
		return
	}
	student := studentFromContext(r.Context())

	workshop, err := s.store.GetWorkshop(r.Context(), workshopID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "workshop_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
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

	status, ok := enrollmentStatus(workshop.Status, batch.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "enrollment_closed")
		return
	}

	enrolled, err := s.store.IsEnrolled(r.Context(), student.ID, workshopID, batchID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if enrolled {
		writeError(w, http.StatusBadRequest, "already_enrolled")
		return
	}

	id, err := s.store.CreateEnrollment(r.Context(), student.ID, workshopID, batchID, status)
	if err != nil {
		// The unique constraint backs the check above under races.
		if isUniqueViolation(err) {
			writeError(w, http.StatusBadRequest, "already_enrolled")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":       "Enrolled successfully",
		"enrollment_id": id,
		"workshop":      workshop.Name,
		"batch":         batch.BatchName,
		"status":        status,
	})
}

func (s *Server) handleMyEnrollments(w http.ResponseWriter, r *http.Request) {
	student := studentFromContext(r.Context())
	enrollments, err := s.store.ListStudentEnrollments(r.Context(), student.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	entries := make([]map[string]any, 0, len(enrollments))
	for _, enrollment := range enrollments {
		entries = append(entries, map[string]any{
			"workshop_name":   enrollment.WorkshopName,
			"batch_name":      enrollment.BatchName,
			"status":          enrollment.Status,
			"enrollment_date": enrollment.EnrollmentDate,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"enrollments": entries})
}
