package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"seti/workshop/internal/crypto"
	"seti/workshop/internal/model"
	"seti/workshop/internal/repository"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type registerStudentRequest struct {
	FirstName       string  `json:"first_name"`
	LastName        *string `json:"last_name"`
	Email           string  `json:"email"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
	EmailConsent    bool    `json:"email_consent"`
	Profession      *string `json:"profession"`
	Designation     *string `json:"designation"`
	Gender          *string `json:"gender"`
}

func (s *Server) registerStudent(w http.ResponseWriter, r *http.Request, req registerStudentRequest) (int64, bool) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.FirstName == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return 0, false
	}
	if req.Password != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "password_mismatch")
		return 0, false
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return 0, false
	}

	id, err := s.store.CreateStudent(r.Context(), repository.NewStudent{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		Password:     hash,
		EmailConsent: req.EmailConsent,
		Profession:   req.Profession,
		Designation:  req.Designation,
		Gender:       req.Gender,
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusConflict, "student_already_exists")
			return 0, false
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return 0, false
	}
	return id, true
}

func (s *Server) handleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req registerStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	id, ok := s.registerStudent(w, r, req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":    "Student registered successfully",
		"student_id": id,
	})
}

func (s *Server) handleAdminRegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req registerStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	id, ok := s.registerStudent(w, r, req)
	if !ok {
		return
	}
	admin := adminFromContext(r.Context())
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":    "Student registered successfully",
		"student_id": id,
		"admin_id":   admin.ID,
	})
}

type studentOverviewEntry struct {
	studentSummary
	EnrollmentID     *int64  `json:"enrollment_id"`
	EnrollmentStatus *string `json:"enrollment_status"`
	EnrollmentDate   *string `json:"enrollment_date"`
	BatchID          *int64  `json:"batch_id"`
	BatchName        *string `json:"batch_name"`
	BatchStatus      *string `json:"batch_status"`
	WorkshopID       *int64  `json:"workshop_id"`
	WorkshopName     *string `json:"workshop_name"`
}

func summarizeOverview(row model.StudentOverview) studentOverviewEntry {
	entry := studentOverviewEntry{
		studentSummary:   summarizeStudent(row.Student),
		EnrollmentID:     row.EnrollmentID,
		EnrollmentStatus: row.EnrollmentStatus,
		BatchID:          row.BatchID,
		BatchName:        row.BatchName,
		BatchStatus:      row.BatchStatus,
		WorkshopID:       row.WorkshopID,
		WorkshopName:     row.WorkshopName,
	}
	if row.EnrollmentDate != nil {
		formatted := row.EnrollmentDate.UTC().Format("2006-01-02 15:04:05")
		entry.EnrollmentDate = &formatted
	}
	return entry
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ListStudentOverviews(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	entries := make([]studentOverviewEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, summarizeOverview(row))
	}
	writeJSON(w, http.StatusOK, map[string]any{"students": entries})
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathID(r, "studentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_student_id")
		return
	}
	row, err := s.store.GetStudentOverview(r.Context(), studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "student_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, summarizeOverview(row))
}

type studentUpdateRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	EmailConsent *bool   `json:"email_consent"`
	Profession   *string `json:"profession"`
	Designation  *string `json:"designation"`
	Gender       *string `json:"gender"`
}

func (req studentUpdateRequest) toUpdate() repository.StudentUpdate {
	return repository.StudentUpdate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		EmailConsent: req.EmailConsent,
		Profession:   req.Profession,
		Designation:  req.Designation,
		Gender:       req.Gender,
	}
}

func (s *Server) applyStudentUpdate(w http.ResponseWriter, r *http.Request, studentID int64, update repository.StudentUpdate) (model.Student, bool) {
	student, err := s.store.UpdateStudent(r.Context(), studentID, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoFields):
			writeError(w, http.StatusBadRequest, "no_fields")
		case errors.Is(err, pgx.ErrNoRows):
			writeError(w, http.StatusNotFound, "student_not_found")
		case isUniqueViolation(err):
			writeError(w, http.StatusConflict, "student_already_exists")
		default:
			writeError(w, http.StatusInternalServerError, "server_error")
		}
		return model.Student{}, false
	}
	return student, true
}

func (s *Server) handleStudentSelfUpdate(w http.ResponseWriter, r *http.Request) {
	var req studentUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	// Consent is admin-managed; students cannot flip it here.
	req.EmailConsent = nil

	student := studentFromContext(r.Context())
	updated, ok := s.applyStudentUpdate(w, r, student.ID, req.toUpdate())
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"student": summarizeStudent(updated),
	})
}

func (s *Server) handleAdminUpdateStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathID(r, "studentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_student_id")
		return
	}
	var req studentUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	// Email changes stay self-service; admins edit the profile fields.
	req.Email = nil

	updated, ok := s.applyStudentUpdate(w, r, studentID, req.toUpdate())
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Student updated successfully",
		"student": summarizeStudent(updated),
	})
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathID(r, "studentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_student_id")
		return
	}
	deleted, err := s.store.DeleteStudent(r.Context(), studentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "student_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Student deleted successfully",
		"student_id": studentID,
	})
}

func (s *Server) handleDeleteIncompleteStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathID(r, "studentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_student_id")
		return
	}
	deleted, err := s.store.DeleteIncompleteStudent(r.Context(), studentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "student_not_found_or_completed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Incomplete profile student deleted successfully",
		"student_id": studentID,
	})
}
