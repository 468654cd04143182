package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"

	"seti/workshop/internal/model"
	"seti/workshop/internal/repository"
)

type clarityCallSummary struct {
	ID            int64     `json:"id"`
	StudentID     int64     `json:"student_id"`
	MentorName    string    `json:"mentor_name"`
	CallStatus    string    `json:"call_status"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Notes         *string   `json:"notes"`
}

func summarizeClarityCall(call model.ClarityCall) clarityCallSummary {
	return clarityCallSummary{
		ID:            call.ID,
		StudentID:     call.StudentID,
		MentorName:    call.MentorName,
		CallStatus:    call.CallStatus,
		ScheduledDate: call.ScheduledDate,
		Notes:         call.Notes,
	}
}

type createClarityCallRequest struct {
	StudentID     int64     `json:"student_id"`
	MentorName    string    `json:"mentor_name"`
	CallStatus    string    `json:"call_status"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Notes         *string   `json:"notes"`
}

func (s *Server) handleCreateClarityCall(w http.ResponseWriter, r *http.Request) {
	var req createClarityCallRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.StudentID == 0 || req.MentorName == "" || req.CallStatus == "" || req.ScheduledDate.IsZero() {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	if _, err := s.store.GetStudentByID(r.Context(), req.StudentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "student_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	id, err := s.store.CreateClarityCall(r.Context(), repository.NewClarityCall{
		StudentID:     req.StudentID,
		MentorName:    req.MentorName,
		CallStatus:    req.CallStatus,
		ScheduledDate: req.ScheduledDate,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Clarity call scheduled successfully",
		"call_id": id,
	})
}

type updateClarityCallRequest struct {
	MentorName    *string    `json:"mentor_name"`
	CallStatus    *string    `json:"call_status"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Notes         *string    `json:"notes"`
}

func (s *Server) handleUpdateClarityCall(w http.ResponseWriter, r *http.Request) {
	callID, err := pathID(r, "callID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_call_id")
		return
	}
	var req updateClarityCallRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	call, err := s.store.UpdateClarityCall(r.Context(), callID, repository.ClarityCallUpdate{
		MentorName:    req.MentorName,
		CallStatus:    req.CallStatus,
		ScheduledDate: req.ScheduledDate,
		Notes:         req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoFields):
			writeError(w, http.StatusBadRequest, "no_fields")
		case errors.Is(err, pgx.ErrNoRows):
			writeError(w, http.StatusNotFound, "call_not_found")
		default:
			writeError(w, http.StatusInternalServerError, "server_error")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Clarity call updated successfully",
		"call":    summarizeClarityCall(call),
	})
}

func (s *Server) handleListClarityCalls(w http.ResponseWriter, r *http.Request) {
	calls, err := s.store.ListClarityCalls(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	entries := make([]clarityCallSummary, 0, len(calls))
	for _, call := range calls {
		entries = append(entries, summarizeClarityCall(call))
	}
	writeJSON(w, http.StatusOK, map[string]any{"clarity_calls": entries})
}

func (s *Server) handleDeleteClarityCall(w http.ResponseWriter, r *http.Request) {
	callID, err := pathID(r, "callID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_call_id")
		return
	}
	deleted, err := s.store.DeleteClarityCall(r.Context(), callID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "call_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Clarity call deleted successfully"})
}

func (s *Server) handleClarityCallStatus(w http.ResponseWriter, r *http.Request) {
	student := studentFromContext(r.Context())
	status, found, err := s.store.LatestClarityCallStatus(r.Context(), student.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !found {
		status = "Not Scheduled"
	}
	writeJSON(w, http.StatusOK, map[string]string{"clarity_call_status": status})
}

func (s *Server) handleClarityCallHistory(w http.ResponseWriter, r *http.Request) {
	student := studentFromContext(r.Context())
	calls, err := s.store.ListStudentClarityCalls(r.Context(), student.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	entries := make([]clarityCallSummary, 0, len(calls))
	for _, call := range calls {
		entries = append(entries, summarizeClarityCall(call))
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": entries})
}

func (s *Server) handlePrecallQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.store.ListClarityQuestions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if len(questions) == 0 {
		writeError(w, http.StatusNotFound, "no_questions")
		return
	}
	entries := make([]map[string]any, 0, len(questions))
	for _, question := range questions {
		entries = append(entries, map[string]any{
			"id":       question.ID,
			"question": question.Question,
			"options":  question.Options,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": entries})
}

type precallAnswer struct {
	QuestionID int64  `json:"question_id"`
	Answer     string `json:"answer"`
}

type submitPrecallRequest struct {
	Responses []precallAnswer `json:"responses"`
}

func validAnswer(answer string) bool {
	switch answer {
	case "A", "B", "C", "D":
		return true
	default:
		return false
	}
}

func (s *Server) handleSubmitPrecallResponses(w http.ResponseWriter, r *http.Request) {
	var req submitPrecallRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if len(req.Responses) == 0 {
		writeError(w, http.StatusBadRequest, "no_responses")
		return
	}
	for _, response := range req.Responses {
		if !validAnswer(response.Answer) {
			writeError(w, http.StatusBadRequest, "invalid_answer")
			return
		}
	}

	student := studentFromContext(r.Context())
	for _, response := range req.Responses {
		exists, err := s.store.ClarityQuestionExists(r.Context(), response.QuestionID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
		if !exists {
			writeError(w, http.StatusBadRequest, "unknown_question")
			return
		}
		if err := s.store.SaveClarityResponse(r.Context(), student.ID, response.QuestionID, response.Answer); err != nil {
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Responses saved successfully"})
}

func (s *Server) handlePrecallResponses(w http.ResponseWriter, r *http.Request) {
	student := studentFromContext(r.Context())
	answers, err := s.store.ListClarityResponses(r.Context(), student.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	entries := make([]map[string]string, 0, len(answers))
	for _, answer := range answers {
		entries = append(entries, map[string]string{
			"question": answer.Question,
			"answer":   answer.Answer,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"responses": entries})
}
