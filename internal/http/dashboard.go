package http

import "net/http"

func (s *Server) handleStudentDashboard(w http.ResponseWriter, r *http.Request) {
	student := studentFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to your dashboard, " + student.FirstName,
		"student": summarizeStudent(*student),
	})
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	admin := adminFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to the admin dashboard, " + admin.FirstName,
		"admin": adminSummary{
			ID:        admin.ID,
			FirstName: admin.FirstName,
			LastName:  admin.LastName,
			Email:     admin.Email,
		},
	})
}
