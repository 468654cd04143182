package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"seti/workshop/internal/auth"
	"seti/workshop/internal/config"
	"seti/workshop/internal/mailer"
	"seti/workshop/internal/model"
	"seti/workshop/internal/oauth"
	"seti/workshop/internal/otp"
	"seti/workshop/internal/repository"
)

type Server struct {
	cfg       config.Config
	store     *repository.Store
	blacklist *auth.Blacklist
	codes     otp.Store
	states    otp.Store
	mail      mailer.Sender
	google    *oauth.GoogleVerifier
	microsoft *oauth.MicrosoftClient
	logger    *slog.Logger
}

func NewServer(cfg config.Config, store *repository.Store, codes, states otp.Store, mail mailer.Sender, logger *slog.Logger) *Server {
	return &Server{
		cfg:       cfg,
		store:     store,
		blacklist: auth.NewBlacklist(store, cfg.JWTSecret),
		codes:     codes,
		states:    states,
		mail:      mail,
		google:    &oauth.GoogleVerifier{ClientID: cfg.GoogleClientID},
		microsoft: &oauth.MicrosoftClient{
			ClientID:     cfg.MicrosoftClientID,
			ClientSecret: cfg.MicrosoftClientSecret,
			TenantID:     cfg.MicrosoftTenantID,
			RedirectURI:  cfg.MicrosoftRedirectURI,
		},
		logger: logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/student/login", s.handleStudentLogin)
	r.Post("/auth/admin/login", s.handleAdminLogin)
	r.With(s.requireStudent).Get("/auth/student/profile", s.handleStudentProfile)
	r.With(s.requireAdmin).Get("/auth/admin/profile", s.handleAdminProfile)
	r.With(s.requireStudent).Post("/auth/student/logout", s.handleStudentLogout)
	r.With(s.requireAdmin).Post("/auth/admin/logout", s.handleAdminLogout)
	r.With(s.requireStudent).Put("/auth/student/update", s.handleStudentSelfUpdate)

	r.Post("/auth/student/send_otp", s.handleSendOTP)
	r.Post("/auth/student/verify_otp", s.handleVerifyOTP)

	r.Post("/auth/google/login", s.handleGoogleLogin)
	r.Get("/auth/microsoft/login", s.handleMicrosoftLogin)
	r.Get("/auth/microsoft/callback", s.handleMicrosoftCallback)

	r.Post("/students/register", s.handleRegisterStudent)

	r.Route("/admin/students", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Post("/register", s.handleAdminRegisterStudent)
		r.Get("/", s.handleListStudents)
		r.Get("/{studentID}", s.handleGetStudent)
		r.Put("/update/{studentID}", s.handleAdminUpdateStudent)
		r.Delete("/delete/{studentID}", s.handleDeleteStudent)
		r.Delete("/delete_incomplete/{studentID}", s.handleDeleteIncompleteStudent)
	})

	r.Route("/categories", func(r chi.Router) {
		r.With(s.requireAdmin).Post("/add", s.handleCreateCategory)
		r.Get("/", s.handleListCategories)
		r.Get("/{categoryID}", s.handleGetCategory)
		r.With(s.requireAdmin).Put("/{categoryID}", s.handleUpdateCategory)
		r.With(s.requireAdmin).Delete("/{categoryID}", s.handleDeleteCategory)
	})

	r.Route("/workshops", func(r chi.Router) {
		r.With(s.requireAdmin).Post("/add", s.handleCreateWorkshop)
		r.Get("/", s.handleListWorkshops)
		r.Get("/{workshopID}", s.handleGetWorkshop)
		r.With(s.requireAdmin).Put("/{workshopID}", s.handleUpdateWorkshop)
		r.With(s.requireAdmin).Delete("/{workshopID}", s.handleDeleteWorkshop)
	})

	r.Route("/batches", func(r chi.Router) {
		r.With(s.requireAdmin).Post("/add", s.handleCreateBatch)
		r.Get("/", s.handleListBatches)
		r.Get("/{batchID}", s.handleGetBatch)
		r.With(s.requireAdmin).Put("/{batchID}", s.handleUpdateBatch)
		r.With(s.requireAdmin).Delete("/{batchID}", s.handleDeleteBatch)
	})

	r.Route("/quotes", func(r chi.Router) {
		r.With(s.requireAdmin).Post("/add", s.handleCreateQuote)
		r.Get("/", s.handleListQuotes)
		r.Get("/{quoteID}", s.handleGetQuote)
		r.With(s.requireAdmin).Put("/{quoteID}", s.handleUpdateQuote)
		r.With(s.requireAdmin).Delete("/{quoteID}", s.handleDeleteQuote)
	})

	r.Route("/auth/resources", func(r chi.Router) {
		r.With(s.requireAdmin).Post("/create", s.handleCreateResource)
		r.With(s.requireAdmin).Put("/update/{resourceID}", s.handleUpdateResource)
		r.With(s.requireAdmin).Get("/all_resources", s.handleListAllResources)
		r.With(s.requireAdmin).Delete("/delete/{resourceID}", s.handleDeleteResource)
		r.With(s.requireStudent).Get("/", s.handleStudentResources)
		r.With(s.requireStudent).Get("/categories", s.handleResourceCategories)
	})

	r.Route("/enrollments", func(r chi.Router) {
		r.Use(s.requireStudent)
		r.Post("/enroll/{workshopID}/{batchID}", s.handleEnroll)
		r.Get("/my-enrollments", s.handleMyEnrollments)
	})

	r.Route("/student/clarity_call", func(r chi.Router) {
		r.Use(s.requireStudent)
		r.Get("/clarity_call_status", s.handleClarityCallStatus)
		r.Get("/history", s.handleClarityCallHistory)
		r.Get("/precall_questionnaire", s.handlePrecallQuestions)
		r.Post("/submit_precall_questionnaire", s.handleSubmitPrecallResponses)
		r.Get("/precall_questionnaire_responses", s.handlePrecallResponses)
	})

	r.Route("/admin/clarity_call", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Post("/create", s.handleCreateClarityCall)
		r.Put("/update/{callID}", s.handleUpdateClarityCall)
		r.Get("/", s.handleListClarityCalls)
		r.Delete("/delete/{callID}", s.handleDeleteClarityCall)
	})

	r.With(s.requireStudent).Get("/student-dashboard", s.handleStudentDashboard)
	r.With(s.requireAdmin).Get("/admin-dashboard", s.handleAdminDashboard)

	return r
}

type studentKey struct{}
type adminKey struct{}
type tokenKey struct{}

func studentFromContext(ctx context.Context) *model.Student {
	student, _ := ctx.Value(studentKey{}).(*model.Student)
	return student
}

func adminFromContext(ctx context.Context) *model.Admin {
	admin, _ := ctx.Value(adminKey{}).(*model.Admin)
	return admin
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// checkToken runs the shared guard chain and returns the claims on
// success. It has already written the error response when it returns nil.
func (s *Server) checkToken(w http.ResponseWriter, r *http.Request) (*auth.Claims, string) {
	token, err := auth.ExtractToken(r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return nil, ""
	}

	revoked, err := s.blacklist.IsRevoked(r.Context(), token)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return nil, ""
	}
	if revoked {
		writeError(w, http.StatusUnauthorized, "token_revoked")
		return nil, ""
	}

	claims, err := auth.ParseToken(s.cfg.JWTSecret, token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			writeError(w, http.StatusUnauthorized, "token_expired")
			return nil, ""
		}
		writeError(w, http.StatusUnauthorized, "invalid_token")
		return nil, ""
	}
	return claims, token
}

func (s *Server) requireStudent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, token := s.checkToken(w, r)
		if claims == nil {
			return
		}
		if claims.Role != auth.RoleStudent {
			writeError(w, http.StatusForbidden, "students_only")
			return
		}

		student, err := s.store.GetStudentByID(r.Context(), claims.SubjectID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				writeError(w, http.StatusNotFound, "student_not_found")
				return
			}
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}

		ctx := context.WithValue(r.Context(), studentKey{}, &student)
		ctx = context.WithValue(ctx, tokenKey{}, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, token := s.checkToken(w, r)
		if claims == nil {
			return
		}
		if claims.Role != auth.RoleAdmin {
			writeError(w, http.StatusForbidden, "admins_only")
			return
		}

		admin, err := s.store.GetAdminByID(r.Context(), claims.SubjectID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				writeError(w, http.StatusNotFound, "admin_not_found")
				return
			}
			writeError(w, http.StatusInternalServerError, "server_error")
			return
		}

		ctx := context.WithValue(r.Context(), adminKey{}, &admin)
		ctx = context.WithValue(ctx, tokenKey{}, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
