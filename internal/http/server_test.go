package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"seti/workshop/internal/auth"
	"seti/workshop/internal/config"
	"seti/workshop/internal/crypto"
	"seti/workshop/internal/db"
	"seti/workshop/internal/mailer"
	"seti/workshop/internal/oauth"
	"seti/workshop/internal/otp"
	"seti/workshop/internal/repository"
)

func openTestDB(t *testing.T) *pgxpool.Pool {
	url := os.Getenv("WORKSHOP_TEST_DB")
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		t.Skip("WORKSHOP_TEST_DB or DATABASE_URL not set")
		return nil
	}
	if err := db.Migrate(url, "up"); err != nil {
		t.Skipf("migrations failed: %v", err)
		return nil
	}
	pool, err := db.NewPool(context.Background(), url)
	if err != nil {
		t.Skipf("db unavailable: %v", err)
		return nil
	}
	return pool
}

func testConfig() config.Config {
	return config.Config{
		HTTPAddr:  ":0",
		JWTSecret: "test-secret",
		JWTIssuer: "test-issuer",
		TokenTTL:  15 * time.Minute,
		OTPTTL:    10 * time.Minute,
	}
}

func newTestServer(pool *pgxpool.Pool) (*Server, *repository.Store) {
	cfg := testConfig()
	store := repository.NewStore(pool)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewServer(cfg, store,
		otp.NewMemoryStore(2*cfg.OTPTTL),
		otp.NewMemoryStore(cfg.OTPTTL),
		&mailer.LogSender{Logger: logger},
		logger,
	)
	return server, store
}

func mustStudentToken(t *testing.T, studentID int64) string {
	t.Helper()
	cfg := testConfig()
	token, err := auth.NewAccessToken(cfg.JWTSecret, cfg.JWTIssuer, studentID, auth.RoleStudent, cfg.TokenTTL)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	return token
}

func mustAdminToken(t *testing.T, adminID int64) string {
	t.Helper()
	cfg := testConfig()
	token, err := auth.NewAccessToken(cfg.JWTSecret, cfg.JWTIssuer, adminID, auth.RoleAdmin, cfg.TokenTTL)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	return token
}

func seedAdmin(t *testing.T, store *repository.Store) int64 {
	t.Helper()
	hash, err := crypto.HashPassword("dev-password")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	email := fmt.Sprintf("admin.%d@example.local", time.Now().UnixNano())
	id, err := store.CreateAdmin(context.Background(), "Test", nil, email, hash)
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return id
}

func doReq(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode error: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("http error: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode error: %v", err)
	}
}

func TestStudentRegistrationAndLogin(t *testing.T) {
	pool := openTestDB(t)
	if pool == nil {
		return
	}
	defer pool.Close()

	server, _ := newTestServer(pool)
	app := httptest.NewServer(server.Router())
	defer app.Close()

	email := fmt.Sprintf("student.%d@example.local", time.Now().UnixNano())
	register := map[string]interface{}{
		"first_name":       "Alice",
		"email":            email,
		"password":         "dev-password",
		"confirm_password": "dev-password",
	}
	resp := doReq(t, http.MethodPost, app.URL+"/students/register", "", register)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Mismatched confirmation is rejected.
	register["confirm_password"] = "other"
	register["email"] = "another." + email
	resp = doReq(t, http.MethodPost, app.URL+"/students/register", "", register)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("mismatch: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Duplicate email conflicts.
	register["confirm_password"] = "dev-password"
	register["email"] = email
	resp = doReq(t, http.MethodPost, app.URL+"/students/register", "", register)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Wrong password.
	resp = doReq(t, http.MethodPost, app.URL+"/auth/student/login", "", map[string]string{
		"email":    email,
		"password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Correct password yields a token that opens the profile.
	resp = doReq(t, http.MethodPost, app.URL+"/auth/student/login", "", map[string]string{
		"email":    email,
		"password": "dev-password",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &login)
	if login.Token == "" {
		t.Fatal("empty token")
	}

	resp = doReq(t, http.MethodGet, app.URL+"/auth/student/profile", login.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", resp.StatusCode)
	}
	var profile struct {
		Email string `json:"email"`
	}
	decodeBody(t, resp, &profile)
	if profile.Email != email {
		t.Fatalf("profile email %q, want %q", profile.Email, email)
	}

	resp = doReq(t, http.MethodGet, app.URL+"/auth/student/profile", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLegacyPasswordUpgradedOnLogin(t *testing.T) {
	pool := openTestDB(t)
	if pool == nil {
		return
	}
	defer pool.Close()

	server, store := newTestServer(pool)
	app := httptest.NewServer(server.Router())
	defer app.Close()

	email := fmt.Sprintf("legacy.%d@example.local", time.Now().UnixNano())
	id, err := store.CreateStudent(context.Background(), repository.NewStudent{
		FirstName: "Legacy",
		Email:     email,
		Password:  "plain-password",
	})
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}

	resp := doReq(t, http.MethodPost, app.URL+"/auth/student/login", "", map[string]string{
		"email":    email,
		"password": "plain-password",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("legacy login: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	student, err := store.GetStudentByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload student: %v", err)
	}
	if !crypto.IsBcryptHash(student.Password) {
		t.Fatal("stored password was not upgraded to bcrypt")
	}

	// The hash path works on the second login.
	resp = doReq(t, http.MethodPost, app.URL+"/auth/student/login", "", map[string]string{
		"email":    email,
		"password": "plain-password",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second login: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	pool := openTestDB(t)
	if pool == nil {
		return
	}
	defer pool.Close()

	server, store := newTestServer(pool)
	app := httptest.NewServer(server.Router())
	defer app.Close()

	email := fmt.Sprintf("logout.%d@example.local", time.Now().UnixNano())
	id, err := store.CreateStudent(context.Background(), repository.NewStudent{
		FirstName: "Léa",
		Email:     email,
	})
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}
	token := mustStudentToken(t, id)

	resp := doReq(t, http.MethodPost, app.URL+"/auth/student/logout", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doReq(t, http.MethodGet, app.URL+"/auth/student/profile", token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("revoked token: expected 401, got %d", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.Error != "token_revoked" {
		t.Fatalf("expected token_revoked, got %q", body.Error)
	}
}

func TestRoleGuards(t *testing.T) {
	pool := openTestDB(t)
	if pool == nil {
		return
	}
	defer pool.Close()

	server, store := newTestServer(pool)
	app := httptest.NewServer(server.Router())
	defer app.Close()

	email := fmt.Sprintf("guard.%d@example.local", time.Now().UnixNano())
	studentID, err := store.CreateStudent(context.Background(), repository.NewStudent{
		FirstName: "Guard",
		Email:     email,
	})
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}
	studentToken := mustStudentToken(t, studentID)

	// Student token on an admin route.
	resp := doReq(t, http.MethodGet, app.URL+"/admin/students/", studentToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Token for a vanished identity.
	ghostToken := mustStudentToken(t, 999999999)
	resp = doReq(t, http.MethodGet, app.URL+"/auth/student/profile", ghostToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Garbage token.
	resp = doReq(t, http.MethodGet, app.URL+"/auth/student/profile", "not-a-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCatalogAndEnrollmentFlow(t *testing.T) {
	pool := openTestDB(t)
	if pool == nil {
		return
	}
	defer pool.Close()

	server, store := newTestServer(pool)
	app := httptest.NewServer(server.Router())
	defer app.Close()

	adminID := seedAdmin(t, store)
	adminToken := mustAdminToken(t, adminID)

	resp := doReq(t, http.MethodPost, app.URL+"/categories/add", adminToken, map[string]string{
		"name": "Data Science",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("category: expected 201, got %d", resp.StatusCode)
	}
	var category struct {
		CategoryID int64 `json:"category_id"`
	}
	decodeBody(t, resp, &category)

	resp = doReq(t, http.MethodPost, app.URL+"/workshops/add", adminToken, map[string]interface{}{
		"category_id": category.CategoryID,
		"name":        "Intro to Pandas",
		"status":      "Active",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("workshop: expected 201, got %d", resp.StatusCode)
	}
	var workshop struct {
		WorkshopID int64 `json:"workshop_id"`
	}
	decodeBody(t, resp, &workshop)

	resp = doReq(t, http.MethodPost, app.URL+"/batches/add", adminToken, map[string]interface{}{
		"workshop_id": workshop.WorkshopID,
		"batch_name":  "Evening",
		"status":      "Active",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("batch: expected 201, got %d", resp.StatusCode)
	}
	var batch struct {
		BatchID int64 `json:"batch_id"`
	}
	decodeBody(t, resp, &batch)

	email := fmt.Sprintf("enroll.%d@example.local", time.Now().UnixNano())
	studentID, err := store.CreateStudent(context.Background(), repository.NewStudent{
		FirstName: "Enzo",
		Email:     email,
	})
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}
	studentToken := mustStudentToken(t, studentID)

	enrollURL := fmt.Sprintf("%s/enrollments/enroll/%d/%d", app.URL, workshop.WorkshopID, batch.BatchID)
	resp = doReq(t, http.MethodPost, enrollURL, studentToken, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("enroll: expected 201, got %d", resp.StatusCode)
	}
	var enrollment struct {
		Status string `json:"status"`
	}
	decodeBody(t, resp, &enrollment)
	if enrollment.Status != "Active" {
		t.Fatalf("expected Active enrollment, got %q", enrollment.Status)
	}

	// Enrolling twice fails.
	resp = doReq(t, http.MethodPost, enrollURL, studentToken, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate enroll: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doReq(t, http.MethodGet, app.URL+"/enrollments/my-enrollments", studentToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("my-enrollments: expected 200, got %d", resp.StatusCode)
	}
	var listing struct {
		Enrollments []struct {
			WorkshopName string `json:"workshop_name"`
		} `json:"enrollments"`
	}
	decodeBody(t, resp, &listing)
	if len(listing.Enrollments) != 1 || listing.Enrollments[0].WorkshopName != "Intro to Pandas" {
		t.Fatalf("unexpected enrollments %+v", listing.Enrollments)
	}

	// A Completed workshop closes enrollment.
	resp = doReq(t, http.MethodPut, fmt.Sprintf("%s/workshops/%d", app.URL, workshop.WorkshopID), adminToken, map[string]string{
		"status": "Completed",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("workshop update: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	email2 := fmt.Sprintf("enroll2.%d@example.local", time.Now().UnixNano())
	student2, err := store.CreateStudent(context.Background(), repository.NewStudent{
		FirstName: "Emma",
		Email:     email2,
	})
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}
	resp = doReq(t, http.MethodPost, enrollURL, mustStudentToken(t, student2), nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("closed enroll: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestOTPLoginFlow(t *testing.T) {
	pool := openTestDB(t)
	if pool == nil {
		return
	}
	defer pool.Close()

	server, store := newTestServer(pool)
	app := httptest.NewServer(server.Router())
	defer app.Close()

	email := fmt.Sprintf("otp.%d@example.local", time.Now().UnixNano())
	if _, err := store.CreateStudent(context.Background(), repository.NewStudent{
		FirstName: "Omar",
		Email:     email,
	}); err != nil {
		t.Fatalf("seed student: %v", err)
	}

	resp := doReq(t, http.MethodPost, app.URL+"/auth/student/send_otp", "", map[string]string{
		"identifier": email,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("send_otp: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The code is read straight from the store; delivery is a log line in
	// this configuration.
	entry, found, err := server.codes.Get(context.Background(), email)
	if err != nil || !found {
		t.Fatalf("code not stored: %v", err)
	}

	resp = doReq(t, http.MethodPost, app.URL+"/auth/student/verify_otp", "", map[string]string{
		"identifier": email,
		"otp":        "000000",
	})
	if entry.Code != "000000" && resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("wrong otp: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doReq(t, http.MethodPost, app.URL+"/auth/student/verify_otp", "", map[string]string{
		"identifier": email,
		"otp":        entry.Code,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify_otp: expected 200, got %d", resp.StatusCode)
	}
	var verify struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &verify)
	if verify.Token == "" {
		t.Fatal("empty token after otp verification")
	}

	// The code is single use.
	resp = doReq(t, http.MethodPost, app.URL+"/auth/student/verify_otp", "", map[string]string{
		"identifier": email,
		"otp":        entry.Code,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("reused otp: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Unknown identifiers are rejected before any code is issued.
	resp = doReq(t, http.MethodPost, app.URL+"/auth/student/send_otp", "", map[string]string{
		"identifier": "nobody@example.local",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown identifier: expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doReq(t, http.MethodPost, app.URL+"/auth/student/send_otp", "", map[string]string{
		"identifier": "not valid",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad identifier: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestExpiredOTPReportedOnVerify(t *testing.T) {
	pool := openTestDB(t)
	if pool == nil {
		return
	}
	defer pool.Close()

	cfg := testConfig()
	cfg.OTPTTL = 50 * time.Millisecond
	store := repository.NewStore(pool)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// Retention outlives the validity window so the stale entry is still
	// readable when the verify arrives.
	server := NewServer(cfg, store,
		otp.NewMemoryStore(time.Hour),
		otp.NewMemoryStore(time.Hour),
		&mailer.LogSender{Logger: logger},
		logger,
	)
	app := httptest.NewServer(server.Router())
	defer app.Close()

	email := fmt.Sprintf("stale.%d@example.local", time.Now().UnixNano())
	if _, err := store.CreateStudent(context.Background(), repository.NewStudent{
		FirstName: "Selma",
		Email:     email,
	}); err != nil {
		t.Fatalf("seed student: %v", err)
	}

	resp := doReq(t, http.MethodPost, app.URL+"/auth/student/send_otp", "", map[string]string{
		"identifier": email,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("send_otp: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	entry, found, err := server.codes.Get(context.Background(), email)
	if err != nil || !found {
		t.Fatalf("code not stored: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	resp = doReq(t, http.MethodPost, app.URL+"/auth/student/verify_otp", "", map[string]string{
		"identifier": email,
		"otp":        entry.Code,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("stale otp: expected 400, got %d", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.Error != "otp_expired" {
		t.Fatalf("expected otp_expired, got %q", body.Error)
	}

	// The stale entry is consumed by the failed verify.
	resp = doReq(t, http.MethodPost, app.URL+"/auth/student/verify_otp", "", map[string]string{
		"identifier": email,
		"otp":        entry.Code,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("consumed otp: expected 400, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &body)
	if body.Error != "otp_not_found" {
		t.Fatalf("expected otp_not_found, got %q", body.Error)
	}
}

func TestGoogleLoginMintsExpiringToken(t *testing.T) {
	pool := openTestDB(t)
	if pool == nil {
		return
	}
	defer pool.Close()

	server, store := newTestServer(pool)

	email := fmt.Sprintf("google.%d@example.local", time.Now().UnixNano())
	tokeninfo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"aud":         "client-123",
			"sub":         "google-subject-1",
			"email":       email,
			"given_name":  "Gus",
			"family_name": "Fring",
		})
	}))
	defer tokeninfo.Close()
	server.google = &oauth.GoogleVerifier{
		ClientID: "client-123",
		Endpoint: tokeninfo.URL,
		Client:   tokeninfo.Client(),
	}

	app := httptest.NewServer(server.Router())
	defer app.Close()

	resp := doReq(t, http.MethodPost, app.URL+"/auth/google/login", "", map[string]string{
		"id_token": "stub-id-token",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("google login: expected 200, got %d", resp.StatusCode)
	}
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &login)

	cfg := testConfig()
	claims, err := auth.ParseToken(cfg.JWTSecret, login.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.ExpiresAt == nil {
		t.Fatal("google token carries no expiry")
	}
	if remaining := time.Until(claims.ExpiresAt.Time); remaining > cfg.TokenTTL || remaining < cfg.TokenTTL-time.Minute {
		t.Fatalf("expiry %v away, want about %v", remaining, cfg.TokenTTL)
	}

	student, err := store.GetStudentByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("created student: %v", err)
	}
	if student.GoogleID == nil || *student.GoogleID != "google-subject-1" {
		t.Fatalf("google id not recorded: %+v", student.GoogleID)
	}
}

func TestProfileCompletionGatesResources(t *testing.T) {
	pool := openTestDB(t)
	if pool == nil {
		return
	}
	defer pool.Close()

	server, store := newTestServer(pool)
	app := httptest.NewServer(server.Router())
	defer app.Close()

	email := fmt.Sprintf("gate.%d@example.local", time.Now().UnixNano())
	studentID, err := store.CreateStudent(context.Background(), repository.NewStudent{
		FirstName: "Gaspard",
		Email:     email,
	})
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}
	token := mustStudentToken(t, studentID)

	resp := doReq(t, http.MethodGet, app.URL+"/auth/resources/", token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("incomplete profile: expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Completing the profile opens the gate.
	resp = doReq(t, http.MethodPut, app.URL+"/auth/student/update", token, map[string]string{
		"last_name":   "Martin",
		"phone":       fmt.Sprintf("06%d", time.Now().UnixNano()%100000000),
		"address":     "1 rue de la Paix",
		"profession":  "student",
		"designation": "n/a",
		"gender":      "male",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile update: expected 200, got %d", resp.StatusCode)
	}
	var update struct {
		Student struct {
			ProfileCompleted bool `json:"profile_completed"`
		} `json:"student"`
	}
	decodeBody(t, resp, &update)
	if !update.Student.ProfileCompleted {
		t.Fatal("profile_completed not recomputed")
	}

	resp = doReq(t, http.MethodGet, app.URL+"/auth/resources/", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete profile: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestClarityCallFlow(t *testing.T) {
	pool := openTestDB(t)
	if pool == nil {
		return
	}
	defer pool.Close()

	server, store := newTestServer(pool)
	app := httptest.NewServer(server.Router())
	defer app.Close()

	adminID := seedAdmin(t, store)
	adminToken := mustAdminToken(t, adminID)

	email := fmt.Sprintf("clarity.%d@example.local", time.Now().UnixNano())
	studentID, err := store.CreateStudent(context.Background(), repository.NewStudent{
		FirstName: "Chloé",
		Email:     email,
	})
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}
	studentToken := mustStudentToken(t, studentID)

	// No call yet.
	resp := doReq(t, http.MethodGet, app.URL+"/student/clarity_call/clarity_call_status", studentToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: expected 200, got %d", resp.StatusCode)
	}
	var status struct {
		Status string `json:"clarity_call_status"`
	}
	decodeBody(t, resp, &status)
	if status.Status != "Not Scheduled" {
		t.Fatalf("expected Not Scheduled, got %q", status.Status)
	}

	resp = doReq(t, http.MethodPost, app.URL+"/admin/clarity_call/create", adminToken, map[string]interface{}{
		"student_id":     studentID,
		"mentor_name":    "Dr. Mentor",
		"call_status":    "Scheduled",
		"scheduled_date": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create call: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doReq(t, http.MethodGet, app.URL+"/student/clarity_call/clarity_call_status", studentToken, nil)
	decodeBody(t, resp, &status)
	if status.Status != "Scheduled" {
		t.Fatalf("expected Scheduled, got %q", status.Status)
	}

	// Answers outside A-D are rejected.
	resp = doReq(t, http.MethodPost, app.URL+"/student/clarity_call/submit_precall_questionnaire", studentToken, map[string]interface{}{
		"responses": []map[string]interface{}{{"question_id": 1, "answer": "E"}},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad answer: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
