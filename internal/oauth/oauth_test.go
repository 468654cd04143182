package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestGoogleVerifyAcceptsMatchingAudience(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id_token"); got != "good-token" {
			t.Errorf("unexpected id_token %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"aud":"client-123","sub":"sub-1","email":"alice@example.com","given_name":"Alice","family_name":"Martin"}`))
	}))
	defer srv.Close()

	v := &GoogleVerifier{ClientID: "client-123", Endpoint: srv.URL, Client: srv.Client()}
	profile, err := v.Verify(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if profile.Email != "alice@example.com" || profile.Subject != "sub-1" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestGoogleVerifyRejectsForeignAudience(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"aud":"someone-else","sub":"sub-1","email":"alice@example.com"}`))
	}))
	defer srv.Close()

	v := &GoogleVerifier{ClientID: "client-123", Endpoint: srv.URL, Client: srv.Client()}
	if _, err := v.Verify(context.Background(), "token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGoogleVerifyRejectsBadToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid_token"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	v := &GoogleVerifier{ClientID: "client-123", Endpoint: srv.URL, Client: srv.Client()}
	if _, err := v.Verify(context.Background(), "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGoogleVerifyMapsServerErrorToUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	v := &GoogleVerifier{ClientID: "client-123", Endpoint: srv.URL, Client: srv.Client()}
	if _, err := v.Verify(context.Background(), "token"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestMicrosoftAuthorizeURL(t *testing.T) {
	c := &MicrosoftClient{
		ClientID:    "ms-client",
		TenantID:    "common",
		RedirectURI: "http://localhost:8080/auth/microsoft/callback",
	}
	raw := c.AuthorizeURL("state-nonce")
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse authorize URL: %v", err)
	}
	if parsed.Path != "/common/oauth2/v2.0/authorize" {
		t.Fatalf("unexpected path %q", parsed.Path)
	}
	q := parsed.Query()
	if q.Get("client_id") != "ms-client" || q.Get("state") != "state-nonce" {
		t.Fatalf("unexpected query %v", q)
	}
	if q.Get("response_type") != "code" || q.Get("prompt") != "select_account" {
		t.Fatalf("unexpected query %v", q)
	}
}

func TestMicrosoftExchangeAndProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/common/oauth2/v2.0/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "authorization_code" || r.PostForm.Get("code") != "auth-code" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		w.Write([]byte(`{"access_token":"graph-token"}`))
	})
	mux.HandleFunc("/v1.0/me", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer graph-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Write([]byte(`{"id":"ms-1","mail":"","userPrincipalName":"bob@example.com","givenName":"Bob","surname":"Durand"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := &MicrosoftClient{
		ClientID:     "ms-client",
		ClientSecret: "secret",
		TenantID:     "common",
		RedirectURI:  "http://localhost:8080/auth/microsoft/callback",
		LoginBase:    srv.URL,
		GraphURL:     srv.URL + "/v1.0/me",
		Client:       srv.Client(),
	}

	token, err := c.Exchange(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if token != "graph-token" {
		t.Fatalf("unexpected token %q", token)
	}

	profile, err := c.FetchProfile(context.Background(), token)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.Email() != "bob@example.com" {
		t.Fatalf("expected principal name fallback, got %q", profile.Email())
	}
}

func TestMicrosoftExchangeFailureIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := &MicrosoftClient{TenantID: "common", LoginBase: srv.URL, Client: srv.Client()}
	if _, err := c.Exchange(context.Background(), "code"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}
