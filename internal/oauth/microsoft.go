package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	microsoftLoginBase = "https://login.microsoftonline.com"
	microsoftGraphURL  = "https://graph.microsoft.com/v1.0/me"
	microsoftScope     = "openid profile email User.Read"
)

// MicrosoftProfile is the subset of the Graph /me payload the login flow
// needs. Personal accounts leave Mail empty and carry the address in
// UserPrincipalName.
type MicrosoftProfile struct {
	ID                string `json:"id"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
	GivenName         string `json:"givenName"`
	Surname           string `json:"surname"`
}

// Email returns the best address the profile offers.
func (p MicrosoftProfile) Email() string {
	if p.Mail != "" {
		return p.Mail
	}
	return p.UserPrincipalName
}

// MicrosoftClient drives the authorization-code flow against Azure AD and
// the Graph profile endpoint.
type MicrosoftClient struct {
	ClientID     string
	ClientSecret string
	TenantID     string
	RedirectURI  string

	// LoginBase, GraphURL and Client exist for the tests; zero values
	// use Microsoft and a 10s-timeout client.
	LoginBase string
	GraphURL  string
	Client    *http.Client
}

func (c *MicrosoftClient) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (c *MicrosoftClient) loginBase() string {
	if c.LoginBase != "" {
		return c.LoginBase
	}
	return microsoftLoginBase
}

// AuthorizeURL builds the consent page URL the login endpoint redirects to.
func (c *MicrosoftClient) AuthorizeURL(state string) string {
	q := url.Values{
		"client_id":     {c.ClientID},
		"response_type": {"code"},
		"redirect_uri":  {c.RedirectURI},
		"response_mode": {"query"},
		"scope":         {microsoftScope},
		"prompt":        {"select_account"},
		"state":         {state},
	}
	return c.loginBase() + "/" + c.TenantID + "/oauth2/v2.0/authorize?" + q.Encode()
}

// Exchange trades an authorization code for an access token.
func (c *MicrosoftClient) Exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{
		"client_id":     {c.ClientID},
		"client_secret": {c.ClientSecret},
		"scope":         {microsoftScope},
		"code":          {code},
		"redirect_uri":  {c.RedirectURI},
		"grant_type":    {"authorization_code"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.loginBase()+"/"+c.TenantID+"/oauth2/v2.0/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token endpoint status %d", ErrUpstream, resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode token response: %v", ErrUpstream, err)
	}
	if body.AccessToken == "" {
		return "", ErrInvalidToken
	}
	return body.AccessToken, nil
}

// FetchProfile loads the signed-in user from the Graph endpoint.
func (c *MicrosoftClient) FetchProfile(ctx context.Context, accessToken string) (MicrosoftProfile, error) {
	graphURL := c.GraphURL
	if graphURL == "" {
		graphURL = microsoftGraphURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, graphURL, nil)
	if err != nil {
		return MicrosoftProfile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return MicrosoftProfile{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return MicrosoftProfile{}, fmt.Errorf("%w: graph status %d", ErrUpstream, resp.StatusCode)
	}

	var profile MicrosoftProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return MicrosoftProfile{}, fmt.Errorf("%w: decode graph response: %v", ErrUpstream, err)
	}
	if profile.Email() == "" {
		return MicrosoftProfile{}, ErrNoEmail
	}
	return profile, nil
}
