package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/stride/internal/models"
	"github.com/desertthunder/stride/internal/shared"
	"golang.org/x/oauth2"
)

const (
	stravaAuthURL  = "https://www.strava.com/oauth/authorize"
	stravaTokenURL = "https://www.strava.com/oauth/token"
	stravaBaseURL  = "https://www.strava.com/api/v3"
)

// StravaScope is requested during authorization. Strava expects a single comma separated value.
const StravaScope = "read,activity:read_all"

// TokenExchanger implements [Exchanger] for the Strava OAuth endpoint.
type TokenExchanger struct {
	authURL    string
	tokenURL   string
	httpClient *http.Client
}

// NewTokenExchanger creates a TokenExchanger. Empty URLs fall back to Strava's endpoints and a nil client to [NewHTTPClient].
func NewTokenExchanger(authURL, tokenURL string, client *http.Client) *TokenExchanger {
	if authURL == "" {
		authURL = stravaAuthURL
	}
	if tokenURL == "" {
		tokenURL = stravaTokenURL
	}
	if client == nil {
		client = NewHTTPClient(0)
	}

	return &TokenExchanger{
		authURL:    authURL,
		tokenURL:   tokenURL,
		httpClient: client,
	}
}

// OAuthConfig builds the [oauth2.Config] for creds. Client credentials travel in the form body, as Strava requires.
func (e *TokenExchanger) OAuthConfig(creds models.Credentials, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{StravaScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:   e.authURL,
			TokenURL:  e.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// Context attaches the exchanger's HTTP client for use by [oauth2] calls.
func (e *TokenExchanger) Context(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, e.httpClient)
}

// Exchange performs a refresh-token grant and returns the new access token.
func (e *TokenExchanger) Exchange(ctx context.Context, creds models.Credentials) (models.AccessToken, error) {
	if !creds.Complete() {
		return "", fmt.Errorf("%w: client id, client secret and refresh token are required", shared.ErrMissingCredentials)
	}

	src := e.OAuthConfig(creds, "").TokenSource(e.Context(ctx), &oauth2.Token{RefreshToken: creds.RefreshToken})
	token, err := src.Token()
	if err != nil {
		return "", classifyTokenError(err)
	}

	return models.AccessToken(token.AccessToken), nil
}

// classifyTokenError maps [oauth2] failures onto the shared error taxonomy.
func classifyTokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		return &shared.AuthError{Status: status, Body: string(retrieveErr.Body)}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &shared.UpstreamError{Op: "token exchange", Err: err}
	}

	return &shared.ProtocolError{Op: "token exchange", Err: err}
}
