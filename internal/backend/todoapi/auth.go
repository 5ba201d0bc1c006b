package todoapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	"todo/internal/config"
	"todo/internal/service"
	"todo/internal/session"
)

// AuthClient implements service.Authenticator.
type AuthClient struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// NewAuthClient creates an unauthenticated client for the auth endpoints.
func NewAuthClient(cfg *config.Config) *AuthClient {
	return NewAuthClientWithURL(cfg.APIURL(), cfg.Log())
}

// NewAuthClientWithURL creates an auth client for baseURL.
func NewAuthClientWithURL(baseURL string, log *slog.Logger) *AuthClient {
	return &AuthClient{
		baseURL: baseURL,
		http:    &http.Client{Transport: newTransport(http.DefaultTransport, log)},
		log:     log,
	}
}

// Register creates an account.
func (a *AuthClient) Register(ctx context.Context, r service.Registration) (service.Account, error) {
	body := map[string]string{
		"username": r.Username,
		"email":    r.Email,
		"password": r.Password,
	}
	var resp struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := doJSON(ctx, a.http, http.MethodPost, a.baseURL+"/auth/register", body, &resp); err != nil {
		return service.Account{}, err
	}
	return service.Account{ID: resp.ID, Username: resp.Username, Email: resp.Email}, nil
}

// Login performs an OAuth2 resource-owner password grant against the login
// endpoint, which accepts form-encoded username and password.
func (a *AuthClient) Login(ctx context.Context, username, password string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.http)

	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  a.baseURL + "/auth/login",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	token, err := conf.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil {
			return nil, statusError(rerr.Response.StatusCode, string(rerr.Body))
		}
		return nil, wrapError(err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("server returned an empty token")
	}
	// The login endpoint sends no expires_in; the JWT carries it instead.
	if token.Expiry.IsZero() {
		token.Expiry = session.TokenExpiry(token.AccessToken)
	}
	return token, nil
}
