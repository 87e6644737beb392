// Package lwa implements the Login-with-Amazon token lifecycle shared by the
// selling partner carrier clients.
package lwa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultTokenURL is the production LWA token endpoint.
const DefaultTokenURL = "https://api.amazon.com/auth/o2/token"

// expiryMargin is subtracted from the reported lifetime so a token is
// refreshed before the carrier starts rejecting it mid-request.
const expiryMargin = 30 * time.Second

// AuthError indicates token acquisition or refresh failed.
type AuthError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("lwa auth failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("lwa auth failed: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// Config holds LWA client credentials.
type Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	RefreshToken string
	Timeout      time.Duration
}

// TokenSource acquires an access token on first use and refreshes it
// synchronously once expired. Acquire and refresh share one code path. Safe
// for concurrent use: refresh is mutually exclusive, and callers that lose
// the race reuse the token fetched by the winner.
type TokenSource struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// NewTokenSource creates a token source for the given credentials.
func NewTokenSource(cfg Config) *TokenSource {
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &TokenSource{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// Token returns a valid access token, refreshing it first if expired.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && s.now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	token, expiresIn, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}

	s.accessToken = token
	s.expiresAt = s.now().Add(time.Duration(expiresIn)*time.Second - expiryMargin)
	return s.accessToken, nil
}

// Invalidate drops the cached token so the next call re-authenticates.
func (s *TokenSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.expiresAt = time.Time{}
}

func (s *TokenSource) fetch(ctx context.Context) (string, int64, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", s.cfg.RefreshToken)
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, &AuthError{Message: "building token request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", 0, &AuthError{Message: "token endpoint unreachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", 0, &AuthError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("token endpoint returned %d: %s", resp.StatusCode, string(body)),
		}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", 0, &AuthError{Message: "decoding token response", Cause: err}
	}
	if payload.AccessToken == "" {
		return "", 0, &AuthError{Message: "token response contained no access token"}
	}

	return payload.AccessToken, payload.ExpiresIn, nil
}
