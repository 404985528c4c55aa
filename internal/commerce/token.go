package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	internalErrors "github.com/northwind-labs/storefront/internal/errors"
)

// tokenExpiryMargin is subtracted from the reported token lifetime so a token
// is never presented moments before it expires.
const tokenExpiryMargin = 30 * time.Second

// maxTokenResponseSize caps the auth endpoint response (64KB)
const maxTokenResponseSize = 64 * 1024

// tokenSource caches a client-credentials bearer token and refreshes it under
// a mutex when it is close to expiry. Safe for concurrent use.
type tokenSource struct {
	authURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func newTokenSource(authURL, clientID, clientSecret string, httpClient *http.Client) *tokenSource {
	return &tokenSource{
		authURL:      authURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
	}
}

// Token returns the cached bearer token, fetching a fresh one when the cache
// is empty or within the expiry margin.
func (s *tokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Add(tokenExpiryMargin).Before(s.expiry) {
		return s.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("commerce: failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.clientID, s.clientSecret)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", internalErrors.NewUpstreamError("commerce", "token", 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseSize))
	if err != nil {
		return "", fmt.Errorf("commerce: failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", internalErrors.NewUpstreamError("commerce", "token", resp.StatusCode, nil)
	}

	var grant tokenResponse
	if err := json.Unmarshal(body, &grant); err != nil {
		return "", fmt.Errorf("commerce: failed to parse token response: %w", err)
	}
	if grant.AccessToken == "" {
		return "", internalErrors.NewUpstreamError("commerce", "token", 0, errors.New("empty access token"))
	}

	s.token = grant.AccessToken
	s.expiry = time.Now().Add(time.Duration(grant.ExpiresIn) * time.Second)
	return s.token, nil
}

// invalidate drops the cached token so the next call fetches a fresh one.
// Used after an authenticated request comes back 401.
func (s *tokenSource) invalidate() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}
