package tvdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// loginRequest is the body of POST /login
type loginRequest struct {
	APIKey string `json:"apikey"`
	Pin    string `json:"pin"`
}

// loginData is the data field of a login envelope
type loginData struct {
	Token string `json:"token"`
}

// Authenticator exchanges credentials for a bearer token and reuses it until
// it expires. Concurrent callers that miss the cache at the same time may
// each log in; the last token written wins.
type Authenticator struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
	cache      TokenCache
	ttl        time.Duration
	now        func() time.Time
	logger     zerolog.Logger
}

// NewAuthenticator creates an Authenticator. baseURL must end with a slash.
func NewAuthenticator(baseURL string, creds Credentials, httpClient *http.Client, cache TokenCache, ttl time.Duration, now func() time.Time, logger zerolog.Logger) *Authenticator {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Authenticator{
		baseURL:    baseURL,
		creds:      creds,
		httpClient: httpClient,
		cache:      cache,
		ttl:        ttl,
		now:        now,
		logger:     logger,
	}
}

// Token returns a valid bearer token, logging in on a cache miss.
func (a *Authenticator) Token(ctx context.Context) (string, error) {
	cached, ok, err := a.cache.Get(ctx, a.creds.Pin)
	if err != nil {
		return "", fmt.Errorf("failed to read token cache: %w", err)
	}
	if ok {
		a.logger.Trace().Time("expiry", cached.ExpiresAt).Msg("hit: reusing cached tvdb token")
		return cached.Value, nil
	}

	token, err := a.login(ctx)
	if err != nil {
		return "", err
	}

	if err := a.cache.Set(ctx, a.creds.Pin, token, a.ttl); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return token.Value, nil
}

// Invalidate drops the cached token so the next call logs in again.
func (a *Authenticator) Invalidate(ctx context.Context) error {
	return a.cache.Invalidate(ctx, a.creds.Pin)
}

// Reject drops the cached token after the API refused it. A token that was
// already replaced by a newer login is kept.
func (a *Authenticator) Reject(ctx context.Context, token string) error {
	cached, ok, err := a.cache.Get(ctx, a.creds.Pin)
	if err != nil {
		return fmt.Errorf("failed to read token cache: %w", err)
	}
	if !ok || cached.Value != token {
		a.logger.Debug().Msg("Rejected token already replaced, keeping cached token")
		return nil
	}
	return a.cache.Invalidate(ctx, a.creds.Pin)
}

// login performs POST /login
func (a *Authenticator) login(ctx context.Context) (Token, error) {
	payload, err := json.Marshal(loginRequest{APIKey: a.creds.APIKey, Pin: a.creds.Pin})
	if err != nil {
		return Token{}, &AuthError{Err: fmt.Errorf("failed to encode login request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"login", bytes.NewReader(payload))
	if err != nil {
		return Token{}, &AuthError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	a.logger.Debug().Str("url", req.URL.String()).Msg("Logging in to TheTVDB")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return Token{}, &AuthError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Token{}, &AuthError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	var envelope Envelope[loginData]
	decodeErr := json.Unmarshal(body, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Token{}, &AuthError{
			StatusCode: resp.StatusCode,
			Message:    messageOr(envelope.Message, http.StatusText(resp.StatusCode)),
			Body:       string(body),
		}
	}
	if decodeErr != nil {
		return Token{}, &AuthError{
			StatusCode: resp.StatusCode,
			Message:    "malformed login response",
			Body:       string(body),
			Err:        decodeErr,
		}
	}
	if !envelope.OK() {
		return Token{}, &AuthError{
			StatusCode: resp.StatusCode,
			Message:    messageOr(envelope.Message, "status "+envelope.Status),
			Body:       string(body),
		}
	}
	if envelope.Data.Token == "" {
		return Token{}, &AuthError{
			StatusCode: resp.StatusCode,
			Message:    "login response carried no token",
			Body:       string(body),
			Err:        errors.New("empty token"),
		}
	}

	a.logger.Info().Msg("Authenticated with TheTVDB")

	return Token{Value: envelope.Data.Token, AcquiredAt: a.now()}, nil
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
