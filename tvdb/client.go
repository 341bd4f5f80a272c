package tvdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/rs/zerolog"
)

// Client is a TheTVDB v4 API client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	auth       *Authenticator
	tokenCache TokenCache
	userAgent  string
	logger     zerolog.Logger
}

// NewClient creates a new TheTVDB client. No network call is made until the
// first request, which logs in.
func NewClient(creds Credentials, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if creds.Pin == "" {
		return nil, &ConfigError{Field: "pin"}
	}
	if creds.APIKey == "" {
		return nil, &ConfigError{Field: "api key"}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}
	if o.responseCache {
		httpClient = withResponseCache(httpClient)
	}

	tokenCache := o.tokenCache
	if tokenCache == nil {
		tokenCache = NewMemoryTokenCache(16, o.now)
	}

	baseURL := normalizeBaseURL(o.baseURL)

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		auth:       NewAuthenticator(baseURL, creds, httpClient, tokenCache, o.tokenTTL, o.now, logger),
		tokenCache: tokenCache,
		userAgent:  o.userAgent,
		logger:     logger,
	}, nil
}

// withResponseCache returns a copy of client whose transport is wrapped in
// an in-memory httpcache layer.
func withResponseCache(client *http.Client) *http.Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	if client.Transport != nil {
		cacheTransport.Transport = client.Transport
	}
	cached := *client
	cached.Transport = cacheTransport
	return &cached
}

// Authenticator exposes the client's token source.
func (c *Client) Authenticator() *Authenticator {
	return c.auth
}

// Login resolves a token, logging in if none is cached.
func (c *Client) Login(ctx context.Context) error {
	_, err := c.auth.Token(ctx)
	return err
}

// CachedToken returns the cached token for the client's credentials, if any.
func (c *Client) CachedToken(ctx context.Context) (Token, bool, error) {
	return c.tokenCache.Get(ctx, c.auth.creds.Pin)
}

// Fetch retrieves a single resource.
func (c *Client) Fetch(ctx context.Context, kind Kind, id ID, opts FetchOptions) (Record, error) {
	return getData[Record](ctx, c, resourceURL(c.baseURL, kind, id, opts.Extended, opts.Params))
}

// FetchTypes retrieves the type enumeration for kind.
func (c *Client) FetchTypes(ctx context.Context, kind Kind) ([]Record, error) {
	return getData[[]Record](ctx, c, typesURL(c.baseURL, kind))
}

// FetchStatuses retrieves the status enumeration for kind.
func (c *Client) FetchStatuses(ctx context.Context, kind Kind) ([]Record, error) {
	return getData[[]Record](ctx, c, statusesURL(c.baseURL, kind))
}

// FetchTranslation retrieves the translation of a resource into lang.
func (c *Client) FetchTranslation(ctx context.Context, kind Kind, id ID, lang string) (Record, error) {
	return getData[Record](ctx, c, translationURL(c.baseURL, kind, id, lang))
}

// Search runs a free-text search.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]Record, error) {
	return getData[[]Record](ctx, c, searchURL(c.baseURL, query, opts))
}

// SearchResults runs a search and decodes the hits.
func (c *Client) SearchResults(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	records, err := c.Search(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	return DecodeAll[SearchResult](records)
}

// doGet performs an authenticated GET and returns the status code and raw
// body of a 2xx response.
func (c *Client) doGet(ctx context.Context, requestURL string) (int, []byte, error) {
	token, err := c.auth.Token(ctx)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug().
		Str("method", http.MethodGet).
		Str("url", requestURL).
		Msg("Making TheTVDB API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized {
			// The token was revoked or expired early; make the next call log in.
			if err := c.auth.Reject(ctx, token); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to invalidate rejected token")
			}
		}

		var envelope Envelope[json.RawMessage]
		_ = json.Unmarshal(body, &envelope)
		return resp.StatusCode, nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    messageOr(envelope.Message, http.StatusText(resp.StatusCode)),
			Body:       string(body),
			URL:        requestURL,
		}
	}

	return resp.StatusCode, body, nil
}

// getData performs an authenticated GET and unwraps the envelope's data.
func getData[T any](ctx context.Context, c *Client, requestURL string) (T, error) {
	var zero T

	status, body, err := c.doGet(ctx, requestURL)
	if err != nil {
		return zero, err
	}

	var envelope Envelope[T]
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&envelope); err != nil {
		return zero, &APIError{
			StatusCode: status,
			Message:    fmt.Sprintf("failed to parse response: %v", err),
			Body:       string(body),
			URL:        requestURL,
		}
	}

	if !envelope.OK() {
		return zero, &APIError{
			StatusCode: status,
			Message:    messageOr(envelope.Message, fmt.Sprintf("unexpected envelope status %q", envelope.Status)),
			Body:       string(body),
			URL:        requestURL,
		}
	}

	return envelope.Data, nil
}
