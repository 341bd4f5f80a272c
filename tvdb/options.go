package tvdb

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL       string
	timeout       time.Duration
	httpClient    *http.Client
	tokenCache    TokenCache
	tokenTTL      time.Duration
	now           func() time.Time
	responseCache bool
	userAgent     string
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL:   DefaultBaseURL,
		timeout:   30 * time.Second,
		tokenTTL:  DefaultTokenTTL,
		now:       time.Now,
		userAgent: "tvdbv4-go",
	}
}

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithTimeout sets the HTTP client timeout. Ignored when WithHTTPClient is
// also given.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithHTTPClient sets the HTTP client used for every call.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithTokenCache shares a token cache between clients.
func WithTokenCache(cache TokenCache) Option {
	return func(o *clientOptions) {
		o.tokenCache = cache
	}
}

// WithTokenTTL overrides how long a login token is reused.
func WithTokenTTL(ttl time.Duration) Option {
	return func(o *clientOptions) {
		if ttl > 0 {
			o.tokenTTL = ttl
		}
	}
}

// WithClock sets the time source for token expiry.
func WithClock(now func() time.Time) Option {
	return func(o *clientOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithResponseCache enables an in-memory HTTP cache honouring the upstream
// Cache-Control and ETag headers on GET requests.
func WithResponseCache() Option {
	return func(o *clientOptions) {
		o.responseCache = true
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}
