package tvdb

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPin    = "test-pin"
	testAPIKey = "test-apikey"
	testToken  = "test-token"
)

type cannedResponse struct {
	status int
	body   string
}

// fakeTVDB stands in for TheTVDB. Routes are keyed by request URI.
type fakeTVDB struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	logins   int
	requests []string
	routes   map[string]cannedResponse
	login    cannedResponse
	tokenSeq []string
	authSeen []string
}

func newFakeTVDB(t *testing.T) *fakeTVDB {
	t.Helper()
	f := &fakeTVDB{
		t:      t,
		routes: make(map[string]cannedResponse),
		login:  cannedResponse{status: http.StatusOK, body: `{"status":"success","data":{"token":"` + testToken + `"}}`},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeTVDB) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/login" {
		assert.Equal(f.t, http.MethodPost, r.Method)
		var body map[string]string
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(f.t, testAPIKey, body["apikey"])
		assert.Equal(f.t, testPin, body["pin"])

		f.logins++
		resp := f.login
		if len(f.tokenSeq) > 0 {
			resp = cannedResponse{status: http.StatusOK, body: `{"status":"success","data":{"token":"` + f.tokenSeq[0] + `"}}`}
			f.tokenSeq = f.tokenSeq[1:]
		}
		w.WriteHeader(resp.status)
		_, _ = w.Write([]byte(resp.body))
		return
	}

	assert.Equal(f.t, http.MethodGet, r.Method)
	assert.Equal(f.t, "application/json", r.Header.Get("Accept"))
	f.authSeen = append(f.authSeen, r.Header.Get("Authorization"))
	f.requests = append(f.requests, r.URL.RequestURI())

	resp, ok := f.routes[r.URL.RequestURI()]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":"failure","message":"Not Found","data":null}`))
		return
	}
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

// route registers a successful envelope around data for uri.
func (f *fakeTVDB) route(uri, data string) {
	f.routeRaw(uri, http.StatusOK, `{"status":"success","data":`+data+`}`)
}

func (f *fakeTVDB) routeRaw(uri string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[uri] = cannedResponse{status: status, body: body}
}

func (f *fakeTVDB) setLogin(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.login = cannedResponse{status: status, body: body}
}

func (f *fakeTVDB) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

func (f *fakeTVDB) requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeTVDB) authorizations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authSeen...)
}

func (f *fakeTVDB) client(t *testing.T, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithBaseURL(f.server.URL)}, opts...)
	client, err := NewClient(Credentials{Pin: testPin, APIKey: testAPIKey}, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

// fakeClock is a manually advanced time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
