package tvdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		creds   Credentials
		wantErr bool
		field   string
	}{
		{
			name:  "valid credentials",
			creds: Credentials{Pin: "pin", APIKey: "key"},
		},
		{
			name:    "missing pin",
			creds:   Credentials{APIKey: "key"},
			wantErr: true,
			field:   "pin",
		},
		{
			name:    "missing api key",
			creds:   Credentials{Pin: "pin"},
			wantErr: true,
			field:   "api key",
		},
		{
			name:    "missing both reports pin first",
			wantErr: true,
			field:   "pin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.creds, logger)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, DefaultBaseURL, client.baseURL)
				return
			}

			require.Error(t, err)
			assert.Nil(t, client)
			assert.True(t, errors.Is(err, ErrMissingCredentials))

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestNewClient_NoNetworkCall(t *testing.T) {
	fake := newFakeTVDB(t)
	_ = fake.client(t)

	assert.Equal(t, 0, fake.loginCount())
	assert.Empty(t, fake.requested())
}

func TestClientOptions(t *testing.T) {
	creds := Credentials{Pin: "pin", APIKey: "key"}
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient(creds, logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient(creds, logger, WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Same(t, custom, client.httpClient)
	})

	t.Run("with base url", func(t *testing.T) {
		client, err := NewClient(creds, logger, WithBaseURL("http://localhost:8080/v4"))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/v4/", client.baseURL)
	})

	t.Run("with response cache", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient(creds, logger, WithHTTPClient(custom), WithResponseCache())
		require.NoError(t, err)
		assert.NotSame(t, custom, client.httpClient)
		assert.NotNil(t, client.httpClient.Transport)
		assert.Equal(t, 10*time.Second, client.httpClient.Timeout)
		assert.Nil(t, custom.Transport, "caller's client is left untouched")
	})
}

func TestFetch(t *testing.T) {
	fake := newFakeTVDB(t)
	fake.route("/series/42/extended", `{"id":42,"name":"Extended"}`)
	fake.route("/series/42", `{"id":42,"name":"Base"}`)
	fake.route("/series/42/extended?a=1&b=2", `{"id":42,"name":"WithParams"}`)
	client := fake.client(t)
	ctx := context.Background()

	rec, err := client.Fetch(ctx, KindSeries, IntID(42), FetchOptions{Extended: true})
	require.NoError(t, err)
	assert.Equal(t, "Extended", rec.String("name"))

	rec, err = client.Fetch(ctx, KindSeries, IntID(42), FetchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Base", rec.String("name"))

	rec, err = client.Fetch(ctx, KindSeries, IntID(42), FetchOptions{
		Extended: true,
		Params:   Params{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "WithParams", rec.String("name"))

	id, ok := rec.Int("id")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    `{"status":"failure","message":"NotFoundException","data":null}`,
			message: "NotFoundException",
		},
		{
			name:    "server error without envelope",
			status:  http.StatusInternalServerError,
			body:    `boom`,
			message: "Internal Server Error",
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `{"status":"success","data":`,
		},
		{
			name:    "failure envelope",
			status:  http.StatusOK,
			body:    `{"status":"failure","message":"nope","data":null}`,
			message: "nope",
		},
		{
			name:   "wrong data shape",
			status: http.StatusOK,
			body:   `{"status":"success","data":[1,2,3]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeTVDB(t)
			fake.routeRaw("/movies/9/extended", tt.status, tt.body)
			client := fake.client(t)

			_, err := client.Movies(context.Background(), IntID(9))

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.body, apiErr.Body)
			assert.Contains(t, apiErr.URL, "/movies/9/extended")
			if tt.message != "" {
				assert.Equal(t, tt.message, apiErr.Message)
			}
		})
	}
}

func TestFetch_UnauthorizedInvalidatesToken(t *testing.T) {
	fake := newFakeTVDB(t)
	fake.routeRaw("/series/1/extended", http.StatusUnauthorized, `{"status":"failure","message":"Unauthorized"}`)
	client := fake.client(t)
	ctx := context.Background()

	_, err := client.Series(ctx, IntID(1))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsUnauthorized())
	assert.Len(t, fake.requested(), 1, "the failing call is not retried")

	_, found, err := client.CachedToken(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	fake.route("/series/1/extended", `{"id":1}`)
	_, err = client.Series(ctx, IntID(1))
	require.NoError(t, err)
	assert.Equal(t, 2, fake.loginCount())
}

func TestResponseCache_ServesRepeatedGets(t *testing.T) {
	var mu sync.Mutex
	hits := map[string]int{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/login" {
			_, _ = w.Write([]byte(`{"status":"success","data":{"token":"` + testToken + `"}}`))
			return
		}
		w.Header().Set("Cache-Control", "max-age=300")
		_, _ = w.Write([]byte(`{"status":"success","data":{"id":81189,"name":"Breaking Bad"}}`))
	}))
	t.Cleanup(server.Close)

	ctx := context.Background()
	upstream := func() int {
		mu.Lock()
		defer mu.Unlock()
		return hits["/series/81189/extended"]
	}

	cached, err := NewClient(Credentials{Pin: testPin, APIKey: testAPIKey}, zerolog.Nop(),
		WithBaseURL(server.URL), WithResponseCache())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		rec, err := cached.Series(ctx, IntID(81189))
		require.NoError(t, err)
		assert.Equal(t, "Breaking Bad", rec.String("name"))
	}
	assert.Equal(t, 1, upstream(), "repeated GETs are served from the cache")

	uncached, err := NewClient(Credentials{Pin: testPin, APIKey: testAPIKey}, zerolog.Nop(),
		WithBaseURL(server.URL))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := uncached.Series(ctx, IntID(81189))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, upstream(), "without the cache every call reaches the API")
}

func TestFetch_StaleUnauthorizedKeepsRefreshedToken(t *testing.T) {
	fake := newFakeTVDB(t)
	fake.routeRaw("/series/1/extended", http.StatusUnauthorized, `{"status":"failure","message":"Unauthorized"}`)
	cache := NewMemoryTokenCache(10, nil)
	ctx := context.Background()

	// Another caller refreshes the token while this request is in flight.
	transport := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/login" {
			require.NoError(t, cache.Set(ctx, testPin, Token{Value: "fresh-token"}, time.Hour))
		}
		return http.DefaultTransport.RoundTrip(req)
	})
	client := fake.client(t, WithTokenCache(cache), WithHTTPClient(&http.Client{Transport: transport}))

	_, err := client.Series(ctx, IntID(1))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsUnauthorized())
	assert.Equal(t, []string{"Bearer " + testToken}, fake.authorizations())

	token, found, err := client.CachedToken(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "fresh-token", token.Value)
	assert.Equal(t, 1, fake.loginCount())
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestFetch_NotFoundKeepsToken(t *testing.T) {
	fake := newFakeTVDB(t)
	client := fake.client(t)
	ctx := context.Background()

	_, err := client.Awards(ctx, IntID(404))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())

	_, found, err := client.CachedToken(ctx)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestFetch_ContextCancelled(t *testing.T) {
	fake := newFakeTVDB(t)
	client := fake.client(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Series(ctx, IntID(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEnumerations(t *testing.T) {
	fake := newFakeTVDB(t)
	client := fake.client(t)
	ctx := context.Background()

	tests := []struct {
		path string
		call func(context.Context) ([]Record, error)
	}{
		{"/artwork/types", client.ArtworkTypes},
		{"/companies/types", client.CompaniesTypes},
		{"/entities/types", client.EntityTypes},
		{"/people/types", client.PeopleTypes},
		{"/seasons/types", client.SeasonsTypes},
		{"/sources/types", client.SourcesTypes},
		{"/artwork/statuses", client.ArtworkStatuses},
		{"/movies/statuses", client.MoviesStatuses},
		{"/series/statuses", client.SeriesStatuses},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			fake.route(tt.path, `[{"id":1,"name":"`+tt.path+`"},{"id":2,"name":"other"}]`)

			records, err := tt.call(ctx)
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, tt.path, records[0].String("name"))
		})
	}

	assert.Equal(t, 1, fake.loginCount())
}

func TestSearchResults(t *testing.T) {
	fake := newFakeTVDB(t)
	fake.route("/search?q=Breaking%20Bad&type=series", `[
		{"objectID":"series-81189","tvdb_id":"81189","name":"Breaking Bad","type":"series","year":"2008","aliases":["BB"],"translations":{"eng":"Breaking Bad"}},
		{"objectID":"series-1","tvdb_id":"1","name":"Breaking Bad Fan","type":"series","year":""}
	]`)
	client := fake.client(t)

	results, err := client.SearchResults(context.Background(), "Breaking Bad", SearchOptions{Type: "series"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "81189", results[0].TVDBID)
	assert.Equal(t, 2008, results[0].Year)
	assert.Equal(t, []string{"BB"}, results[0].Aliases)
	assert.Equal(t, "Breaking Bad", results[0].Translations["eng"])
	assert.Equal(t, 0, results[1].Year)
}
