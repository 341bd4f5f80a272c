package tvdb

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator_ReusesCachedToken(t *testing.T) {
	fake := newFakeTVDB(t)
	fake.route("/series/statuses", `[]`)
	client := fake.client(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := client.SeriesStatuses(ctx)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, fake.loginCount())
	for _, auth := range fake.authorizations() {
		assert.Equal(t, "Bearer "+testToken, auth)
	}
}

func TestAuthenticator_RefreshesAfterTTL(t *testing.T) {
	fake := newFakeTVDB(t)
	fake.tokenSeq = []string{"first-token", "second-token"}
	fake.route("/series/statuses", `[]`)

	clock := newFakeClock()
	client := fake.client(t, WithClock(clock.Now), WithTokenTTL(time.Hour))
	ctx := context.Background()

	_, err := client.SeriesStatuses(ctx)
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	_, err = client.SeriesStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.loginCount(), "token reused within ttl")

	clock.Advance(time.Minute)
	_, err = client.SeriesStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.loginCount(), "exactly one login after ttl")

	assert.Equal(t, []string{
		"Bearer first-token",
		"Bearer first-token",
		"Bearer second-token",
	}, fake.authorizations())
}

func TestAuthenticator_LoginRejected(t *testing.T) {
	fake := newFakeTVDB(t)
	fake.setLogin(http.StatusUnauthorized, `{"status":"failure","message":"InvalidAPIKey","data":null}`)
	client := fake.client(t)
	ctx := context.Background()

	_, err := client.Series(ctx, IntID(1))
	require.Error(t, err)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Equal(t, "InvalidAPIKey", authErr.Message)

	_, found, err := client.CachedToken(ctx)
	require.NoError(t, err)
	assert.False(t, found, "no token cached after a failed login")
	assert.Empty(t, fake.requested(), "no resource call after a failed login")
}

func TestAuthenticator_FailureEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{
			name:    "non-success status",
			status:  http.StatusOK,
			body:    `{"status":"failure","message":"pin expired","data":null}`,
			message: "pin expired",
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `<html>oops</html>`,
			message: "malformed login response",
		},
		{
			name:    "missing token",
			status:  http.StatusOK,
			body:    `{"status":"success","data":{}}`,
			message: "login response carried no token",
		},
		{
			name:    "server error without envelope",
			status:  http.StatusBadGateway,
			body:    `bad gateway`,
			message: "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeTVDB(t)
			fake.setLogin(tt.status, tt.body)
			client := fake.client(t)

			err := client.Login(context.Background())

			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.status, authErr.StatusCode)
			assert.Equal(t, tt.message, authErr.Message)
			assert.Equal(t, tt.body, authErr.Body)

			_, found, err := client.CachedToken(context.Background())
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestAuthenticator_SharedCacheAcrossClients(t *testing.T) {
	fake := newFakeTVDB(t)
	fake.route("/series/statuses", `[]`)
	cache := NewMemoryTokenCache(10, nil)
	ctx := context.Background()

	first := fake.client(t, WithTokenCache(cache))
	second := fake.client(t, WithTokenCache(cache))

	_, err := first.SeriesStatuses(ctx)
	require.NoError(t, err)
	_, err = second.SeriesStatuses(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, fake.loginCount())
}

func TestAuthenticator_Invalidate(t *testing.T) {
	fake := newFakeTVDB(t)
	client := fake.client(t)
	ctx := context.Background()

	require.NoError(t, client.Login(ctx))
	require.NoError(t, client.Authenticator().Invalidate(ctx))
	require.NoError(t, client.Login(ctx))

	assert.Equal(t, 2, fake.loginCount())
}

func TestAuthenticator_RejectKeepsNewerToken(t *testing.T) {
	fake := newFakeTVDB(t)
	cache := NewMemoryTokenCache(10, nil)
	client := fake.client(t, WithTokenCache(cache))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, testPin, Token{Value: "t2"}, time.Hour))

	require.NoError(t, client.Authenticator().Reject(ctx, "t1"))
	token, found, err := client.CachedToken(ctx)
	require.NoError(t, err)
	require.True(t, found, "a stale rejection keeps the newer token")
	assert.Equal(t, "t2", token.Value)

	require.NoError(t, client.Authenticator().Reject(ctx, "t2"))
	_, found, err = client.CachedToken(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, client.Authenticator().Reject(ctx, "t2"), "rejecting with nothing cached is a no-op")
}
