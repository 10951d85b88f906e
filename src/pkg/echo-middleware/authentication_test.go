package echomw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performRequest(t *testing.T, authorizationHeader string) *httptest.ResponseRecorder {
	t.Helper()

	server := echo.New()
	request := httptest.NewRequest(http.MethodPost, "/recognize", nil)
	if authorizationHeader != "" {
		request.Header.Set("Authorization", authorizationHeader)
	}
	recorder := httptest.NewRecorder()
	context := server.NewContext(request, recorder)

	handler := RequireBearerToken(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, handler(context))
	return recorder
}

// The expected token is cached on first use, so all cases share one process
// level token set up front.
func TestRequireBearerToken(t *testing.T) {
	t.Setenv(EnvApiBearerToken, "test-token-value")

	t.Run("valid token", func(t *testing.T) {
		recorder := performRequest(t, "Bearer test-token-value")
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("case-insensitive scheme", func(t *testing.T) {
		recorder := performRequest(t, "bearer test-token-value")
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("wrong token", func(t *testing.T) {
		recorder := performRequest(t, "Bearer wrong-token")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Header().Get("WWW-Authenticate"), "Bearer realm=")
	})

	t.Run("missing header", func(t *testing.T) {
		recorder := performRequest(t, "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		recorder := performRequest(t, "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestRateLimiterMiddlewareBlocksBursts(t *testing.T) {
	UptdateRateLimits(1, 1)

	server := echo.New()
	handler := RateLimiterMiddleware(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	makeRequest := func() int {
		request := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		request.RemoteAddr = "10.1.2.3:1234"
		recorder := httptest.NewRecorder()
		context := server.NewContext(request, recorder)
		require.NoError(t, handler(context))
		return recorder.Code
	}

	assert.Equal(t, http.StatusOK, makeRequest())
	assert.Equal(t, http.StatusTooManyRequests, makeRequest())
}
