package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keoroanthony/go-foodorders/internal/auth"
	"github.com/Keoroanthony/go-foodorders/internal/handlers"
	"github.com/Keoroanthony/go-foodorders/internal/models"
)

func (e *testEnv) performWithCookie(method, path string, body interface{}, cookie string) *httptest.ResponseRecorder {
	req := newRequest(method, path, body)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func TestLoginHandler(t *testing.T) {
	env := setupTestRouter(t)

	t.Run("Logs in with valid credentials", func(t *testing.T) {
		recorder := env.performWithCookie(http.MethodPost, "/auth/login", map[string]string{"login": "admin", "password": "admin123"}, "")
		require.Equal(t, http.StatusOK, recorder.Code)
		cookie := recorder.Header().Get("Set-Cookie")
		require.NotEmpty(t, cookie)

		me := env.performWithCookie(http.MethodGet, "/auth/me", nil, cookie)
		require.Equal(t, http.StatusOK, me.Code)
		body := decode[map[string]models.User](t, me)
		assert.Equal(t, "admin", body["user"].Login)
		assert.True(t, body["user"].IsAdmin())

		logout := env.performWithCookie(http.MethodPost, "/auth/logout", nil, cookie)
		assert.Equal(t, http.StatusNoContent, logout.Code)

		me = env.performWithCookie(http.MethodGet, "/auth/me", nil, logout.Header().Get("Set-Cookie"))
		assert.Equal(t, http.StatusUnauthorized, me.Code)
	})

	t.Run("Returns 401 for a wrong password", func(t *testing.T) {
		recorder := env.performWithCookie(http.MethodPost, "/auth/login", map[string]string{"login": "user", "password": "nope"}, "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, auth.ErrInvalidCredentials.Error(), errorOf(t, recorder))
	})

	t.Run("Returns 400 for missing fields", func(t *testing.T) {
		recorder := env.performWithCookie(http.MethodPost, "/auth/login", map[string]string{"login": "user"}, "")
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Returns 401 for anonymous /auth/me", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, env.performWithCookie(http.MethodGet, "/auth/me", nil, "").Code)
	})
}

func TestLoginRateLimit(t *testing.T) {
	env := setupTestRouter(t, func(o *handlers.Options) {
		o.LoginLimiter = auth.NewLoginLimiter(2)
	})

	body := map[string]string{"login": "user", "password": "wrong"}
	assert.Equal(t, http.StatusUnauthorized, env.performWithCookie(http.MethodPost, "/auth/login", body, "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.performWithCookie(http.MethodPost, "/auth/login", body, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, env.performWithCookie(http.MethodPost, "/auth/login", body, "").Code)
}

func TestHealthAndMetrics(t *testing.T) {
	env := setupTestRouter(t)

	recorder := env.performWithCookie(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.performWithCookie(http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "foodorders_cart_checkouts_total")
}
