package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheking94/not-todo-api/internal/service"
	"github.com/sheking94/not-todo-api/internal/token"
	"github.com/sheking94/not-todo-api/pkg/health"
	"github.com/sheking94/not-todo-api/pkg/middleware"
)

type testServer struct {
	router   http.Handler
	sessions *memorySessionRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	accessPEM, err := token.GenerateSigningKey()
	require.NoError(t, err)
	refreshPEM, err := token.GenerateSigningKey()
	require.NoError(t, err)

	accessKey, err := token.ParsePrivateKeyPEM(accessPEM)
	require.NoError(t, err)
	refreshKey, err := token.ParsePrivateKeyPEM(refreshPEM)
	require.NoError(t, err)

	codec, err := token.NewCodec(token.Config{
		AccessPrivateKey:  accessKey,
		RefreshPrivateKey: refreshKey,
		AccessTTL:         15 * time.Minute,
		RefreshTTL:        time.Hour,
		Issuer:            "test",
	})
	require.NoError(t, err)

	sessions := newMemorySessionRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := service.New(
		newMemoryUserRepo(),
		sessions,
		newMemoryTodoRepo(),
		codec,
		nil,
		logger,
	)

	h := NewHandler(svc, CookieSettings{Domain: "localhost", Path: "/", Secure: false})

	router := NewRouter(h, RouterConfig{
		ServiceName:    "not-todo-api-test",
		Environment:    "production",
		AllowedOrigins: []string{"http://localhost:3000"},
		Verify: func(tokenString string) (*middleware.Claims, error) {
			claims, err := codec.VerifyAccessToken(tokenString)
			if err != nil {
				return nil, err
			}
			return &middleware.Claims{UserID: claims.UserID, Email: claims.Email}, nil
		},
		Health: health.NewHandler(),
		Logger: logger,
	})

	return &testServer{router: router, sessions: sessions}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) register(t *testing.T, email, password string) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/v1/users", map[string]string{
		"email":                email,
		"username":             "Jane Doe",
		"password":             password,
		"passwordConfirmation": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (ts *testServer) login(t *testing.T, email, password string) (access, refresh *http.Cookie) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/v1/sessions", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		switch c.Name {
		case middleware.AccessTokenCookie:
			access = c
		case RefreshTokenCookie:
			refresh = c
		}
	}
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	return access, refresh
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/users", map[string]string{
		"email":                "not-an-email",
		"username":             "Jane Doe",
		"password":             "short",
		"passwordConfirmation": "different",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	fields := body["fields"].(map[string]any)
	assert.Contains(t, fields, "Email")
	assert.Contains(t, fields, "Password")
	assert.Contains(t, fields, "PasswordConfirmation")
}

func TestMalformedJSONBadRequest(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeBody(t, rec)["code"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "a@x.com", "Password123")

	rec := ts.do(t, http.MethodPost, "/api/v1/users", map[string]string{
		"email":                "a@x.com",
		"username":             "Jane Doe",
		"password":             "Password123",
		"passwordConfirmation": "Password123",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Account with this email already exists.", decodeBody(t, rec)["message"])
}

func TestLoginSetsCookies(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "a@x.com", "Password123")

	access, refresh := ts.login(t, "a@x.com", "Password123")

	for _, c := range []*http.Cookie{access, refresh} {
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
		assert.Equal(t, "/", c.Path)
		assert.Positive(t, c.MaxAge)
	}
	// Cookie lifetimes come from the token expiries (15m access, 1h refresh).
	assert.InDelta(t, 15*60, access.MaxAge, 5)
	assert.InDelta(t, 60*60, refresh.MaxAge, 5)
}

func TestLoginFailureMessagesMatch(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "a@x.com", "Password123")

	wrongPassword := ts.do(t, http.MethodPost, "/api/v1/sessions", map[string]string{
		"email": "a@x.com", "password": "nope",
	})
	unknownEmail := ts.do(t, http.MethodPost, "/api/v1/sessions", map[string]string{
		"email": "b@x.com", "password": "Password123",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, decodeBody(t, wrongPassword)["message"], decodeBody(t, unknownEmail)["message"])
	assert.Equal(t, "Invalid email or password.", decodeBody(t, wrongPassword)["message"])
}

func TestMeRequiresIdentity(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/users/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFullSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "a@x.com", "Password123")
	access, refresh := ts.login(t, "a@x.com", "Password123")

	// Authenticated profile fetch echoes the claims.
	me := ts.do(t, http.MethodGet, "/api/v1/users/me", nil, access)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "a@x.com", decodeBody(t, me)["email"])

	// Refresh mints a fresh access cookie.
	refreshed := ts.do(t, http.MethodPost, "/api/v1/sessions/refresh", nil, refresh)
	require.Equal(t, http.StatusOK, refreshed.Code)
	assert.Equal(t, "Access token refreshed successfully.", decodeBody(t, refreshed)["message"])

	// Logout clears both cookies.
	logout := ts.do(t, http.MethodDelete, "/api/v1/sessions/logout", nil, refresh)
	require.Equal(t, http.StatusOK, logout.Code)
	assert.Equal(t, "Successfully logged out.", decodeBody(t, logout)["message"])
	for _, c := range logout.Result().Cookies() {
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	}

	// The refresh token is still cryptographically valid but its session is
	// revoked, so refresh must fail generically.
	afterLogout := ts.do(t, http.MethodPost, "/api/v1/sessions/refresh", nil, refresh)
	require.Equal(t, http.StatusUnauthorized, afterLogout.Code)
	assert.Equal(t, "Could not refresh access token.", decodeBody(t, afterLogout)["message"])

	// Second logout surfaces the missing session.
	again := ts.do(t, http.MethodDelete, "/api/v1/sessions/logout", nil, refresh)
	assert.Equal(t, http.StatusNotFound, again.Code)
}

func TestLogoutWithoutTokenUnauthorized(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodDelete, "/api/v1/sessions/logout", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Could not log out.", decodeBody(t, rec)["message"])
}

func TestTodoOwnership(t *testing.T) {
	ts := newTestServer(t)

	ts.register(t, "a@x.com", "Password123")
	ts.register(t, "b@x.com", "Password123")
	accessA, _ := ts.login(t, "a@x.com", "Password123")
	accessB, _ := ts.login(t, "b@x.com", "Password123")

	created := ts.do(t, http.MethodPost, "/api/v1/todos", map[string]string{
		"description": "buy milk",
	}, accessA)
	require.Equal(t, http.StatusCreated, created.Code)
	todoID := decodeBody(t, created)["todo"].(map[string]any)["id"].(string)

	// Another authenticated user gets Forbidden, not Unauthorized.
	hijack := ts.do(t, http.MethodPut, "/api/v1/todos/"+todoID, map[string]any{
		"description": "hijacked",
		"done":        true,
	}, accessB)
	assert.Equal(t, http.StatusForbidden, hijack.Code)

	// The owner can update.
	update := ts.do(t, http.MethodPut, "/api/v1/todos/"+todoID, map[string]any{
		"description": "buy oat milk",
		"done":        true,
	}, accessA)
	require.Equal(t, http.StatusOK, update.Code)

	// Listing is scoped to the caller.
	listB := ts.do(t, http.MethodGet, "/api/v1/todos", nil, accessB)
	require.Equal(t, http.StatusOK, listB.Code)
	assert.Empty(t, decodeBody(t, listB)["todos"])

	del := ts.do(t, http.MethodDelete, "/api/v1/todos/"+todoID, nil, accessA)
	assert.Equal(t, http.StatusNoContent, del.Code)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "a@x.com", "Password123")
	access, refresh := ts.login(t, "a@x.com", "Password123")

	rec := ts.do(t, http.MethodPut, "/api/v1/users/me/password", map[string]string{
		"currentPassword":         "Password123",
		"newPassword":             "NewPassword456",
		"newPasswordConfirmation": "NewPassword456",
	}, access)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The old refresh token's session was revoked.
	afterChange := ts.do(t, http.MethodPost, "/api/v1/sessions/refresh", nil, refresh)
	assert.Equal(t, http.StatusUnauthorized, afterChange.Code)

	// Old password no longer works; new one does.
	old := ts.do(t, http.MethodPost, "/api/v1/sessions", map[string]string{
		"email": "a@x.com", "password": "Password123",
	})
	assert.Equal(t, http.StatusUnauthorized, old.Code)
	ts.login(t, "a@x.com", "NewPassword456")
}

func TestIdentityFromBearerHeader(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "a@x.com", "Password123")
	access, _ := ts.login(t, "a@x.com", "Password123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+access.Value)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
