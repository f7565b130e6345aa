package middleware

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"job-portal/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubVerifier struct {
	claims jwt.Claims
	err    error
}

func (s stubVerifier) ValidateAccessToken(string) (jwt.Claims, error) {
	return s.claims, s.err
}

func newApp(t *testing.T, v jwt.Verifier) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(zaptest.NewLogger(t)).Middleware())
	app.Use(NewErrorMiddleware(zaptest.NewLogger(t)).Middleware())
	app.Get("/me", NewAuthMiddleware(v).Middleware(), func(c fiber.Ctx) error {
		return c.SendString(c.Locals(CtxUserIDKey).(uuid.UUID).String())
	})
	return app
}

func decodeMessage(t *testing.T, app *fiber.App, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body.Message
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		verifier   stubVerifier
		header     string
		wantStatus int
		wantMsg    string
	}{
		{name: "missing header", header: "", wantStatus: 401, wantMsg: "Unauthorized"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: 401, wantMsg: "Unauthorized"},
		{name: "expired", header: "Bearer t", verifier: stubVerifier{err: jwt.ErrTokenExpired}, wantStatus: 401, wantMsg: "Token expired"},
		{name: "invalid", header: "Bearer t", verifier: stubVerifier{err: jwt.ErrTokenInvalid}, wantStatus: 401, wantMsg: "Invalid token"},
		{name: "valid", header: "bearer t", verifier: stubVerifier{claims: jwt.Claims{UserID: userID}}, wantStatus: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := decodeMessage(t, newApp(t, tt.verifier), tt.header)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, msg)
			}
		})
	}
}

func TestBearerTokenFromHeader(t *testing.T) {
	tok, ok := bearerTokenFromHeader("  Bearer   abc.def  ")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", tok)

	for _, h := range []string{"", "Bearer", "Bearer   ", "Token abc"} {
		_, ok := bearerTokenFromHeader(h)
		assert.False(t, ok, h)
	}
}

func TestNormalizeError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "app error", err: NewAppError(404, "Notification not found", nil, nil), wantStatus: 404, wantMsg: "Notification not found"},
		{name: "app error without message", err: NewAppError(409, "", nil, nil), wantStatus: 409, wantMsg: "conflict"},
		{name: "app error 5xx masked", err: NewAppError(503, "db exploded", nil, errors.New("x")), wantStatus: 500, wantMsg: "internal server error"},
		{name: "fiber error", err: fiber.ErrNotFound, wantStatus: 404, wantMsg: "Not Found"},
		{name: "plain error", err: errors.New("boom"), wantStatus: 500, wantMsg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg, _ := normalizeError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestErrorMiddleware_RecoversPanic(t *testing.T) {
	app := fiber.New()
	app.Use(NewErrorMiddleware(zaptest.NewLogger(t)).Middleware())
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("kaboom")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestAccessLog_SetsRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(nil).Middleware())
	app.Get("/ping", func(c fiber.Ctx) error { return c.SendString("pong") })

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "rid-1", resp.Header.Get("X-Request-ID"))

	resp, err = app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
