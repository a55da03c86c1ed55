package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-api/internal/logging"
	"github.com/taskboard/taskboard-api/internal/ratelimit"
)

// newTestHandler wires a handler against an in-memory store. The rate
// limiter points at an unreachable Redis; limiter failures are logged
// and ignored, so requests still go through.
func newTestHandler(t *testing.T) (*Handler, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	tokens, err := NewJWTService([]byte("test-secret"))
	require.NoError(t, err)

	logger := logging.NewLogger(true)
	svc := NewService(store, NewHasher(4), tokens, logger, time.Hour)
	limiter := ratelimit.NewLimiter(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))

	return NewHandler(svc, limiter, logger), store
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandler_Signup(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postJSON(t, h.Signup, "/api/auth/signup",
		`{"name":"Alice","email":"alice@example.com","password":"secret123"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Alice", resp.User.Name)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.User.ID)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestHandler_Signup_ValidationFailure(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postJSON(t, h.Signup, "/api/auth/signup",
		`{"name":"Alice","email":"not-an-email","password":"123"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool                `json:"success"`
		Message string              `json:"message"`
		Errors  []map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Validation failed", resp.Message)
	assert.Len(t, resp.Errors, 2)
}

func TestHandler_Signup_DuplicateEmail(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postJSON(t, h.Signup, "/api/auth/signup",
		`{"name":"Alice","email":"alice@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, h.Signup, "/api/auth/signup",
		`{"name":"Alice Again","email":"alice@example.com","password":"other456"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists")
}

func TestHandler_Login(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postJSON(t, h.Signup, "/api/auth/signup",
		`{"name":"Alice","email":"alice@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, h.Login, "/api/auth/login",
		`{"email":"alice@example.com","password":"secret123"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logged in successfully")
	assert.Contains(t, rec.Body.String(), `"token"`)
}

func TestHandler_Login_InvalidCredentials(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postJSON(t, h.Signup, "/api/auth/signup",
		`{"name":"Alice","email":"alice@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, body := range []string{
		`{"email":"alice@example.com","password":"wrong-password"}`,
		`{"email":"nobody@example.com","password":"secret123"}`,
	} {
		rec := postJSON(t, h.Login, "/api/auth/login", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid credentials")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr only", "10.0.0.1:52000", nil, "10.0.0.1"},
		{"x-forwarded-for single", "10.0.0.1:52000", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "203.0.113.7"},
		{"x-forwarded-for chain", "10.0.0.1:52000", map[string]string{"X-Forwarded-For": "203.0.113.7, 70.41.3.18"}, "203.0.113.7"},
		{"x-real-ip", "10.0.0.1:52000", map[string]string{"X-Real-IP": "198.51.100.2"}, "198.51.100.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
