package validation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestCheck_Valid(t *testing.T) {
	form := signupForm{Name: "Alice", Email: "alice@example.com", Password: "secret123"}
	assert.Nil(t, Check(form))
}

func TestCheck_ReportsJSONFieldNames(t *testing.T) {
	form := signupForm{Name: "Alice", Email: "not-an-email", Password: "short"}

	errs := Check(form)
	require.Len(t, errs, 2)

	assert.Equal(t, map[string]string{"email": "Please include a valid email"}, errs[0])
	assert.Equal(t, map[string]string{"password": "password must be at least 6 characters"}, errs[1])
}

func TestCheck_RequiredMessages(t *testing.T) {
	errs := Check(signupForm{})
	require.Len(t, errs, 3)

	assert.Equal(t, map[string]string{"name": "name is required"}, errs[0])
	assert.Equal(t, map[string]string{"email": "email is required"}, errs[1])
	assert.Equal(t, map[string]string{"password": "password is required"}, errs[2])
}

func TestCheck_OneofMessage(t *testing.T) {
	type setting struct {
		Theme string `json:"theme" validate:"omitempty,oneof=light dark"`
	}

	errs := Check(setting{Theme: "purple"})
	require.Len(t, errs, 1)
	assert.Equal(t, map[string]string{"theme": "theme must be one of: light, dark"}, errs[0])
}

func TestDecodeValid_OK(t *testing.T) {
	body := `{"name":"Alice","email":"alice@example.com","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	form, ok := DecodeValid[signupForm](rec, req)
	require.True(t, ok)
	assert.Equal(t, "Alice", form.Name)
}

func TestDecodeValid_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	_, ok := DecodeValid[signupForm](rec, req)
	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid request body", resp.Message)
}

func TestDecodeValid_ValidationFailure(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Alice"}`))
	rec := httptest.NewRecorder()

	_, ok := DecodeValid[signupForm](rec, req)
	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool                `json:"success"`
		Message string              `json:"message"`
		Errors  []map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Validation failed", resp.Message)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "email is required", resp.Errors[0]["email"])
	assert.Equal(t, "password is required", resp.Errors[1]["password"])
}
