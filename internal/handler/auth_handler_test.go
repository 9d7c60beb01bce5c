package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, handlerFn http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	r.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	handlerFn(w, r)
	return w
}

func TestSignupValidation(t *testing.T) {
	// Validation failures reject the request before any store access.
	deps := &AppDeps{}
	handlerFn := HandleSignup(deps)

	cases := []struct {
		name  string
		input SignupInput
	}{
		{"missing email", SignupInput{Fullname: "Amelie Poulain", Username: "amelie", Password: "secret1"}},
		{"invalid email", SignupInput{Email: "not-an-email", Fullname: "Amelie Poulain", Username: "amelie", Password: "secret1"}},
		{"missing fullname", SignupInput{Email: "a@example.com", Username: "amelie", Password: "secret1"}},
		{"short username", SignupInput{Email: "a@example.com", Fullname: "Amelie Poulain", Username: "amel", Password: "secret1"}},
		{"short password", SignupInput{Email: "a@example.com", Fullname: "Amelie Poulain", Username: "amelie", Password: "12345"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, handlerFn, "/api/auth/signup", tc.input)
			assert.NotEqual(t, http.StatusOK, w.Code)
			assert.NotEqual(t, http.StatusCreated, w.Code)
		})
	}
}

func TestSignupRejectsUnknownFields(t *testing.T) {
	deps := &AppDeps{}

	w := postJSON(t, HandleSignup(deps), "/api/auth/signup", map[string]string{
		"email":    "a@example.com",
		"fullname": "Amelie Poulain",
		"username": "amelie",
		"password": "secret1",
		"isAdmin":  "true",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRequiresJSONContentType(t *testing.T) {
	deps := &AppDeps{}

	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	HandleLogin(deps)(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
