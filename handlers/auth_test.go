package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterBody() map[string]interface{} {
	return map[string]interface{}{
		"email":             "anna@example.com",
		"password":          "Str0ng!Pass",
		"first_name":        "Anna",
		"age":               28,
		"gender":            "female",
		"gender_preference": "male",
	}
}

func TestRegisterEndpoint(t *testing.T) {
	ts, mailer := newTestServer(t)

	w := doJSON(t, ts.router, http.MethodPost, "/api/register", "", validRegisterBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["userId"])
	assert.NotEmpty(t, mailer.tokens["anna@example.com"])

	t.Run("duplicate email", func(t *testing.T) {
		w := doJSON(t, ts.router, http.MethodPost, "/api/register", "", validRegisterBody())
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("weak password", func(t *testing.T) {
		body := validRegisterBody()
		body["email"] = "weak@example.com"
		body["password"] = "weakpass"
		w := doJSON(t, ts.router, http.MethodPost, "/api/register", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("underage", func(t *testing.T) {
		body := validRegisterBody()
		body["email"] = "kid@example.com"
		body["age"] = 17
		w := doJSON(t, ts.router, http.MethodPost, "/api/register", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad gender preference", func(t *testing.T) {
		body := validRegisterBody()
		body["email"] = "pref@example.com"
		body["gender_preference"] = "everyone"
		w := doJSON(t, ts.router, http.MethodPost, "/api/register", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoginAndVerifyFlow(t *testing.T) {
	ts, mailer := newTestServer(t)

	w := doJSON(t, ts.router, http.MethodPost, "/api/register", "", validRegisterBody())
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, ts.router, http.MethodPost, "/api/login", "", map[string]interface{}{
		"email":    "anna@example.com",
		"password": "Str0ng!Pass",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, false, body["is_verified"])

	// Unverified users cannot reach protected endpoints
	w = doJSON(t, ts.router, http.MethodGet, "/api/profile/me", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Verify with the emailed token, then access succeeds
	verifyToken := mailer.tokens["anna@example.com"]
	require.NotEmpty(t, verifyToken)
	w = doJSON(t, ts.router, http.MethodGet, "/api/verify-email?token="+verifyToken, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, ts.router, http.MethodGet, "/api/profile/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	t.Run("wrong password", func(t *testing.T) {
		w := doJSON(t, ts.router, http.MethodPost, "/api/login", "", map[string]interface{}{
			"email":    "anna@example.com",
			"password": "WrongPass1!",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad verification token", func(t *testing.T) {
		w := doJSON(t, ts.router, http.MethodGet, "/api/verify-email?token=nope", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("resend after verified", func(t *testing.T) {
		w := doJSON(t, ts.router, http.MethodPost, "/api/resend-verification", "", map[string]interface{}{
			"email": "anna@example.com",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestProtectedRequiresToken(t *testing.T) {
	ts, _ := newTestServer(t)

	w := doJSON(t, ts.router, http.MethodGet, "/api/profile/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, ts.router, http.MethodGet, "/api/profile/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
