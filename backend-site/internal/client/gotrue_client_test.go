package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *HTTPAuthClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPAuthClient(srv.URL+"/", "anon-key")
}

func TestSignInWithPassword(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "Secret123" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"access_token":"at","token_type":"bearer","expires_in":3600,
			"user":{"id":"u1","email":"ana@demo.com","user_metadata":{"full_name":"Ana","role":"suporte","organization_id":"org-1"}}
		}`))
	})

	session, err := c.SignInWithPassword(context.Background(), "ana@demo.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, "u1", session.User.ID)
	assert.Equal(t, "suporte", session.User.UserMetadata.Role)
	assert.Equal(t, "org-1", session.User.UserMetadata.OrganizationID)

	_, err = c.SignInWithPassword(context.Background(), "ana@demo.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidGrant)
}

func TestSignUp(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)

		var body struct {
			Email string       `json:"email"`
			Data  UserMetadata `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		switch body.Email {
		case "taken@demo.com":
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error_code":"user_already_exists","msg":"User already registered"}`))
		case "confirm@demo.com":
			_, _ = w.Write([]byte(`{"id":"u2","email":"confirm@demo.com","user_metadata":{"role":"` + body.Data.Role + `"}}`))
		default:
			_, _ = w.Write([]byte(`{"access_token":"at","user":{"id":"u3","email":"` + body.Email + `"}}`))
		}
	})
	ctx := context.Background()
	meta := UserMetadata{FullName: "Novo", Role: "suporte", OrganizationID: "org-1"}

	user, err := c.SignUp(ctx, "confirm@demo.com", "Secret123", meta)
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
	assert.Equal(t, "suporte", user.UserMetadata.Role)

	user, err = c.SignUp(ctx, "auto@demo.com", "Secret123", meta)
	require.NoError(t, err)
	assert.Equal(t, "u3", user.ID)

	_, err = c.SignUp(ctx, "taken@demo.com", "Secret123", meta)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRecover(t *testing.T) {
	var got map[string]string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/recover", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	require.NoError(t, c.Recover(context.Background(), "ana@demo.com", "https://demo.intellicor.com.br/login"))
	assert.Equal(t, "ana@demo.com", got["email"])
	assert.Equal(t, "https://demo.intellicor.com.br/login", got["redirect_to"])
}

func TestServerError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"msg":"boom"}`))
	})

	err := c.Recover(context.Background(), "ana@demo.com", "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Message)
}
