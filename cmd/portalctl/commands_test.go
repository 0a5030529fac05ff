package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePortal answers the handful of routes the CLI uses
func fakePortal(t *testing.T) *httptest.Server {
	t.Helper()
	var complete atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "Str0ng!Pass" {
			_, _ = w.Write([]byte(`{"error":"Invalid login credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":{"access_token":"tok-1","token_type":"bearer"},"redirect":"/dashboard"}`))
	})
	mux.HandleFunc("/api/v1/dashboard", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized. Please log in again."}`))
			return
		}
		resp := map[string]interface{}{
			"data": map[string]interface{}{
				"student": map[string]string{"id": "u-1", "first_name": "Jane", "last_name": "Doe"},
				"consultations": []map[string]interface{}{
					{"id": "c-1", "user_id": "u-1", "reason": "Course planning", "datetime": "2030-05-01T09:30:00Z", "is_complete": complete.Load()},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/api/v1/consultations/c-1/toggle", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			IsComplete *bool `json:"isComplete"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		complete.Store(!*body.IsComplete)
		_, _ = w.Write([]byte(`{"data":{}}`))
	})
	mux.HandleFunc("/api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"redirect":"/login"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, tokenFile string, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	base := []string{"portalctl", "--api", srv.URL, "--token-file", tokenFile}
	err := app.Run(append(base, args...))
	return out.String(), err
}

func TestPortalctl_Flow(t *testing.T) {
	srv := fakePortal(t)
	tokenFile := filepath.Join(t.TempDir(), "token")

	_, err := run(t, srv, tokenFile, "list")
	assert.ErrorIs(t, err, errNotLoggedIn)

	_, err = run(t, srv, tokenFile, "login", "--email", "jane@example.com", "--password", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", err.Error())

	out, err := run(t, srv, tokenFile, "login", "--email", "jane@example.com", "--password", "Str0ng!Pass")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in.")
	raw, err := os.ReadFile(tokenFile)
	require.NoError(t, err)
	assert.Equal(t, "tok-1\n", string(raw))

	out, err = run(t, srv, tokenFile, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "c-1")
	assert.Contains(t, out, "pending")

	out, err = run(t, srv, tokenFile, "toggle", "c-1")
	require.NoError(t, err)
	assert.Contains(t, out, "c-1 is now completed")

	out, err = run(t, srv, tokenFile, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")
	_, err = os.Stat(tokenFile)
	assert.True(t, os.IsNotExist(err))
}

func TestResultError(t *testing.T) {
	assert.NoError(t, resultError("", nil))
	assert.EqualError(t, resultError("boom", map[string]string{"a": "b"}), "boom")
	assert.EqualError(t, resultError("", map[string]string{"phone": "Invalid phone number", "email": "Email is required"}),
		"email: Email is required\nphone: Invalid phone number")
}
