package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID         string `json:"id"`
	IsComplete bool   `json:"is_complete"`
}

func TestQuery_ExecuteFiltersAndToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/consultations", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "*", q.Get("select"))
		assert.Equal(t, "eq.u1", q.Get("user_id"))
		assert.Equal(t, "datetime.asc", q.Get("order"))
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		_, _ = io.WriteString(w, `[{"id":"c1"},{"id":"c2","is_complete":true}]`)
	}, Config{})

	var rows []row
	err := c.From("consultations").As("user-token").Select("*").Eq("user_id", "u1").Order("datetime", true).Execute(context.Background(), &rows)
	require.NoError(t, err)
	assert.Equal(t, []row{{ID: "c1"}, {ID: "c2", IsComplete: true}}, rows)
}

func TestQuery_SingleNoRows(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.pgrst.object+json", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusNotAcceptable)
		_, _ = io.WriteString(w, `{"code":"PGRST116","message":"JSON object requested, multiple (or no) rows returned"}`)
	}, Config{})

	var out row
	err := c.From("students").Eq("id", "u1").Single(context.Background(), &out)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestQuery_InsertRepresentation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u1", body["user_id"])
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `[{"id":"c9"}]`)
	}, Config{})

	var out []row
	require.NoError(t, c.From("consultations").Insert(context.Background(), map[string]string{"user_id": "u1"}, &out))
	assert.Equal(t, "c9", out[0].ID)
}

func TestQuery_InsertPostgrestError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"code":"23505","details":"Key (id)=(u1) already exists.","hint":null,"message":"duplicate key value violates unique constraint \"students_pkey\""}`)
	}, Config{})

	err := c.From("students").Insert(context.Background(), map[string]string{"id": "u1"}, nil)
	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, "23505", apiErr.Code)
	assert.Contains(t, apiErr.Message, "duplicate key")
}

func TestQuery_UpdateCountsRows(t *testing.T) {
	matched := true
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.c1", r.URL.Query().Get("id"))
		assert.Equal(t, "eq.u1", r.URL.Query().Get("user_id"))
		if matched {
			_, _ = io.WriteString(w, `[{"id":"c1","is_complete":true}]`)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	}, Config{})

	n, err := c.From("consultations").As("t").Eq("id", "c1").Eq("user_id", "u1").Update(context.Background(), map[string]bool{"is_complete": true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	matched = false
	n, err = c.From("consultations").As("t").Eq("id", "c1").Eq("user_id", "u1").Update(context.Background(), map[string]bool{"is_complete": true})
	require.NoError(t, err)
	assert.Zero(t, n)
}
