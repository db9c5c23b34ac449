package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"courseplatform/backend/importer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "password123" {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "error": "Unauthorized", "message": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"token": "t1", "user": map[string]interface{}{"id": 1, "email": body["email"], "role": "admin"}},
		})
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t1" {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Invalid token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"token": "t2", "user": map[string]interface{}{"id": 1, "email": "ana@example.com"}},
		})
	})
	mux.HandleFunc("/api/courses/7/import", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		var p importer.Payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"counts": map[string]int{"modules": len(p.Modules), "topics": 0, "lessons": 0}},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSessionLifecycle(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	store := NewFileSessionStore(filepath.Join(t.TempDir(), "nested", "session.json"))
	c := New(srv.URL+"/api", store)

	_, err := c.Refresh(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = c.Login(ctx, "ana@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid email or password", apiErr.Message)

	session, err := c.Login(ctx, "ana@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "t1", session.Token)
	assert.Equal(t, "ana@example.com", session.User.Email)

	restored := New(srv.URL+"/api", store)
	got, err := restored.Restore()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t1", got.Token)

	counts, err := restored.Import(ctx, 7, &importer.Payload{Modules: []importer.Module{{Title: "A"}, {Title: "B"}}})
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Modules)

	session, err = restored.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t2", session.Token)
	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "t2", saved.Token)

	require.NoError(t, restored.Logout())
	assert.Nil(t, restored.Session())
	saved, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestMemorySessionStore(t *testing.T) {
	s := &MemorySessionStore{}
	got, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, got)

	session := &Session{Token: "x"}
	require.NoError(t, s.Save(session))
	session.Token = "changed"

	got, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "x", got.Token)
	require.NoError(t, s.Clear())
	got, _ = s.Load()
	assert.Nil(t, got)
}
