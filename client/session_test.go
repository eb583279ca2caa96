package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authServer(t *testing.T, validToken string, user User) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+validToken {
			writeAPIError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			return
		}
		writeData(w, http.StatusOK, user)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds", "token")
	store := NewFileTokenStore(path)

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("secret-token"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "secret-token", token)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear()) // idempotent

	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestRestoreWithValidCredential(t *testing.T) {
	user := User{ID: "u-1", Name: "Alice", Email: "alice@example.com", Role: "user"}
	srv := authServer(t, "good-token", user)

	api := New(srv.URL)
	store := &memTokenStore{token: "good-token"}
	session := NewSession(api, store)

	require.NoError(t, session.Restore(context.Background()))

	require.True(t, session.Authenticated())
	assert.Equal(t, "alice@example.com", session.Current().Email)
	assert.Equal(t, "good-token", api.Token())
}

func TestRestoreWithoutCredential(t *testing.T) {
	srv := authServer(t, "good-token", User{})

	api := New(srv.URL)
	session := NewSession(api, &memTokenStore{})

	require.NoError(t, session.Restore(context.Background()))
	assert.False(t, session.Authenticated())
}

func TestRestoreDiscardsRejectedCredential(t *testing.T) {
	srv := authServer(t, "good-token", User{})

	api := New(srv.URL)
	store := &memTokenStore{token: "stale-token"}
	session := NewSession(api, store)

	require.NoError(t, session.Restore(context.Background()))

	assert.False(t, session.Authenticated())
	assert.Empty(t, api.Token())
	stored, _ := store.Load()
	assert.Empty(t, stored)
}

func TestLoginPersistsAndLogoutClears(t *testing.T) {
	api := New("http://unused.invalid")
	store := &memTokenStore{}
	session := NewSession(api, store)

	require.NoError(t, session.Login("fresh-token", User{ID: "u-1", Name: "Alice"}))

	assert.True(t, session.Authenticated())
	stored, _ := store.Load()
	assert.Equal(t, "fresh-token", stored)

	require.NoError(t, session.Logout())

	assert.False(t, session.Authenticated())
	assert.Empty(t, api.Token())
	stored, _ = store.Load()
	assert.Empty(t, stored)
}

func TestCurrentReturnsCopy(t *testing.T) {
	session := NewSession(New("http://unused.invalid"), &memTokenStore{})
	require.NoError(t, session.Login("tok", User{ID: "u-1", Name: "Alice"}))

	session.Current().Name = "Mallory"

	assert.Equal(t, "Alice", session.Current().Name)
}
