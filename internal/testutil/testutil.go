// Package testutil holds shared helpers for handler and store tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Pavanreddy56/BKI-company/internal/auth"
	"github.com/Pavanreddy56/BKI-company/internal/config"
	"github.com/Pavanreddy56/BKI-company/internal/models"
	"github.com/Pavanreddy56/BKI-company/internal/server"
	"github.com/Pavanreddy56/BKI-company/internal/store"
	"github.com/Pavanreddy56/BKI-company/internal/websocket"
)

// NewServer builds a handler backed by a fresh in-memory store. The
// store is returned too so tests can seed and inspect it directly.
func NewServer(t *testing.T) (http.Handler, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	logger := zap.NewNop()
	hub := websocket.NewHub(logger)
	cfg := &config.Config{Addr: ":0", SessionTTL: time.Hour}
	srv := server.New(st, logger, hub, cfg, "memory")
	return srv.Handler(), st
}

// NewSQLiteStore opens a throwaway on-disk database under t.TempDir.
func NewSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.OpenSQLite(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// CreateUser seeds a user with the given role and returns it.
func CreateUser(t *testing.T, st store.Store, email, password, role string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Email:        &email,
		Role:         role,
		PasswordHash: hash,
	}
	if err := st.UpsertUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// Login creates a session for the user and returns its token.
func Login(t *testing.T, st store.Store, user *models.User) string {
	t.Helper()
	sess := &models.Session{
		Token:     auth.NewSessionToken(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := st.CreateSession(context.Background(), sess); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return sess.Token
}

// LoginAdmin seeds an admin account and returns its session token.
func LoginAdmin(t *testing.T, st store.Store) string {
	t.Helper()
	admin := CreateUser(t, st, "admin@example.com", "changeme123", "admin")
	return Login(t, st, admin)
}

// JSONRequest builds a request with an optional JSON body and session
// cookie.
func JSONRequest(method, path string, body interface{}, sessionToken string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: server.SessionCookie, Value: sessionToken})
	}
	return req
}

// Decode unmarshals a recorded JSON response body into v.
func Decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, w.Body.String())
	}
}
