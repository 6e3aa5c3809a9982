package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Pavanreddy56/BKI-company/internal/auth"
	"github.com/Pavanreddy56/BKI-company/internal/config"
	"github.com/Pavanreddy56/BKI-company/internal/models"
	"github.com/Pavanreddy56/BKI-company/internal/store"
	"github.com/Pavanreddy56/BKI-company/internal/websocket"
)

func newTestServer() (*Server, *store.MemoryStore) {
	st := store.NewMemoryStore()
	logger := zap.NewNop()
	return New(st, logger, websocket.NewHub(logger), &config.Config{SessionTTL: time.Hour}, "memory"), st
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	require.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	// HSTS only applies over TLS.
	require.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	srv, _ := newTestServer()
	called := false
	handler := srv.logRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/api/products", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	require.False(t, called, "preflight must not reach the handler")
}

func TestWithSessionResolvesUser(t *testing.T) {
	srv, st := newTestServer()
	user := &models.User{Role: "client", PasswordHash: "x"}
	require.NoError(t, st.UpsertUser(context.Background(), user))
	sess := &models.Session{
		Token:     auth.NewSessionToken(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, st.CreateSession(context.Background(), sess))

	var gotID, gotRole string
	handler := srv.withSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = userID(r)
		gotRole = role(r)
	}))

	req := httptest.NewRequest("GET", "/api/auth/user", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sess.Token})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, user.ID, gotID)
	require.Equal(t, "client", gotRole)
}

func TestWithSessionDropsExpiredSession(t *testing.T) {
	srv, st := newTestServer()
	user := &models.User{Role: "client", PasswordHash: "x"}
	require.NoError(t, st.UpsertUser(context.Background(), user))
	sess := &models.Session{
		Token:     auth.NewSessionToken(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, st.CreateSession(context.Background(), sess))

	handler := srv.withSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, userID(r))
	}))

	req := httptest.NewRequest("GET", "/api/auth/user", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sess.Token})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	// The expired session is deleted, not just ignored.
	_, err := st.GetSession(context.Background(), sess.Token)
	require.ErrorIs(t, err, store.ErrNotFound)
}
