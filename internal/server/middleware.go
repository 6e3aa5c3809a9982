package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Pavanreddy56/BKI-company/internal/response"
	"github.com/Pavanreddy56/BKI-company/internal/store"
)

// statusRecorder captures the response status for request logging. It
// forwards Hijack so the websocket upgrade still works behind it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return h.Hijack()
}

// logRequests logs method, path, status and duration. Also sets CORS
// headers and short-circuits preflight requests.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

// SecurityHeaders adds security headers to all responses.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}

// withSession resolves the session cookie into user id and role on the
// request context. Anonymous requests pass through untouched; expired
// sessions are dropped on sight.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		sess, err := s.store.GetSession(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				s.log.Error("session lookup", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}
		if time.Now().After(sess.ExpiresAt) {
			_ = s.store.DeleteSession(r.Context(), sess.Token)
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.store.GetUser(r.Context(), sess.UserID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), CtxUserID, user.ID)
		ctx = context.WithValue(ctx, CtxRole, user.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userID returns the authenticated user id, or "" for anonymous requests.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(CtxUserID).(string)
	return id
}

func role(r *http.Request) string {
	role, _ := r.Context().Value(CtxRole).(string)
	return role
}

// requireUser writes a 401 and returns "" when the request is anonymous.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) string {
	id := userID(r)
	if id == "" {
		response.Err(w, "unauthorized", http.StatusUnauthorized)
	}
	return id
}

// requireAdmin enforces the admin tier: 401 unauthenticated, 403 for
// authenticated non-admins.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if userID(r) == "" {
		response.Err(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	if role(r) != "admin" {
		response.Err(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}
