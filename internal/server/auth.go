package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Pavanreddy56/BKI-company/internal/auth"
	"github.com/Pavanreddy56/BKI-company/internal/models"
	"github.com/Pavanreddy56/BKI-company/internal/response"
	"github.com/Pavanreddy56/BKI-company/internal/store"
	"github.com/Pavanreddy56/BKI-company/internal/validation"
)

type registerRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	CompanyName *string `json:"companyName"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Country     *string `json:"country"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "email", req.Email)
	validation.ValidateEmail(ve, "email", req.Email)
	validation.ValidatePassword(ve, "password", req.Password)
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}

	if _, err := s.store.GetUserByEmail(r.Context(), req.Email); err == nil {
		response.Err(w, "email already registered", http.StatusConflict)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		s.serverError(w, "register lookup", err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.serverError(w, "hash password", err)
		return
	}

	user := &models.User{
		Email:        &req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CompanyName:  req.CompanyName,
		Phone:        req.Phone,
		Address:      req.Address,
		Country:      req.Country,
		Role:         "client",
		PasswordHash: hash,
	}
	if err := s.store.UpsertUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			response.Err(w, "email already registered", http.StatusConflict)
			return
		}
		s.serverError(w, "create user", err)
		return
	}

	s.issueSession(w, r, user)
	response.JSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Err(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		s.serverError(w, "login lookup", err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		response.Err(w, "invalid email or password", http.StatusUnauthorized)
		return
	}

	s.issueSession(w, r, user)
	response.JSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		_ = s.store.DeleteSession(r.Context(), cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	response.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	id := s.requireUser(w, r)
	if id == "" {
		return
	}
	user, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		s.serverError(w, "load current user", err)
		return
	}
	response.JSON(w, http.StatusOK, user)
}

// issueSession creates a session row and sets the cookie. Failures are
// logged but do not fail the request that triggered them; the caller has
// already been authenticated.
func (s *Server) issueSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	sess := &models.Session{
		Token:     auth.NewSessionToken(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.cfg.SessionTTL),
	}
	if err := s.store.CreateSession(r.Context(), sess); err != nil {
		s.log.Error("create session", zap.Error(err))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
		Expires:  sess.ExpiresAt,
	})
}
