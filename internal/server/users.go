package server

import (
	"errors"
	"net/http"

	"github.com/Pavanreddy56/BKI-company/internal/response"
	"github.com/Pavanreddy56/BKI-company/internal/store"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.GetAllUsers(r.Context())
	if err != nil {
		s.serverError(w, "list users", err)
		return
	}
	response.JSON(w, http.StatusOK, users)
}

// handleGetUserDetail returns a user together with their portal records.
func (s *Server) handleGetUserDetail(w http.ResponseWriter, r *http.Request, id string) {
	user, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Err(w, "user not found", http.StatusNotFound)
			return
		}
		s.serverError(w, "get user", err)
		return
	}

	quotes, err := s.store.GetQuotesByUser(r.Context(), id)
	if err != nil {
		s.serverError(w, "list user quotes", err)
		return
	}
	shipments, err := s.store.GetShipmentsByUser(r.Context(), id)
	if err != nil {
		s.serverError(w, "list user shipments", err)
		return
	}
	invoices, err := s.store.GetInvoicesByUser(r.Context(), id)
	if err != nil {
		s.serverError(w, "list user invoices", err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"user":      user,
		"quotes":    quotes,
		"shipments": shipments,
		"invoices":  invoices,
	})
}
