package server

import (
	"errors"
	"net/http"

	"github.com/Pavanreddy56/BKI-company/internal/models"
	"github.com/Pavanreddy56/BKI-company/internal/response"
	"github.com/Pavanreddy56/BKI-company/internal/store"
	"github.com/Pavanreddy56/BKI-company/internal/validation"
)

type createMessageRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Subject *string `json:"subject"`
	Message string  `json:"message"`
}

func (s *Server) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	var req createMessageRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "name", req.Name)
	validation.RequireField(ve, "email", req.Email)
	validation.ValidateEmail(ve, "email", req.Email)
	validation.RequireField(ve, "message", req.Message)
	validation.ValidateMaxLength(ve, "message", req.Message, validation.MaxTextLength)
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}

	msg := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := s.store.CreateMessage(r.Context(), msg); err != nil {
		s.serverError(w, "create message", err)
		return
	}
	s.hub.BroadcastChange("message", "create", msg.ID)
	response.JSON(w, http.StatusCreated, msg)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.store.GetAllMessages(r.Context())
	if err != nil {
		s.serverError(w, "list messages", err)
		return
	}
	response.JSON(w, http.StatusOK, messages)
}

func (s *Server) handleMarkMessageRead(w http.ResponseWriter, r *http.Request, seg string) {
	id, ok := pathID(w, seg)
	if !ok {
		return
	}
	if err := s.store.MarkMessageRead(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Err(w, "message not found", http.StatusNotFound)
			return
		}
		s.serverError(w, "mark message read", err)
		return
	}
	s.hub.BroadcastChange("message", "update", id)
	response.JSON(w, http.StatusOK, map[string]string{"message": "marked as read"})
}
