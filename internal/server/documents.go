package server

import (
	"errors"
	"net/http"

	"github.com/Pavanreddy56/BKI-company/internal/models"
	"github.com/Pavanreddy56/BKI-company/internal/response"
	"github.com/Pavanreddy56/BKI-company/internal/store"
	"github.com/Pavanreddy56/BKI-company/internal/validation"
)

func (s *Server) handleMyDocuments(w http.ResponseWriter, r *http.Request) {
	id := s.requireUser(w, r)
	if id == "" {
		return
	}
	documents, err := s.store.GetDocumentsByUser(r.Context(), id)
	if err != nil {
		s.serverError(w, "list user documents", err)
		return
	}
	response.JSON(w, http.StatusOK, documents)
}

type createDocumentRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	FileURL string `json:"fileUrl"`
}

// handleCreateShipmentDocument attaches a document to a shipment and, via
// the shipment, to its owning user.
func (s *Server) handleCreateShipmentDocument(w http.ResponseWriter, r *http.Request, seg string) {
	id, ok := pathID(w, seg)
	if !ok {
		return
	}
	var req createDocumentRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "name", req.Name)
	validation.RequireField(ve, "type", req.Type)
	validation.ValidateEnum(ve, "type", req.Type, validation.ValidDocumentTypes)
	validation.RequireField(ve, "fileUrl", req.FileURL)
	validation.ValidateURL(ve, "fileUrl", req.FileURL)
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}

	shipment, err := s.store.GetShipment(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Err(w, "shipment not found", http.StatusNotFound)
			return
		}
		s.serverError(w, "get shipment", err)
		return
	}

	doc := &models.Document{
		ShipmentID: &shipment.ID,
		UserID:     shipment.UserID,
		Name:       req.Name,
		Type:       req.Type,
		FileURL:    req.FileURL,
	}
	if err := s.store.CreateDocument(r.Context(), doc); err != nil {
		s.serverError(w, "create document", err)
		return
	}
	s.hub.BroadcastChange("document", "create", doc.ID)
	response.JSON(w, http.StatusCreated, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request, seg string) {
	id, ok := pathID(w, seg)
	if !ok {
		return
	}
	if err := s.store.DeleteDocument(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Err(w, "document not found", http.StatusNotFound)
			return
		}
		s.serverError(w, "delete document", err)
		return
	}
	s.hub.BroadcastChange("document", "delete", id)
	response.JSON(w, http.StatusOK, map[string]string{"message": "document deleted"})
}
