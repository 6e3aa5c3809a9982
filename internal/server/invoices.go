package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/Pavanreddy56/BKI-company/internal/models"
	"github.com/Pavanreddy56/BKI-company/internal/response"
	"github.com/Pavanreddy56/BKI-company/internal/store"
	"github.com/Pavanreddy56/BKI-company/internal/validation"
)

func (s *Server) handleMyInvoices(w http.ResponseWriter, r *http.Request) {
	id := s.requireUser(w, r)
	if id == "" {
		return
	}
	invoices, err := s.store.GetInvoicesByUser(r.Context(), id)
	if err != nil {
		s.serverError(w, "list user invoices", err)
		return
	}
	response.JSON(w, http.StatusOK, invoices)
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.store.GetAllInvoices(r.Context())
	if err != nil {
		s.serverError(w, "list invoices", err)
		return
	}
	response.JSON(w, http.StatusOK, invoices)
}

type createInvoiceRequest struct {
	UserID        *string    `json:"userId"`
	ShipmentID    *int       `json:"shipmentId"`
	InvoiceNumber string     `json:"invoiceNumber"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	DueDate       *time.Time `json:"dueDate"`
	DocumentURL   *string    `json:"documentUrl"`
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "invoiceNumber", req.InvoiceNumber)
	validation.ValidatePositiveFloat(ve, "amount", req.Amount)
	validation.ValidateMaxAmount(ve, "amount", req.Amount)
	validation.ValidateEnum(ve, "status", req.Status, validation.ValidInvoiceStatuses)
	if req.DocumentURL != nil {
		validation.ValidateURL(ve, "documentUrl", *req.DocumentURL)
	}
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}

	invoice := &models.Invoice{
		UserID:        req.UserID,
		ShipmentID:    req.ShipmentID,
		InvoiceNumber: req.InvoiceNumber,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Status:        req.Status,
		DueDate:       req.DueDate,
		DocumentURL:   req.DocumentURL,
	}
	if err := s.store.CreateInvoice(r.Context(), invoice); err != nil {
		if errors.Is(err, store.ErrConflict) {
			response.Err(w, "invoice number already exists", http.StatusConflict)
			return
		}
		s.serverError(w, "create invoice", err)
		return
	}
	s.hub.BroadcastChange("invoice", "create", invoice.ID)
	response.JSON(w, http.StatusCreated, invoice)
}

func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request, seg string) {
	id, ok := pathID(w, seg)
	if !ok {
		return
	}
	var upd store.InvoiceUpdate
	if err := response.DecodeBody(r, &upd); err != nil {
		response.Err(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ve := &validation.ValidationErrors{}
	if upd.Status != nil {
		validation.ValidateEnum(ve, "status", *upd.Status, validation.ValidInvoiceStatuses)
	}
	if upd.Amount != nil {
		validation.ValidatePositiveFloat(ve, "amount", *upd.Amount)
		validation.ValidateMaxAmount(ve, "amount", *upd.Amount)
	}
	if upd.DocumentURL != nil {
		validation.ValidateURL(ve, "documentUrl", *upd.DocumentURL)
	}
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}

	invoice, err := s.store.UpdateInvoice(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Err(w, "invoice not found", http.StatusNotFound)
			return
		}
		s.serverError(w, "update invoice", err)
		return
	}
	s.hub.BroadcastChange("invoice", "update", invoice.ID)
	response.JSON(w, http.StatusOK, invoice)
}
