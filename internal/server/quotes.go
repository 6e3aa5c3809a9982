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

type createQuoteRequest struct {
	CompanyName        string     `json:"companyName"`
	ContactPerson      string     `json:"contactPerson"`
	Email              string     `json:"email"`
	Phone              *string    `json:"phone"`
	ProductDescription string     `json:"productDescription"`
	Quantity           string     `json:"quantity"`
	Unit               *string    `json:"unit"`
	Incoterms          *string    `json:"incoterms"`
	PickupDate         *time.Time `json:"pickupDate"`
	Destination        *string    `json:"destination"`
	Origin             *string    `json:"origin"`
	AdditionalNotes    *string    `json:"additionalNotes"`
	AttachmentURL      *string    `json:"attachmentUrl"`
}

// handleCreateQuote accepts the public quote request form. When the
// caller has a session the quote is attributed to them.
func (s *Server) handleCreateQuote(w http.ResponseWriter, r *http.Request) {
	var req createQuoteRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "companyName", req.CompanyName)
	validation.RequireField(ve, "contactPerson", req.ContactPerson)
	validation.RequireField(ve, "email", req.Email)
	validation.ValidateEmail(ve, "email", req.Email)
	validation.RequireField(ve, "productDescription", req.ProductDescription)
	validation.RequireField(ve, "quantity", req.Quantity)
	if req.AttachmentURL != nil {
		validation.ValidateURL(ve, "attachmentUrl", *req.AttachmentURL)
	}
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}

	quote := &models.Quote{
		CompanyName:        req.CompanyName,
		ContactPerson:      req.ContactPerson,
		Email:              req.Email,
		Phone:              req.Phone,
		ProductDescription: req.ProductDescription,
		Quantity:           req.Quantity,
		Unit:               req.Unit,
		Incoterms:          req.Incoterms,
		PickupDate:         req.PickupDate,
		Destination:        req.Destination,
		Origin:             req.Origin,
		AdditionalNotes:    req.AdditionalNotes,
		AttachmentURL:      req.AttachmentURL,
	}
	if id := userID(r); id != "" {
		quote.UserID = &id
	}
	if err := s.store.CreateQuote(r.Context(), quote); err != nil {
		s.serverError(w, "create quote", err)
		return
	}
	s.hub.BroadcastChange("quote", "create", quote.ID)
	response.JSON(w, http.StatusCreated, quote)
}

func (s *Server) handleMyQuotes(w http.ResponseWriter, r *http.Request) {
	id := s.requireUser(w, r)
	if id == "" {
		return
	}
	quotes, err := s.store.GetQuotesByUser(r.Context(), id)
	if err != nil {
		s.serverError(w, "list user quotes", err)
		return
	}
	response.JSON(w, http.StatusOK, quotes)
}

func (s *Server) handleListQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := s.store.GetAllQuotes(r.Context())
	if err != nil {
		s.serverError(w, "list quotes", err)
		return
	}
	response.JSON(w, http.StatusOK, quotes)
}

func (s *Server) handleUpdateQuote(w http.ResponseWriter, r *http.Request, seg string) {
	id, ok := pathID(w, seg)
	if !ok {
		return
	}
	var upd store.QuoteUpdate
	if err := response.DecodeBody(r, &upd); err != nil {
		response.Err(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ve := &validation.ValidationErrors{}
	if upd.Status != nil {
		validation.ValidateEnum(ve, "status", *upd.Status, validation.ValidQuoteStatuses)
	}
	if upd.QuotedPrice != nil {
		validation.ValidatePositiveFloat(ve, "quotedPrice", *upd.QuotedPrice)
	}
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}

	quote, err := s.store.UpdateQuote(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Err(w, "quote not found", http.StatusNotFound)
			return
		}
		s.serverError(w, "update quote", err)
		return
	}
	s.hub.BroadcastChange("quote", "update", quote.ID)
	response.JSON(w, http.StatusOK, quote)
}
