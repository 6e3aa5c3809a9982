package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Pavanreddy56/BKI-company/internal/models"
	"github.com/Pavanreddy56/BKI-company/internal/response"
	"github.com/Pavanreddy56/BKI-company/internal/store"
	"github.com/Pavanreddy56/BKI-company/internal/validation"
)

// newTrackingNumber builds a "BK"-prefixed tracking number from the
// current unix-millisecond clock in base 36. Uniqueness rests on the
// millisecond resolution; the store's unique constraint catches the
// pathological collision.
func newTrackingNumber() string {
	return "BK" + strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
}

// eventStatus renders a shipment status for the timeline, e.g.
// "in_transit" becomes "IN TRANSIT".
func eventStatus(status string) string {
	return strings.ToUpper(strings.ReplaceAll(status, "_", " "))
}

func (s *Server) handleTrackShipment(w http.ResponseWriter, r *http.Request, trackingNumber string) {
	shipment, err := s.store.GetShipmentByTracking(r.Context(), trackingNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Err(w, "shipment not found", http.StatusNotFound)
			return
		}
		s.serverError(w, "track shipment", err)
		return
	}
	events, err := s.store.GetShipmentEvents(r.Context(), shipment.ID)
	if err != nil {
		s.serverError(w, "load shipment events", err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"shipment": shipment,
		"events":   events,
	})
}

func (s *Server) handleMyShipments(w http.ResponseWriter, r *http.Request) {
	id := s.requireUser(w, r)
	if id == "" {
		return
	}
	shipments, err := s.store.GetShipmentsByUser(r.Context(), id)
	if err != nil {
		s.serverError(w, "list user shipments", err)
		return
	}
	response.JSON(w, http.StatusOK, shipments)
}

func (s *Server) handleListShipments(w http.ResponseWriter, r *http.Request) {
	shipments, err := s.store.GetAllShipments(r.Context())
	if err != nil {
		s.serverError(w, "list shipments", err)
		return
	}
	response.JSON(w, http.StatusOK, shipments)
}

// handleShipmentUpdates is the polling fallback for clients without the
// websocket feed: shipments changed since the given RFC3339 timestamp.
func (s *Server) handleShipmentUpdates(w http.ResponseWriter, r *http.Request) {
	shipments, err := s.store.GetAllShipments(r.Context())
	if err != nil {
		s.serverError(w, "list shipments", err)
		return
	}
	if sinceParam := r.URL.Query().Get("since"); sinceParam != "" {
		since, err := time.Parse(time.RFC3339, sinceParam)
		if err != nil {
			response.Err(w, "invalid since timestamp", http.StatusBadRequest)
			return
		}
		changed := make([]models.Shipment, 0)
		for _, sh := range shipments {
			if sh.UpdatedAt.After(since) {
				changed = append(changed, sh)
			}
		}
		shipments = changed
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"shipments": shipments,
		"asOf":      time.Now().UTC(),
	})
}

func (s *Server) handleGetShipmentDetail(w http.ResponseWriter, r *http.Request, seg string) {
	id, ok := pathID(w, seg)
	if !ok {
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
	events, err := s.store.GetShipmentEvents(r.Context(), id)
	if err != nil {
		s.serverError(w, "load shipment events", err)
		return
	}
	documents, err := s.store.GetDocumentsByShipment(r.Context(), id)
	if err != nil {
		s.serverError(w, "load shipment documents", err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"shipment":  shipment,
		"events":    events,
		"documents": documents,
	})
}

type createShipmentRequest struct {
	UserID             *string    `json:"userId"`
	QuoteID            *int       `json:"quoteId"`
	TrackingNumber     string     `json:"trackingNumber"`
	Origin             string     `json:"origin"`
	Destination        string     `json:"destination"`
	Carrier            *string    `json:"carrier"`
	ShippingMethod     *string    `json:"shippingMethod"`
	Status             string     `json:"status"`
	EstimatedDelivery  *time.Time `json:"estimatedDelivery"`
	Weight             *float64   `json:"weight"`
	ProductDescription *string    `json:"productDescription"`
}

func (s *Server) handleCreateShipment(w http.ResponseWriter, r *http.Request) {
	var req createShipmentRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.TrackingNumber == "" {
		req.TrackingNumber = newTrackingNumber()
	}

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "origin", req.Origin)
	validation.RequireField(ve, "destination", req.Destination)
	validation.ValidateEnum(ve, "status", req.Status, validation.ValidShipmentStatuses)
	if req.ShippingMethod != nil {
		validation.ValidateEnum(ve, "shippingMethod", *req.ShippingMethod, validation.ValidShippingMethods)
	}
	if req.Weight != nil {
		validation.ValidatePositiveFloat(ve, "weight", *req.Weight)
	}
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}

	shipment := &models.Shipment{
		UserID:             req.UserID,
		QuoteID:            req.QuoteID,
		TrackingNumber:     req.TrackingNumber,
		Origin:             req.Origin,
		Destination:        req.Destination,
		Carrier:            req.Carrier,
		ShippingMethod:     req.ShippingMethod,
		Status:             req.Status,
		EstimatedDelivery:  req.EstimatedDelivery,
		Weight:             req.Weight,
		ProductDescription: req.ProductDescription,
	}
	if err := s.store.CreateShipment(r.Context(), shipment); err != nil {
		if errors.Is(err, store.ErrConflict) {
			response.Err(w, "tracking number already exists", http.StatusConflict)
			return
		}
		s.serverError(w, "create shipment", err)
		return
	}
	s.hub.BroadcastChange("shipment", "create", shipment.ID)
	response.JSON(w, http.StatusCreated, shipment)
}

func (s *Server) handleUpdateShipment(w http.ResponseWriter, r *http.Request, seg string) {
	id, ok := pathID(w, seg)
	if !ok {
		return
	}
	var upd store.ShipmentUpdate
	if err := response.DecodeBody(r, &upd); err != nil {
		response.Err(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ve := &validation.ValidationErrors{}
	if upd.Status != nil {
		validation.ValidateEnum(ve, "status", *upd.Status, validation.ValidShipmentStatuses)
	}
	if upd.ShippingMethod != nil {
		validation.ValidateEnum(ve, "shippingMethod", *upd.ShippingMethod, validation.ValidShippingMethods)
	}
	if upd.Weight != nil {
		validation.ValidatePositiveFloat(ve, "weight", *upd.Weight)
	}
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}

	previous, err := s.store.GetShipment(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Err(w, "shipment not found", http.StatusNotFound)
			return
		}
		s.serverError(w, "get shipment", err)
		return
	}

	shipment, err := s.store.UpdateShipment(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Err(w, "shipment not found", http.StatusNotFound)
			return
		}
		s.serverError(w, "update shipment", err)
		return
	}

	// A status change gets its own timeline entry. The previous status
	// was read before the update without a lock, so two concurrent
	// PATCHes to the same status can both see the old value and append
	// duplicate entries; the timeline is informational and admin-driven,
	// so we accept that instead of a store-level compare-and-set.
	if upd.Status != nil && *upd.Status != previous.Status {
		desc := "Status updated"
		event := &models.ShipmentEvent{
			ShipmentID:  shipment.ID,
			Status:      eventStatus(*upd.Status),
			Description: &desc,
		}
		if err := s.store.CreateShipmentEvent(r.Context(), event); err != nil {
			s.serverError(w, "append status event", err)
			return
		}
	}

	s.hub.BroadcastChange("shipment", "update", shipment.ID)
	response.JSON(w, http.StatusOK, shipment)
}

func (s *Server) handleDeleteShipment(w http.ResponseWriter, r *http.Request, seg string) {
	id, ok := pathID(w, seg)
	if !ok {
		return
	}
	if err := s.store.DeleteShipment(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Err(w, "shipment not found", http.StatusNotFound)
			return
		}
		s.serverError(w, "delete shipment", err)
		return
	}
	s.hub.BroadcastChange("shipment", "delete", id)
	response.JSON(w, http.StatusOK, map[string]string{"message": "shipment deleted"})
}

type createEventRequest struct {
	Status      string  `json:"status"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

func (s *Server) handleCreateShipmentEvent(w http.ResponseWriter, r *http.Request, seg string) {
	id, ok := pathID(w, seg)
	if !ok {
		return
	}
	var req createEventRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "status", req.Status)
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}

	if _, err := s.store.GetShipment(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Err(w, "shipment not found", http.StatusNotFound)
			return
		}
		s.serverError(w, "get shipment", err)
		return
	}

	event := &models.ShipmentEvent{
		ShipmentID:  id,
		Status:      req.Status,
		Location:    req.Location,
		Description: req.Description,
	}
	if err := s.store.CreateShipmentEvent(r.Context(), event); err != nil {
		s.serverError(w, "create shipment event", err)
		return
	}
	s.hub.BroadcastChange("shipment", "update", id)
	response.JSON(w, http.StatusCreated, event)
}

// handleConvertQuote turns a quote into a shipment: a fresh tracking
// number, the quote's user and cargo details carried over, the quote
// flipped to accepted, and an opening timeline event. The three writes
// are sequential store calls; a crash in between can leave a shipment
// without the quote marked accepted, which an admin can repair by hand.
func (s *Server) handleConvertQuote(w http.ResponseWriter, r *http.Request, seg string) {
	id, ok := pathID(w, seg)
	if !ok {
		return
	}
	quote, err := s.store.GetQuote(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Err(w, "quote not found", http.StatusNotFound)
			return
		}
		s.serverError(w, "get quote", err)
		return
	}

	origin := "Nepal"
	if quote.Origin != nil && *quote.Origin != "" {
		origin = *quote.Origin
	}
	destination := "TBD"
	if quote.Destination != nil && *quote.Destination != "" {
		destination = *quote.Destination
	}

	shipment := &models.Shipment{
		UserID:             quote.UserID,
		QuoteID:            &quote.ID,
		TrackingNumber:     newTrackingNumber(),
		Origin:             origin,
		Destination:        destination,
		Status:             "processing",
		ProductDescription: &quote.ProductDescription,
	}
	if err := s.store.CreateShipment(r.Context(), shipment); err != nil {
		s.serverError(w, "create shipment from quote", err)
		return
	}

	accepted := "accepted"
	if _, err := s.store.UpdateQuote(r.Context(), quote.ID, store.QuoteUpdate{Status: &accepted}); err != nil {
		s.serverError(w, "mark quote accepted", err)
		return
	}

	desc := "Shipment created from quote"
	event := &models.ShipmentEvent{
		ShipmentID:  shipment.ID,
		Status:      "SHIPMENT CREATED",
		Description: &desc,
	}
	if err := s.store.CreateShipmentEvent(r.Context(), event); err != nil {
		s.serverError(w, "create opening event", err)
		return
	}

	s.hub.BroadcastChange("shipment", "create", shipment.ID)
	response.JSON(w, http.StatusCreated, shipment)
}
