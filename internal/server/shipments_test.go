package server_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Pavanreddy56/BKI-company/internal/models"
	"github.com/Pavanreddy56/BKI-company/internal/store"
	"github.com/Pavanreddy56/BKI-company/internal/testutil"
)

func seedShipment(t *testing.T, st store.Store, tracking string) *models.Shipment {
	t.Helper()
	sh := &models.Shipment{
		TrackingNumber: tracking,
		Origin:         "Kathmandu",
		Destination:    "Rotterdam",
	}
	require.NoError(t, st.CreateShipment(context.Background(), sh))
	return sh
}

type trackResponse struct {
	Shipment models.Shipment        `json:"shipment"`
	Events   []models.ShipmentEvent `json:"events"`
}

func TestTrackShipmentIgnoresCase(t *testing.T) {
	srv, st := testutil.NewServer(t)
	sh := seedShipment(t, st, "BKTRACK99")
	require.NoError(t, st.CreateShipmentEvent(context.Background(), &models.ShipmentEvent{
		ShipmentID: sh.ID, Status: "PROCESSING",
	}))

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/shipments/track/bktrack99", nil, ""))
	require.Equal(t, http.StatusOK, w.Code)

	var body trackResponse
	testutil.Decode(t, w, &body)
	require.Equal(t, sh.ID, body.Shipment.ID)
	require.Len(t, body.Events, 1)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/shipments/track/BKNOPE", nil, ""))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminCreateShipment(t *testing.T) {
	srv, st := testutil.NewServer(t)
	token := testutil.LoginAdmin(t, st)

	// Omitted tracking number gets generated with the BK prefix.
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/admin/shipments", map[string]interface{}{
		"origin":      "Kathmandu",
		"destination": "Dubai",
		"status":      "processing",
	}, token))
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Shipment
	testutil.Decode(t, w, &created)
	require.True(t, strings.HasPrefix(created.TrackingNumber, "BK"))
	require.Greater(t, len(created.TrackingNumber), 2)

	// Duplicate explicit tracking numbers are a conflict.
	seedShipment(t, st, "BKFIXED1")
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/admin/shipments", map[string]interface{}{
		"trackingNumber": "BKFIXED1",
		"origin":         "Pokhara",
		"destination":    "Doha",
		"status":         "processing",
	}, token))
	require.Equal(t, http.StatusConflict, w.Code)

	// Bad enum values are itemized.
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/admin/shipments", map[string]interface{}{
		"origin":         "Kathmandu",
		"destination":    "Dubai",
		"status":         "teleporting",
		"shippingMethod": "mule",
		"weight":         -2.0,
	}, token))
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body errorBody
	testutil.Decode(t, w, &body)
	fields := errorFields(body)
	require.True(t, fields["status"])
	require.True(t, fields["shippingMethod"])
	require.True(t, fields["weight"])
}

func TestUpdateShipmentStatusAppendsEvent(t *testing.T) {
	srv, st := testutil.NewServer(t)
	token := testutil.LoginAdmin(t, st)
	sh := seedShipment(t, st, "BKEVT1")

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("PATCH", fmt.Sprintf("/api/admin/shipments/%d", sh.ID), map[string]interface{}{
		"status": "in_transit",
	}, token))
	require.Equal(t, http.StatusOK, w.Code)

	events, err := st.GetShipmentEvents(context.Background(), sh.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "IN TRANSIT", events[0].Status)

	// Re-sending the same status is not a change and adds nothing.
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("PATCH", fmt.Sprintf("/api/admin/shipments/%d", sh.ID), map[string]interface{}{
		"status":  "in_transit",
		"carrier": "Maersk",
	}, token))
	require.Equal(t, http.StatusOK, w.Code)

	events, err = st.GetShipmentEvents(context.Background(), sh.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestAdminShipmentDetailAndDelete(t *testing.T) {
	srv, st := testutil.NewServer(t)
	token := testutil.LoginAdmin(t, st)
	sh := seedShipment(t, st, "BKDETAIL1")
	require.NoError(t, st.CreateShipmentEvent(context.Background(), &models.ShipmentEvent{
		ShipmentID: sh.ID, Status: "PROCESSING",
	}))

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", fmt.Sprintf("/api/admin/shipments/%d", sh.ID), nil, token))
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Shipment  models.Shipment        `json:"shipment"`
		Events    []models.ShipmentEvent `json:"events"`
		Documents []models.Document      `json:"documents"`
	}
	testutil.Decode(t, w, &detail)
	require.Equal(t, sh.ID, detail.Shipment.ID)
	require.Len(t, detail.Events, 1)
	require.Empty(t, detail.Documents)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("DELETE", fmt.Sprintf("/api/admin/shipments/%d", sh.ID), nil, token))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("DELETE", fmt.Sprintf("/api/admin/shipments/%d", sh.ID), nil, token))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminCreateShipmentEvent(t *testing.T) {
	srv, st := testutil.NewServer(t)
	token := testutil.LoginAdmin(t, st)
	sh := seedShipment(t, st, "BKEVT2")

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", fmt.Sprintf("/api/admin/shipments/%d/events", sh.ID), map[string]interface{}{
		"status":   "CUSTOMS CLEARED",
		"location": "Hamburg",
	}, token))
	require.Equal(t, http.StatusCreated, w.Code)
	var event models.ShipmentEvent
	testutil.Decode(t, w, &event)
	require.Equal(t, sh.ID, event.ShipmentID)
	require.Equal(t, "Hamburg", *event.Location)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/admin/shipments/9999/events", map[string]interface{}{
		"status": "CUSTOMS CLEARED",
	}, token))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestConvertQuoteToShipment(t *testing.T) {
	srv, st := testutil.NewServer(t)
	token := testutil.LoginAdmin(t, st)
	user := testutil.CreateUser(t, st, "importer@example.com", "secret-pass-1", "client")

	dest := "Hamburg"
	quote := &models.Quote{
		UserID:             &user.ID,
		CompanyName:        "Everest Exports",
		ContactPerson:      "Ram",
		Email:              "ram@everest.test",
		ProductDescription: "Lokta paper",
		Quantity:           "2000",
		Destination:        &dest,
	}
	require.NoError(t, st.CreateQuote(context.Background(), quote))

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", fmt.Sprintf("/api/admin/quotes/%d/convert", quote.ID), nil, token))
	require.Equal(t, http.StatusCreated, w.Code)

	var shipment models.Shipment
	testutil.Decode(t, w, &shipment)
	require.True(t, strings.HasPrefix(shipment.TrackingNumber, "BK"))
	require.Equal(t, "processing", shipment.Status)
	require.Equal(t, user.ID, *shipment.UserID)
	require.Equal(t, quote.ID, *shipment.QuoteID)
	// Quote destination wins; origin falls back to the default.
	require.Equal(t, "Hamburg", shipment.Destination)
	require.Equal(t, "Nepal", shipment.Origin)
	require.Equal(t, "Lokta paper", *shipment.ProductDescription)

	converted, err := st.GetQuote(context.Background(), quote.ID)
	require.NoError(t, err)
	require.Equal(t, "accepted", converted.Status)

	events, err := st.GetShipmentEvents(context.Background(), shipment.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "SHIPMENT CREATED", events[0].Status)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/admin/quotes/9999/convert", nil, token))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestShipmentUpdatesPolling(t *testing.T) {
	srv, st := testutil.NewServer(t)
	token := testutil.LoginAdmin(t, st)
	seedShipment(t, st, "BKPOLL1")

	cutoff := time.Now().UTC().Add(time.Minute)
	seedShipment(t, st, "BKPOLL2")

	// Without since, everything comes back.
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/admin/shipments/updates", nil, token))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Shipments []models.Shipment `json:"shipments"`
		AsOf      time.Time         `json:"asOf"`
	}
	testutil.Decode(t, w, &body)
	require.Len(t, body.Shipments, 2)
	require.False(t, body.AsOf.IsZero())

	// A future cutoff filters everything out.
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/admin/shipments/updates?since="+cutoff.Format(time.RFC3339), nil, token))
	require.Equal(t, http.StatusOK, w.Code)
	testutil.Decode(t, w, &body)
	require.Empty(t, body.Shipments)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/admin/shipments/updates?since=yesterday", nil, token))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMyShipments(t *testing.T) {
	srv, st := testutil.NewServer(t)
	user := testutil.CreateUser(t, st, "owner@example.com", "secret-pass-1", "client")
	token := testutil.Login(t, st, user)

	sh := &models.Shipment{
		TrackingNumber: "BKMINE1",
		Origin:         "Kathmandu",
		Destination:    "Dubai",
		UserID:         &user.ID,
	}
	require.NoError(t, st.CreateShipment(context.Background(), sh))
	seedShipment(t, st, "BKOTHER1")

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/shipments/my", nil, token))
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.Shipment
	testutil.Decode(t, w, &mine)
	require.Len(t, mine, 1)
	require.Equal(t, "BKMINE1", mine[0].TrackingNumber)
}
