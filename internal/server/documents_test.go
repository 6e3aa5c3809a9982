package server_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Pavanreddy56/BKI-company/internal/models"
	"github.com/Pavanreddy56/BKI-company/internal/testutil"
)

func TestAdminAttachShipmentDocument(t *testing.T) {
	srv, st := testutil.NewServer(t)
	token := testutil.LoginAdmin(t, st)
	owner := testutil.CreateUser(t, st, "consignee@example.com", "secret-pass-1", "client")

	sh := &models.Shipment{
		TrackingNumber: "BKDOC1",
		Origin:         "Kathmandu",
		Destination:    "Rotterdam",
		UserID:         &owner.ID,
	}
	require.NoError(t, st.CreateShipment(context.Background(), sh))

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", fmt.Sprintf("/api/admin/shipments/%d/documents", sh.ID), map[string]interface{}{
		"name":    "Bill of lading",
		"type":    "bill_of_lading",
		"fileUrl": "https://files.test/bol.pdf",
	}, token))
	require.Equal(t, http.StatusCreated, w.Code)

	var doc models.Document
	testutil.Decode(t, w, &doc)
	require.Equal(t, sh.ID, *doc.ShipmentID)
	// The document inherits the shipment's owner.
	require.Equal(t, owner.ID, *doc.UserID)

	// It shows up under the owner's portal listing.
	ownerToken := testutil.Login(t, st, owner)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/documents/my", nil, ownerToken))
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.Document
	testutil.Decode(t, w, &mine)
	require.Len(t, mine, 1)
	require.Equal(t, doc.ID, mine[0].ID)

	// Unknown shipment and bad type are rejected.
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/admin/shipments/9999/documents", map[string]interface{}{
		"name":    "Bill of lading",
		"type":    "bill_of_lading",
		"fileUrl": "https://files.test/bol.pdf",
	}, token))
	require.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", fmt.Sprintf("/api/admin/shipments/%d/documents", sh.ID), map[string]interface{}{
		"name":    "Mystery file",
		"type":    "selfie",
		"fileUrl": "ftp://files.test/x",
	}, token))
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body errorBody
	testutil.Decode(t, w, &body)
	fields := errorFields(body)
	require.True(t, fields["type"])
	require.True(t, fields["fileUrl"])
}

func TestAdminDeleteDocument(t *testing.T) {
	srv, st := testutil.NewServer(t)
	token := testutil.LoginAdmin(t, st)

	doc := &models.Document{Name: "Packing list", Type: "packing_list", FileURL: "https://files.test/pl.pdf"}
	require.NoError(t, st.CreateDocument(context.Background(), doc))

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("DELETE", fmt.Sprintf("/api/admin/documents/%d", doc.ID), nil, token))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("DELETE", fmt.Sprintf("/api/admin/documents/%d", doc.ID), nil, token))
	require.Equal(t, http.StatusNotFound, w.Code)
}
