package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Pavanreddy56/BKI-company/internal/models"
	"github.com/Pavanreddy56/BKI-company/internal/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	srv, _ := testutil.NewServer(t)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/health", nil, ""))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	testutil.Decode(t, w, &body)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "bki-server", body["service"])
	require.Equal(t, "memory", body["storage"])
}

func TestAdminHealthReportsProcessStats(t *testing.T) {
	srv, st := testutil.NewServer(t)
	token := testutil.LoginAdmin(t, st)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/admin/health", nil, token))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	testutil.Decode(t, w, &body)
	require.Equal(t, "ok", body["status"])
	require.Contains(t, body, "uptimeSeconds")
	require.Contains(t, body, "goroutines")
	require.Contains(t, body, "heapAllocMB")
}

func TestAdminUserDetail(t *testing.T) {
	srv, st := testutil.NewServer(t)
	token := testutil.LoginAdmin(t, st)
	user := testutil.CreateUser(t, st, "detail@example.com", "secret-pass-1", "client")

	quote := &models.Quote{
		UserID: &user.ID, CompanyName: "Everest Exports", ContactPerson: "Ram",
		Email: "ram@everest.test", ProductDescription: "Lokta paper", Quantity: "2000",
	}
	require.NoError(t, st.CreateQuote(context.Background(), quote))

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/admin/users/"+user.ID, nil, token))
	require.Equal(t, http.StatusOK, w.Code)

	var detail struct {
		User      models.User       `json:"user"`
		Quotes    []models.Quote    `json:"quotes"`
		Shipments []models.Shipment `json:"shipments"`
		Invoices  []models.Invoice  `json:"invoices"`
	}
	testutil.Decode(t, w, &detail)
	require.Equal(t, user.ID, detail.User.ID)
	require.Len(t, detail.Quotes, 1)
	require.Empty(t, detail.Shipments)
	require.Empty(t, detail.Invoices)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/admin/users/no-such-id", nil, token))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownAPIRoute(t *testing.T) {
	srv, _ := testutil.NewServer(t)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/nothing/here", nil, ""))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRootPathIsNotFound(t *testing.T) {
	srv, st := testutil.NewServer(t)
	token := testutil.LoginAdmin(t, st)

	for _, path := range []string{"/api/admin", "/api/admin/"} {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, testutil.JSONRequest("GET", path, nil, token))
		require.Equal(t, http.StatusNotFound, w.Code, "path %s", path)
	}
}
