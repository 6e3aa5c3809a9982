package server_test

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Pavanreddy56/BKI-company/internal/models"
	"github.com/Pavanreddy56/BKI-company/internal/testutil"
)

func TestExportShipmentsCSV(t *testing.T) {
	srv, st := testutil.NewServer(t)
	token := testutil.LoginAdmin(t, st)
	seedShipment(t, st, "BKCSV1")

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/admin/export/shipments", nil, token))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "shipments.csv")

	rows, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Tracking Number", rows[0][1])
	require.Equal(t, "BKCSV1", rows[1][1])
}

func TestExportQuotesExcel(t *testing.T) {
	srv, st := testutil.NewServer(t)
	token := testutil.LoginAdmin(t, st)
	require.NoError(t, st.CreateQuote(context.Background(), &models.Quote{
		CompanyName: "Everest Exports", ContactPerson: "Ram",
		Email: "ram@everest.test", ProductDescription: "Lokta paper", Quantity: "2000",
	}))

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/admin/export/quotes?format=xlsx", nil, token))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "quotes.xlsx")
	require.NotZero(t, w.Body.Len())
}

func TestExportRejectsBadRequests(t *testing.T) {
	srv, st := testutil.NewServer(t)
	token := testutil.LoginAdmin(t, st)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/admin/export/invoices?format=pdf", nil, token))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/admin/export/users", nil, token))
	require.Equal(t, http.StatusNotFound, w.Code)
}
