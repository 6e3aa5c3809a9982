package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Pavanreddy56/BKI-company/internal/models"
	"github.com/Pavanreddy56/BKI-company/internal/testutil"
)

func TestUpsertAndFlattenSettings(t *testing.T) {
	srv, st := testutil.NewServer(t)
	token := testutil.LoginAdmin(t, st)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("PUT", "/api/admin/settings/company_phone", map[string]interface{}{
		"value": "+977-1-5550000",
		"label": "Company phone",
	}, token))
	require.Equal(t, http.StatusOK, w.Code)

	// A second PUT on the same key overwrites, not duplicates.
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("PUT", "/api/admin/settings/company_phone", map[string]interface{}{
		"value": "+977-1-5559999",
		"label": "Company phone",
	}, token))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/admin/settings", nil, token))
	require.Equal(t, http.StatusOK, w.Code)
	var rows []models.AdminSetting
	testutil.Decode(t, w, &rows)
	require.Len(t, rows, 1)
	require.Equal(t, "+977-1-5559999", rows[0].Value)

	// The public view is a flat key-value map with no auth required.
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/public/settings", nil, ""))
	require.Equal(t, http.StatusOK, w.Code)
	var flat map[string]string
	testutil.Decode(t, w, &flat)
	require.Equal(t, "+977-1-5559999", flat["company_phone"])

	// Missing label is rejected.
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("PUT", "/api/admin/settings/company_fax", map[string]interface{}{
		"value": "n/a",
	}, token))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkSettings(t *testing.T) {
	srv, st := testutil.NewServer(t)
	token := testutil.LoginAdmin(t, st)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/admin/settings/bulk", map[string]interface{}{
		"settings": []map[string]interface{}{
			{"key": "company_name", "value": "BKI Trading", "label": "Company name"},
			{"key": "company_email", "value": "info@bki.test", "label": "Company email"},
		},
	}, token))
	require.Equal(t, http.StatusOK, w.Code)
	var saved []models.AdminSetting
	testutil.Decode(t, w, &saved)
	require.Len(t, saved, 2)

	// An empty batch is rejected outright.
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/admin/settings/bulk", map[string]interface{}{
		"settings": []map[string]interface{}{},
	}, token))
	require.Equal(t, http.StatusBadRequest, w.Code)

	// An item without a key fails the whole batch.
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/admin/settings/bulk", map[string]interface{}{
		"settings": []map[string]interface{}{
			{"value": "x", "label": "Orphan"},
		},
	}, token))
	require.Equal(t, http.StatusBadRequest, w.Code)
}
