package server_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Pavanreddy56/BKI-company/internal/models"
	"github.com/Pavanreddy56/BKI-company/internal/testutil"
)

func TestContactFormFlow(t *testing.T) {
	srv, st := testutil.NewServer(t)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/contact", map[string]interface{}{
		"name":    "Priya",
		"email":   "priya@example.test",
		"subject": "Spice import inquiry",
		"message": "Do you ship cardamom to the EU?",
	}, ""))
	require.Equal(t, http.StatusCreated, w.Code)

	var msg models.ContactMessage
	testutil.Decode(t, w, &msg)
	require.False(t, msg.IsRead)

	// Admin sees the message, marks it read.
	token := testutil.LoginAdmin(t, st)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/admin/messages", nil, token))
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.ContactMessage
	testutil.Decode(t, w, &list)
	require.Len(t, list, 1)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("PATCH", fmt.Sprintf("/api/admin/messages/%d/read", msg.ID), nil, token))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/admin/messages", nil, token))
	testutil.Decode(t, w, &list)
	require.True(t, list[0].IsRead)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("PATCH", "/api/admin/messages/9999/read", nil, token))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestContactFormValidation(t *testing.T) {
	srv, _ := testutil.NewServer(t)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/contact", map[string]interface{}{
		"email": "broken",
	}, ""))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body errorBody
	testutil.Decode(t, w, &body)
	fields := errorFields(body)
	require.True(t, fields["name"])
	require.True(t, fields["email"])
	require.True(t, fields["message"])
}
