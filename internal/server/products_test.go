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

func TestPublicProductCatalog(t *testing.T) {
	srv, st := testutil.NewServer(t)
	p := &models.Product{Name: "Pashmina Shawl", Category: "textiles", Unit: "piece", InStock: true}
	require.NoError(t, st.CreateProduct(context.Background(), p))

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/products", nil, ""))
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Product
	testutil.Decode(t, w, &list)
	require.Len(t, list, 1)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", fmt.Sprintf("/api/products/%d", p.ID), nil, ""))
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Product
	testutil.Decode(t, w, &got)
	require.Equal(t, "Pashmina Shawl", got.Name)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/products/9999", nil, ""))
	require.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("GET", "/api/products/abc", nil, ""))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminCreateProduct(t *testing.T) {
	srv, st := testutil.NewServer(t)
	token := testutil.LoginAdmin(t, st)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/admin/products", map[string]interface{}{
		"name":         "Orthodox Tea",
		"category":     "beverages",
		"unit":         "kg",
		"pricePerUnit": 18.0,
	}, token))
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Product
	testutil.Decode(t, w, &created)
	require.NotZero(t, created.ID)
	// inStock defaults to true when omitted.
	require.True(t, created.InStock)

	// Invalid payloads come back itemized.
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("POST", "/api/admin/products", map[string]interface{}{
		"pricePerUnit": -3.0,
		"imageUrl":     "not a url",
	}, token))
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body errorBody
	testutil.Decode(t, w, &body)
	fields := errorFields(body)
	require.True(t, fields["name"])
	require.True(t, fields["category"])
	require.True(t, fields["unit"])
	require.True(t, fields["pricePerUnit"])
	require.True(t, fields["imageUrl"])
}

func TestAdminUpdateAndDeleteProduct(t *testing.T) {
	srv, st := testutil.NewServer(t)
	token := testutil.LoginAdmin(t, st)

	p := &models.Product{Name: "Cardamom", Category: "spices", Unit: "kg", InStock: true}
	require.NoError(t, st.CreateProduct(context.Background(), p))

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("PATCH", fmt.Sprintf("/api/admin/products/%d", p.ID), map[string]interface{}{
		"inStock":      false,
		"pricePerUnit": 42.5,
	}, token))
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Product
	testutil.Decode(t, w, &updated)
	require.False(t, updated.InStock)
	require.Equal(t, 42.5, *updated.PricePerUnit)
	require.Equal(t, "Cardamom", updated.Name)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("DELETE", fmt.Sprintf("/api/admin/products/%d", p.ID), nil, token))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, testutil.JSONRequest("DELETE", fmt.Sprintf("/api/admin/products/%d", p.ID), nil, token))
	require.Equal(t, http.StatusNotFound, w.Code)
}
