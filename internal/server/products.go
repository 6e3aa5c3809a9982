package server

import (
	"errors"
	"net/http"

	"github.com/Pavanreddy56/BKI-company/internal/models"
	"github.com/Pavanreddy56/BKI-company/internal/response"
	"github.com/Pavanreddy56/BKI-company/internal/store"
	"github.com/Pavanreddy56/BKI-company/internal/validation"
)

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.GetAllProducts(r.Context())
	if err != nil {
		s.serverError(w, "list products", err)
		return
	}
	response.JSON(w, http.StatusOK, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request, seg string) {
	id, ok := pathID(w, seg)
	if !ok {
		return
	}
	product, err := s.store.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Err(w, "product not found", http.StatusNotFound)
			return
		}
		s.serverError(w, "get product", err)
		return
	}
	response.JSON(w, http.StatusOK, product)
}

type createProductRequest struct {
	Name         string   `json:"name"`
	HsCode       *string  `json:"hsCode"`
	Category     string   `json:"category"`
	Description  *string  `json:"description"`
	Unit         string   `json:"unit"`
	PricePerUnit *float64 `json:"pricePerUnit"`
	Origin       *string  `json:"origin"`
	ImageURL     *string  `json:"imageUrl"`
	InStock      *bool    `json:"inStock"`
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "name", req.Name)
	validation.RequireField(ve, "category", req.Category)
	validation.RequireField(ve, "unit", req.Unit)
	if req.PricePerUnit != nil {
		validation.ValidatePositiveFloat(ve, "pricePerUnit", *req.PricePerUnit)
	}
	if req.ImageURL != nil {
		validation.ValidateURL(ve, "imageUrl", *req.ImageURL)
	}
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}

	product := &models.Product{
		Name:         req.Name,
		HsCode:       req.HsCode,
		Category:     req.Category,
		Description:  req.Description,
		Unit:         req.Unit,
		PricePerUnit: req.PricePerUnit,
		Origin:       req.Origin,
		ImageURL:     req.ImageURL,
		InStock:      req.InStock == nil || *req.InStock,
	}
	if err := s.store.CreateProduct(r.Context(), product); err != nil {
		s.serverError(w, "create product", err)
		return
	}
	s.hub.BroadcastChange("product", "create", product.ID)
	response.JSON(w, http.StatusCreated, product)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request, seg string) {
	id, ok := pathID(w, seg)
	if !ok {
		return
	}
	var upd store.ProductUpdate
	if err := response.DecodeBody(r, &upd); err != nil {
		response.Err(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ve := &validation.ValidationErrors{}
	if upd.Name != nil {
		validation.RequireField(ve, "name", *upd.Name)
	}
	if upd.Category != nil {
		validation.RequireField(ve, "category", *upd.Category)
	}
	if upd.Unit != nil {
		validation.RequireField(ve, "unit", *upd.Unit)
	}
	if upd.PricePerUnit != nil {
		validation.ValidatePositiveFloat(ve, "pricePerUnit", *upd.PricePerUnit)
	}
	if upd.ImageURL != nil {
		validation.ValidateURL(ve, "imageUrl", *upd.ImageURL)
	}
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}

	product, err := s.store.UpdateProduct(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Err(w, "product not found", http.StatusNotFound)
			return
		}
		s.serverError(w, "update product", err)
		return
	}
	s.hub.BroadcastChange("product", "update", product.ID)
	response.JSON(w, http.StatusOK, product)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request, seg string) {
	id, ok := pathID(w, seg)
	if !ok {
		return
	}
	if err := s.store.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Err(w, "product not found", http.StatusNotFound)
			return
		}
		s.serverError(w, "delete product", err)
		return
	}
	s.hub.BroadcastChange("product", "delete", id)
	response.JSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
