package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/example/marketplace/internal/api/middleware"
	"github.com/example/marketplace/internal/domain/product"
)

// ProductHandlers handles product catalog requests.
type ProductHandlers struct {
	productService *product.Service
}

func NewProductHandlers(productService *product.Service) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

// CreateProductRequest is the product creation request body.
type CreateProductRequest struct {
	ProductName   string   `json:"productName"`
	Brand         string   `json:"brand"`
	Cost          float64  `json:"cost"`
	ProductImages []string `json:"productImages"`
	Description   string   `json:"description"`
	StockStatus   string   `json:"stockStatus"`
}

func (h *ProductHandlers) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		respondInternal(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// ListByBrand serves the paginated-by-brand listing. Page and limit come
// from the path; the limit is capped at 10.
func (h *ProductHandlers) ListByBrand(w http.ResponseWriter, r *http.Request) {
	brandID := chi.URLParam(r, "id")

	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid page number")
		return
	}
	limit, err := strconv.Atoi(chi.URLParam(r, "limit"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid limit. Must be between 1 and 10")
		return
	}

	result, err := h.productService.ListByBrand(r.Context(), brandID, page, limit)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrInvalidPage):
			respondError(w, http.StatusBadRequest, "Invalid page number")
		case errors.Is(err, product.ErrInvalidLimit):
			respondError(w, http.StatusBadRequest, "Invalid limit. Must be between 1 and 10")
		case errors.Is(err, product.ErrBrandNotFound):
			respondError(w, http.StatusNotFound, "Brand not found")
		default:
			respondInternal(w, err)
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *ProductHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ownerID := middleware.GetUserID(r.Context())
	p, err := h.productService.Create(r.Context(), ownerID, req.ProductName, req.Brand,
		req.Cost, req.ProductImages, req.Description, req.StockStatus)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrMissingField):
			respondError(w, http.StatusBadRequest, "productName, brand, description and stockStatus are required")
		case errors.Is(err, product.ErrInvalidBrand):
			respondError(w, http.StatusBadRequest, "Invalid brand ID")
		default:
			respondInternal(w, err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Product added successfully",
		"product": p,
	})
}

func (h *ProductHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.productService.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		respondInternal(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":        "Product deleted successfully",
		"deletedProduct": p,
	})
}
