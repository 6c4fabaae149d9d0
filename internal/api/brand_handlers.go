package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/marketplace/internal/domain/brand"
)

// BrandHandlers handles brand catalog requests.
type BrandHandlers struct {
	brandService *brand.Service
}

func NewBrandHandlers(brandService *brand.Service) *BrandHandlers {
	return &BrandHandlers{brandService: brandService}
}

// BrandRequest is the create/rename request body.
type BrandRequest struct {
	BrandName string `json:"brandName"`
}

func (h *BrandHandlers) List(w http.ResponseWriter, r *http.Request) {
	brands, err := h.brandService.List(r.Context())
	if err != nil {
		respondInternal(w, err)
		return
	}
	respondJSON(w, http.StatusOK, brands)
}

func (h *BrandHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req BrandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := h.brandService.Create(r.Context(), req.BrandName)
	if err != nil {
		switch {
		case errors.Is(err, brand.ErrNameRequired):
			respondError(w, http.StatusBadRequest, "Brand name is required")
		case errors.Is(err, brand.ErrBrandExists):
			respondError(w, http.StatusBadRequest, "Brand already exists")
		default:
			respondInternal(w, err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Brand created successfully",
		"brand":   b,
	})
}

func (h *BrandHandlers) Rename(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req BrandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := h.brandService.Rename(r.Context(), id, req.BrandName)
	if err != nil {
		switch {
		case errors.Is(err, brand.ErrNameRequired):
			respondError(w, http.StatusBadRequest, "Brand name is required")
		case errors.Is(err, brand.ErrBrandNotFound):
			respondError(w, http.StatusNotFound, "Brand not found")
		case errors.Is(err, brand.ErrBrandExists):
			respondError(w, http.StatusBadRequest, "Brand name already exists")
		default:
			respondInternal(w, err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Brand updated successfully",
		"brand":   b,
	})
}

func (h *BrandHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b, err := h.brandService.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, brand.ErrBrandNotFound) {
			respondError(w, http.StatusNotFound, "Brand not found")
			return
		}
		respondInternal(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":      "Brand deleted successfully",
		"deletedBrand": b,
	})
}
