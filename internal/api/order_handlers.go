package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/marketplace/internal/api/middleware"
	"github.com/example/marketplace/internal/domain/order"
	"github.com/example/marketplace/internal/model"
)

// OrderHandlers handles the order workflow endpoints.
type OrderHandlers struct {
	orderService *order.Service
}

func NewOrderHandlers(orderService *order.Service) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

// CreateOrderRequest is the order creation request body.
type CreateOrderRequest struct {
	Items []order.LineRequest `json:"items"`
}

// OrderStatusRequest is the whole-order status change body.
type OrderStatusRequest struct {
	OrderStatus model.OrderStatus `json:"orderStatus"`
}

// ShippingStatusRequest is the per-line shipping status change body.
type ShippingStatusRequest struct {
	ShippingStatus model.ShippingStatus `json:"shippingStatus"`
}

// Create places a new order for the authenticated customer.
func (h *OrderHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customerID := middleware.GetUserID(r.Context())
	o, err := h.orderService.Create(r.Context(), customerID, req.Items)
	if err != nil {
		h.respondCreateError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Order created successfully",
		"order":   o,
	})
}

// respondCreateError maps order validation failures to statuses. A line
// referencing a missing product is 404; every other line failure is 400,
// reported with the failing index.
func (h *OrderHandlers) respondCreateError(w http.ResponseWriter, err error) {
	var lineErr *order.LineError
	switch {
	case errors.Is(err, order.ErrEmptyOrder):
		respondError(w, http.StatusBadRequest, "Items array is required and cannot be empty")
	case errors.As(err, &lineErr):
		status := http.StatusBadRequest
		if errors.Is(err, order.ErrProductNotFound) {
			status = http.StatusNotFound
		}
		respondError(w, status, lineErr.Error())
	default:
		respondInternal(w, err)
	}
}

// List returns all orders (admin only).
func (h *OrderHandlers) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.List(r.Context())
	if err != nil {
		respondInternal(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Orders retrieved successfully",
		"orders":  orders,
		"count":   len(orders),
	})
}

// Get returns one order (admin only).
func (h *OrderHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderId")

	o, err := h.orderService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "Order not found")
			return
		}
		respondInternal(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Order retrieved successfully",
		"order":   o,
	})
}

// SetStatus changes a whole order's status (admin only).
func (h *OrderHandlers) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderId")

	var req OrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	o, err := h.orderService.SetStatus(r.Context(), id, req.OrderStatus)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidOrderStatus):
			respondError(w, http.StatusBadRequest, "orderStatus must be one of: pending, processing, completed, cancelled")
		case errors.Is(err, order.ErrOrderNotFound):
			respondError(w, http.StatusNotFound, "Order not found")
		default:
			respondInternal(w, err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Order status updated successfully",
		"order":   o,
	})
}

// SetItemShippingStatus changes one line's shipping status (admin only).
func (h *OrderHandlers) SetItemShippingStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	itemID := chi.URLParam(r, "itemId")

	var req ShippingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	o, err := h.orderService.SetItemShippingStatus(r.Context(), orderID, itemID, req.ShippingStatus)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidShippingStatus):
			respondError(w, http.StatusBadRequest, "shippingStatus must be one of: pending, shipped, delivered")
		case errors.Is(err, order.ErrOrderNotFound):
			respondError(w, http.StatusNotFound, "Order not found")
		case errors.Is(err, order.ErrItemNotFound):
			respondError(w, http.StatusNotFound, "Item not found in order")
		default:
			respondInternal(w, err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Item shipping status updated successfully",
		"order":   o,
	})
}
