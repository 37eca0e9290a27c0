package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Abhi-0930/food-delivery-platform/internal/models"
)

// ListOrders returns every visible order for the admin panel after a
// reconciliation pass
// 200 — successful request;
// 204 — no visible orders;
// 401 — user is not authenticated;
// 403 — user is not an admin;
// 500 — internal server error.
func (oh *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := oh.svc.ListOrders(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if len(orders) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		resp := make([]orderResponse, 0, len(orders))
		for _, order := range orders {
			resp = append(resp, toOrderResponse(order))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

type updateStatusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// UpdateOrderStatus moves an order along the delivery state machine
// 200 — status updated;
// 400 — malformed request body;
// 404 — order does not exist;
// 409 — requested status is behind the current one;
// 422 — unknown status value;
// 500 — internal server error.
func (oh *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := oh.svc.UpdateStatus(r.Context(), req.OrderID, req.Status); err != nil {
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, models.ErrInvalidTransition), errors.Is(err, models.ErrConflictData):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, models.ErrInvalidStatus):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
