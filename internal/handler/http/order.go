package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Abhi-0930/food-delivery-platform/internal/models"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=order.go -destination=mocks/mock_order_service.go -package=mocks

type OrderService interface {
	// Place stores a new order, computing the total server side
	Place(ctx context.Context, order *models.Order) (*models.Order, error)
	// ConfirmPayment applies the payment collaborator callback
	ConfirmPayment(ctx context.Context, orderID string, success bool) error
	// ListOrders returns reconciled orders for the admin view
	ListOrders(ctx context.Context) ([]models.Order, error)
	// ListUserOrders returns reconciled orders of one user
	ListUserOrders(ctx context.Context, userID string) ([]models.Order, error)
	// UpdateStatus applies a delivery-status transition
	UpdateStatus(ctx context.Context, orderID string, status string) error
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type orderItemRequest struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type placeOrderRequest struct {
	Items   []orderItemRequest `json:"items"`
	Address models.Address     `json:"address"`
}

type placeOrderResponse struct {
	OrderID string `json:"orderId"`
	Amount  string `json:"amount"`
}

type orderResponse struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	Items       []models.OrderItem `json:"items"`
	Address     models.Address     `json:"address"`
	Amount      string             `json:"amount"`
	Payment     bool               `json:"payment"`
	Status      string             `json:"status"`
	DeliveredAt string             `json:"deliveredAt,omitempty"`
	CreatedAt   string             `json:"createdAt"`
}

func toOrderResponse(order models.Order) orderResponse {
	resp := orderResponse{
		ID:        order.ID,
		UserID:    order.UserID,
		Items:     order.Items,
		Address:   order.Address,
		Amount:    order.Amount.StringFixed(2),
		Payment:   order.Payment,
		Status:    order.Status,
		CreatedAt: order.CreatedAt.Format(time.RFC3339),
	}
	if order.DeliveredAt != nil {
		resp.DeliveredAt = order.DeliveredAt.Format(time.RFC3339)
	}
	return resp
}

// PlaceOrder places a new order pending payment confirmation
// 201 — order accepted;
// 400 — malformed request body;
// 401 — user is not authenticated;
// 422 — empty cart or non-positive quantity;
// 500 — internal server error.
func (oh *OrderHandler) PlaceOrder() http.HandlerFunc {
	return oh.place(false)
}

// PlaceOrderCOD places a cash-on-delivery order, paid at creation
func (oh *OrderHandler) PlaceOrderCOD() http.HandlerFunc {
	return oh.place(true)
}

func (oh *OrderHandler) place(paid bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req placeOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		items := make([]models.OrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, models.OrderItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Quantity:  item.Quantity,
				UnitPrice: item.Price,
			})
		}

		order := models.Order{
			UserID:  payload.UserID,
			Items:   items,
			Address: req.Address,
			Payment: paid,
		}

		created, err := oh.svc.Place(r.Context(), &order)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrEmptyOrder), errors.Is(err, models.ErrInvalidQuantity):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)

		resp := placeOrderResponse{
			OrderID: created.ID,
			Amount:  created.Amount.StringFixed(2),
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

type verifyOrderRequest struct {
	OrderID string `json:"orderId"`
	Success bool   `json:"success"`
}

// VerifyOrder handles the payment-confirmation callback. Success marks the
// order paid, failure removes the pending order.
// 200 — callback processed;
// 400 — malformed request body;
// 404 — order does not exist;
// 500 — internal server error.
func (oh *OrderHandler) VerifyOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if err := oh.svc.ConfirmPayment(r.Context(), req.OrderID, req.Success); err != nil {
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

// ListUserOrders returns the caller's orders after a reconciliation pass
// 200 — successful request;
// 204 — user has no visible orders;
// 401 — user is not authenticated;
// 500 — internal server error.
func (oh *OrderHandler) ListUserOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := oh.svc.ListUserOrders(r.Context(), payload.UserID)
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
