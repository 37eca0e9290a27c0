package service

import (
	"context"
	"time"

	"github.com/Abhi-0930/food-delivery-platform/internal/models"
	"github.com/Abhi-0930/food-delivery-platform/internal/reconcile"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=order.go -destination=mocks/mock_order.go -package=mocks

// statusUpdateRetries bounds the conditional-update loop in UpdateStatus
const statusUpdateRetries = 3

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts new order to database
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrderByID returns order by id
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	// GetOrdersByUserID gets user orders
	GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error)
	// GetAllOrders returns all orders
	GetAllOrders(ctx context.Context) ([]models.Order, error)
	// DeleteOrder removes order by id
	DeleteOrder(ctx context.Context, id string) error
	// SetOrderPayment updates payment confirmation flag
	SetOrderPayment(ctx context.Context, id string, paid bool) error
	// UpdateOrderStatusCond updates order status if the persisted status still equals from
	UpdateOrderStatusCond(ctx context.Context, id string, from string, to string, now time.Time) (bool, error)
}

// Reconciler runs a duplicate-resolution pass before list reads
type Reconciler interface {
	Run(ctx context.Context) (int, error)
}

// OrderService implements order placement, payment confirmation, listing
// and the delivery-status state machine
type OrderService struct {
	repo           OrderRepository
	rec            Reconciler
	deliveryFee    decimal.Decimal
	retentionAdmin time.Duration
	retentionUser  time.Duration
	now            func() time.Time
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, rec Reconciler, deliveryFee decimal.Decimal, retentionAdmin, retentionUser time.Duration) *OrderService {
	return &OrderService{
		repo:           repo,
		rec:            rec,
		deliveryFee:    deliveryFee,
		retentionAdmin: retentionAdmin,
		retentionUser:  retentionUser,
		now:            time.Now,
	}
}

// Place stores a new order. The total is computed server side from the item
// prices plus the delivery fee; any amount on the submitted order is ignored.
func (os *OrderService) Place(ctx context.Context, order *models.Order) (*models.Order, error) {
	if len(order.Items) == 0 {
		return nil, models.ErrEmptyOrder
	}

	amount := decimal.Zero
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			return nil, models.ErrInvalidQuantity
		}
		amount = amount.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order.ID = uuid.NewString()
	order.Amount = amount.Add(os.deliveryFee)
	order.Status = models.OrderStatusProcessing
	order.DeliveredAt = nil
	order.CreatedAt = os.now()

	return os.repo.CreateOrder(ctx, order)
}

// ConfirmPayment applies the payment collaborator callback: success flips
// the payment flag, failure removes the pending order.
func (os *OrderService) ConfirmPayment(ctx context.Context, orderID string, success bool) error {
	if success {
		return os.repo.SetOrderPayment(ctx, orderID, true)
	}
	return os.repo.DeleteOrder(ctx, orderID)
}

// ListOrders returns orders for the admin view. A reconciliation pass runs
// first, then delivered orders outside the admin retention window are
// filtered out.
func (os *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	if _, err := os.rec.Run(ctx); err != nil {
		return nil, err
	}

	orders, err := os.repo.GetAllOrders(ctx)
	if err != nil {
		return nil, err
	}

	return reconcile.FilterVisible(orders, os.now(), os.retentionAdmin), nil
}

// ListUserOrders returns the orders of one user, reconciled and filtered by
// the user-view retention window.
func (os *OrderService) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	if _, err := os.rec.Run(ctx); err != nil {
		return nil, err
	}

	orders, err := os.repo.GetOrdersByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return reconcile.FilterVisible(orders, os.now(), os.retentionUser), nil
}

// UpdateStatus applies a delivery-status transition. Statuses only move
// forward; a request below the current priority is rejected without
// mutation. The write is conditional on the status that was checked and is
// retried when a concurrent writer interleaves, so a stale read can never
// admit a regression. Re-applying Delivered is accepted and keeps the
// original delivery stamp.
func (os *OrderService) UpdateStatus(ctx context.Context, orderID string, status string) error {
	next, ok := models.StatusPriority(status)
	if !ok {
		return models.ErrInvalidStatus
	}

	for i := 0; i < statusUpdateRetries; i++ {
		order, err := os.repo.GetOrderByID(ctx, orderID)
		if err != nil {
			return err
		}

		if current, ok := models.StatusPriority(order.Status); ok && next < current {
			return models.ErrInvalidTransition
		}

		updated, err := os.repo.UpdateOrderStatusCond(ctx, orderID, order.Status, status, os.now())
		if err != nil {
			return err
		}
		if updated {
			return nil
		}
		// lost the race against a concurrent writer, re-check
	}

	return models.ErrConflictData
}
