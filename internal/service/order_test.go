package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abhi-0930/food-delivery-platform/internal/models"
	"github.com/Abhi-0930/food-delivery-platform/internal/service/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*OrderService, *mocks.MockOrderRepository, *mocks.MockReconciler) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockOrderRepository(ctrl)
	rec := mocks.NewMockReconciler(ctrl)

	svc := NewOrderService(repo, rec, decimal.NewFromInt(50), 30*time.Second, 30*time.Second)
	svc.now = func() time.Time { return testNow }

	return svc, repo, rec
}

func TestOrderService_Place(t *testing.T) {
	svc, repo, _ := newTestService(t)

	repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, order *models.Order) (*models.Order, error) {
			return order, nil
		})

	order := models.Order{
		UserID: "u1",
		Items: []models.OrderItem{
			{ProductID: "p1", Name: "Margherita", Quantity: 2, UnitPrice: decimal.NewFromInt(200)},
			{ProductID: "p2", Name: "Cola", Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
		},
	}

	created, err := svc.Place(context.Background(), &order)
	require.NoError(t, err)

	// items total 450 plus delivery fee 50
	assert.Equal(t, "500.00", created.Amount.StringFixed(2))
	assert.Equal(t, models.OrderStatusProcessing, created.Status)
	assert.NotEmpty(t, created.ID)
	assert.Nil(t, created.DeliveredAt)
	assert.Equal(t, testNow, created.CreatedAt)
}

func TestOrderService_Place_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		items   []models.OrderItem
		wantErr error
	}{
		{
			name:    "empty_cart",
			items:   nil,
			wantErr: models.ErrEmptyOrder,
		},
		{
			name: "non_positive_quantity",
			items: []models.OrderItem{
				{ProductID: "p1", Name: "Margherita", Quantity: 0, UnitPrice: decimal.NewFromInt(200)},
			},
			wantErr: models.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)

			_, err := svc.Place(context.Background(), &models.Order{UserID: "u1", Items: tt.items})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOrderService_ConfirmPayment(t *testing.T) {
	t.Run("success_flips_payment", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.EXPECT().SetOrderPayment(gomock.Any(), "o1", true).Return(nil)

		require.NoError(t, svc.ConfirmPayment(context.Background(), "o1", true))
	})

	t.Run("failure_removes_order", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.EXPECT().DeleteOrder(gomock.Any(), "o1").Return(nil)

		require.NoError(t, svc.ConfirmPayment(context.Background(), "o1", false))
	})

	t.Run("missing_order", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.EXPECT().SetOrderPayment(gomock.Any(), "o1", true).Return(models.ErrDataNotFound)

		assert.ErrorIs(t, svc.ConfirmPayment(context.Background(), "o1", true), models.ErrDataNotFound)
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		setup   func(repo *mocks.MockOrderRepository)
		wantErr error
	}{
		{
			name:   "forward_transition",
			status: models.OrderStatusOutForDelivery,
			setup: func(repo *mocks.MockOrderRepository) {
				repo.EXPECT().GetOrderByID(gomock.Any(), "o1").Return(&models.Order{ID: "o1", Status: models.OrderStatusProcessing}, nil)
				repo.EXPECT().UpdateOrderStatusCond(gomock.Any(), "o1", models.OrderStatusProcessing, models.OrderStatusOutForDelivery, testNow).Return(true, nil)
			},
		},
		{
			name:   "regression_rejected",
			status: models.OrderStatusProcessing,
			setup: func(repo *mocks.MockOrderRepository) {
				repo.EXPECT().GetOrderByID(gomock.Any(), "o1").Return(&models.Order{ID: "o1", Status: models.OrderStatusOutForDelivery}, nil)
				repo.EXPECT().UpdateOrderStatusCond(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: models.ErrInvalidTransition,
		},
		{
			name:   "delivered_stamp",
			status: models.OrderStatusDelivered,
			setup: func(repo *mocks.MockOrderRepository) {
				repo.EXPECT().GetOrderByID(gomock.Any(), "o1").Return(&models.Order{ID: "o1", Status: models.OrderStatusOutForDelivery}, nil)
				repo.EXPECT().UpdateOrderStatusCond(gomock.Any(), "o1", models.OrderStatusOutForDelivery, models.OrderStatusDelivered, testNow).Return(true, nil)
			},
		},
		{
			name:   "delivered_reapplied_is_accepted",
			status: models.OrderStatusDelivered,
			setup: func(repo *mocks.MockOrderRepository) {
				deliveredAt := testNow.Add(-time.Minute)
				repo.EXPECT().GetOrderByID(gomock.Any(), "o1").Return(&models.Order{ID: "o1", Status: models.OrderStatusDelivered, DeliveredAt: &deliveredAt}, nil)
				// the conditional update keeps the original stamp via COALESCE
				repo.EXPECT().UpdateOrderStatusCond(gomock.Any(), "o1", models.OrderStatusDelivered, models.OrderStatusDelivered, testNow).Return(true, nil)
			},
		},
		{
			name:    "unknown_status",
			status:  "Teleported",
			setup:   func(repo *mocks.MockOrderRepository) {},
			wantErr: models.ErrInvalidStatus,
		},
		{
			name:   "order_not_found",
			status: models.OrderStatusDelivered,
			setup: func(repo *mocks.MockOrderRepository) {
				repo.EXPECT().GetOrderByID(gomock.Any(), "o1").Return(nil, models.ErrDataNotFound)
			},
			wantErr: models.ErrDataNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService(t)
			tt.setup(repo)

			err := svc.UpdateStatus(context.Background(), "o1", tt.status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOrderService_UpdateStatus_RetriesOnRace(t *testing.T) {
	svc, repo, _ := newTestService(t)

	// a concurrent writer moved the order between read and write; the second
	// attempt sees the committed status and succeeds
	first := repo.EXPECT().GetOrderByID(gomock.Any(), "o1").Return(&models.Order{ID: "o1", Status: models.OrderStatusProcessing}, nil)
	repo.EXPECT().UpdateOrderStatusCond(gomock.Any(), "o1", models.OrderStatusProcessing, models.OrderStatusDelivered, testNow).Return(false, nil)

	repo.EXPECT().GetOrderByID(gomock.Any(), "o1").Return(&models.Order{ID: "o1", Status: models.OrderStatusOutForDelivery}, nil).After(first)
	repo.EXPECT().UpdateOrderStatusCond(gomock.Any(), "o1", models.OrderStatusOutForDelivery, models.OrderStatusDelivered, testNow).Return(true, nil)

	require.NoError(t, svc.UpdateStatus(context.Background(), "o1", models.OrderStatusDelivered))
}

func TestOrderService_UpdateStatus_GivesUpAfterRetries(t *testing.T) {
	svc, repo, _ := newTestService(t)

	repo.EXPECT().GetOrderByID(gomock.Any(), "o1").Return(&models.Order{ID: "o1", Status: models.OrderStatusProcessing}, nil).Times(statusUpdateRetries)
	repo.EXPECT().UpdateOrderStatusCond(gomock.Any(), "o1", models.OrderStatusProcessing, models.OrderStatusDelivered, testNow).Return(false, nil).Times(statusUpdateRetries)

	assert.ErrorIs(t, svc.UpdateStatus(context.Background(), "o1", models.OrderStatusDelivered), models.ErrConflictData)
}

func TestOrderService_ListOrders(t *testing.T) {
	svc, repo, rec := newTestService(t)

	expiredAt := testNow.Add(-time.Minute)
	freshAt := testNow.Add(-10 * time.Second)

	rec.EXPECT().Run(gomock.Any()).Return(0, nil)
	repo.EXPECT().GetAllOrders(gomock.Any()).Return([]models.Order{
		{ID: "pending", Status: models.OrderStatusProcessing},
		{ID: "fresh", Status: models.OrderStatusDelivered, DeliveredAt: &freshAt},
		{ID: "expired", Status: models.OrderStatusDelivered, DeliveredAt: &expiredAt},
	}, nil)

	orders, err := svc.ListOrders(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}
	assert.Equal(t, []string{"pending", "fresh"}, ids)
}

func TestOrderService_ListOrders_ReconcileFailure(t *testing.T) {
	svc, repo, rec := newTestService(t)

	rec.EXPECT().Run(gomock.Any()).Return(0, errors.New("store unavailable"))
	repo.EXPECT().GetAllOrders(gomock.Any()).Times(0)

	_, err := svc.ListOrders(context.Background())
	assert.Error(t, err)
}

func TestOrderService_ListUserOrders(t *testing.T) {
	svc, repo, rec := newTestService(t)

	expiredAt := testNow.Add(-time.Minute)

	rec.EXPECT().Run(gomock.Any()).Return(0, nil)
	repo.EXPECT().GetOrdersByUserID(gomock.Any(), "u1").Return([]models.Order{
		{ID: "pending", UserID: "u1", Status: models.OrderStatusProcessing},
		{ID: "expired", UserID: "u1", Status: models.OrderStatusDelivered, DeliveredAt: &expiredAt},
	}, nil)

	orders, err := svc.ListUserOrders(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "pending", orders[0].ID)
}
