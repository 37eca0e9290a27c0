package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Abhi-0930/food-delivery-platform/internal/handler/http/mocks"
	"github.com/Abhi-0930/food-delivery-platform/internal/models"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderHandler_ListOrders(t *testing.T) {
	createdAt := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	deliveredAt := createdAt.Add(30 * time.Minute)

	tests := []struct {
		name           string
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
		wantBody       []orderResponse
	}{
		{
			name: "valid_request_return_200",
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().ListOrders(gomock.Any()).Return([]models.Order{
					{
						ID:        "o1",
						UserID:    "u1",
						Amount:    decimal.NewFromInt(500),
						Status:    models.OrderStatusProcessing,
						CreatedAt: createdAt,
					},
					{
						ID:          "o2",
						UserID:      "u2",
						Amount:      decimal.NewFromInt(300),
						Payment:     true,
						Status:      models.OrderStatusDelivered,
						DeliveredAt: &deliveredAt,
						CreatedAt:   createdAt,
					},
				}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: []orderResponse{
				{
					ID:        "o1",
					UserID:    "u1",
					Amount:    "500.00",
					Status:    models.OrderStatusProcessing,
					CreatedAt: createdAt.Format(time.RFC3339),
				},
				{
					ID:          "o2",
					UserID:      "u2",
					Amount:      "300.00",
					Payment:     true,
					Status:      models.OrderStatusDelivered,
					DeliveredAt: deliveredAt.Format(time.RFC3339),
					CreatedAt:   createdAt.Format(time.RFC3339),
				},
			},
		},
		{
			name: "no_visible_orders_return_204",
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().ListOrders(gomock.Any()).Return(nil, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNoContent,
		},
		{
			name: "internal_error_return_500",
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().ListOrders(gomock.Any()).Return(nil, models.ErrInternalError).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "/api/order/list", nil)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			st := tt.setup(t)

			handler := NewOrderHandler(st)
			h := handler.ListOrders()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantBody != nil {
				resBody, err := io.ReadAll(res.Body)
				require.NoError(t, err)

				var got []orderResponse
				require.NoError(t, json.Unmarshal(resBody, &got))

				if diff := cmp.Diff(tt.wantBody, got); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestOrderHandler_UpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
	}{
		{
			name: "valid_request_return_200",
			body: `{"orderId":"o1","status":"OutForDelivery"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().UpdateStatus(gomock.Any(), "o1", models.OrderStatusOutForDelivery).Return(nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "missing_order_id_return_400",
			body: `{"status":"Delivered"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "unknown_order_return_404",
			body: `{"orderId":"missing","status":"Delivered"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().UpdateStatus(gomock.Any(), "missing", models.OrderStatusDelivered).Return(models.ErrDataNotFound).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "status_regression_return_409",
			body: `{"orderId":"o1","status":"Processing"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().UpdateStatus(gomock.Any(), "o1", models.OrderStatusProcessing).Return(models.ErrInvalidTransition).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name: "lost_update_race_return_409",
			body: `{"orderId":"o1","status":"Delivered"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().UpdateStatus(gomock.Any(), "o1", models.OrderStatusDelivered).Return(models.ErrConflictData).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name: "unknown_status_return_422",
			body: `{"orderId":"o1","status":"Teleported"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().UpdateStatus(gomock.Any(), "o1", "Teleported").Return(models.ErrInvalidStatus).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name: "internal_error_return_500",
			body: `{"orderId":"o1","status":"Delivered"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().UpdateStatus(gomock.Any(), "o1", models.OrderStatusDelivered).Return(models.ErrInternalError).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/api/order/status", strings.NewReader(tt.body))
			require.NoError(t, err)

			w := httptest.NewRecorder()
			st := tt.setup(t)

			handler := NewOrderHandler(st)
			h := handler.UpdateOrderStatus()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}
