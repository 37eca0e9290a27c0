package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Abhi-0930/food-delivery-platform/internal/models"
	"github.com/Abhi-0930/food-delivery-platform/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	insertOrderQuery = `
						INSERT INTO orders (id, user_id, items, address, amount, payment, status, created_at)
						values ($1, $2, $3, $4, $5, $6, $7, $8)
						RETURNING id, user_id, items, address, amount, payment, status, delivered_at, created_at
`
	selectOrderByIDQuery = `
						SELECT id, user_id, items, address, amount, payment, status, delivered_at, created_at FROM orders
						WHERE id = $1
`
	selectOrdersByUserIDQuery = `
						SELECT id, user_id, items, address, amount, payment, status, delivered_at, created_at FROM orders
						WHERE user_id = $1
						ORDER BY created_at DESC
`
	selectAllOrdersQuery = `
						SELECT id, user_id, items, address, amount, payment, status, delivered_at, created_at FROM orders
						ORDER BY created_at DESC
`
	selectOrdersSinceQuery = `
						SELECT id, user_id, items, address, amount, payment, status, delivered_at, created_at FROM orders
						WHERE created_at >= $1
						ORDER BY created_at ASC
`
	deleteOrderQuery = `
						DELETE FROM orders
						WHERE id = $1
`
	deleteOrdersByIDsQuery = `
						DELETE FROM orders
						WHERE id = ANY($1)
`
	updateOrderPaymentQuery = `
						UPDATE orders
						SET payment = $1
						WHERE id = $2
`
	// delivered_at is stamped on the first transition into Delivered and
	// preserved afterwards; the status predicate makes the update a CAS.
	updateOrderStatusQuery = `
						UPDATE orders
						SET status = $1,
						    delivered_at = CASE WHEN $1 = 'Delivered' THEN COALESCE(delivered_at, $2) ELSE delivered_at END
						WHERE id = $3 AND status = $4
`
	purgeDeliveredQuery = `
						DELETE FROM orders
						WHERE delivered_at IS NOT NULL AND delivered_at < $1
`
)

// OrderRepository implements order persistence over postgres
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// scanOrder reads one order row, unpacking the jsonb item and address documents
func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		order      models.Order
		rawItems   []byte
		rawAddress []byte
	)

	err := row.Scan(&order.ID, &order.UserID, &rawItems, &rawAddress, &order.Amount, &order.Payment, &order.Status, &order.DeliveredAt, &order.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rawItems, &order.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rawAddress, &order.Address); err != nil {
		return nil, err
	}

	return &order, nil
}

// scanOrders reads all order rows
func scanOrders(rows pgx.Rows) ([]models.Order, error) {
	orders := []models.Order{}

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			continue
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// CreateOrder inserts new order to database
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	rawItems, err := json.Marshal(order.Items)
	if err != nil {
		return nil, err
	}
	rawAddress, err := json.Marshal(order.Address)
	if err != nil {
		return nil, err
	}

	row := or.db.QueryRow(ctx, insertOrderQuery, order.ID, order.UserID, rawItems, rawAddress, order.Amount, order.Payment, order.Status, order.CreatedAt)

	created, err := scanOrder(row)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return created, nil
}

// GetOrderByID returns order by id
func (or *OrderRepository) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	order, err := scanOrder(or.db.QueryRow(ctx, selectOrderByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return order, nil
}

// GetOrdersByUserID gets user orders, newest first
func (or *OrderRepository) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectOrdersByUserIDQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

// GetAllOrders returns all orders, newest first
func (or *OrderRepository) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectAllOrdersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

// GetOrdersSince returns orders created at or after since, ascending by creation time
func (or *OrderRepository) GetOrdersSince(ctx context.Context, since time.Time) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectOrdersSinceQuery, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

// DeleteOrder removes order by id
func (or *OrderRepository) DeleteOrder(ctx context.Context, id string) error {
	cmd, err := or.db.Exec(ctx, deleteOrderQuery, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// DeleteOrdersByIDs removes orders in one batch. Ids that no longer exist
// are skipped silently, so a repeated reconciliation pass is a no-op.
func (or *OrderRepository) DeleteOrdersByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := or.db.Exec(ctx, deleteOrdersByIDsQuery, ids)
	return err
}

// SetOrderPayment updates payment confirmation flag
func (or *OrderRepository) SetOrderPayment(ctx context.Context, id string, paid bool) error {
	cmd, err := or.db.Exec(ctx, updateOrderPaymentQuery, paid, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// UpdateOrderStatusCond updates order status only if the current persisted
// status still equals from. It reports whether the row was updated.
func (or *OrderRepository) UpdateOrderStatusCond(ctx context.Context, id string, from string, to string, now time.Time) (bool, error) {
	cmd, err := or.db.Exec(ctx, updateOrderStatusQuery, to, now, id, from)
	if err != nil {
		return false, err
	}

	return cmd.RowsAffected() > 0, nil
}

// PurgeDelivered removes delivered orders with a delivery stamp before cutoff
func (or *OrderRepository) PurgeDelivered(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := or.db.Exec(ctx, purgeDeliveredQuery, cutoff)
	if err != nil {
		return 0, err
	}

	return cmd.RowsAffected(), nil
}
