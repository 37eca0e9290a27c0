package reconcile

import (
	"context"
	"time"

	"github.com/Abhi-0930/food-delivery-platform/internal/models"
)

// OrderStore is the persistence surface a reconciliation pass needs.
type OrderStore interface {
	// GetOrdersSince returns orders created at or after since, ascending by creation time.
	GetOrdersSince(ctx context.Context, since time.Time) ([]models.Order, error)
	// DeleteOrdersByIDs removes the given orders. Already-deleted ids are not an error.
	DeleteOrdersByIDs(ctx context.Context, ids []string) error
	// PurgeDelivered removes delivered orders with a delivery stamp before cutoff.
	PurgeDelivered(ctx context.Context, cutoff time.Time) (int64, error)
}

// Reconciler runs the duplicate-resolution pass over a bounded lookback
// horizon. The pass is idempotent: a duplicate marked losing by one pass is
// losing under every pass over the same data, so concurrent or repeated runs
// only issue harmless repeat deletions. A pass aborted mid-way leaves every
// completed deletion in place; the next pass repairs the remainder.
type Reconciler struct {
	store    OrderStore
	lookback time.Duration
	window   time.Duration
	now      func() time.Time
}

// NewReconciler creates a reconciler scanning orders created within lookback
// and clustering submissions that arrive within window of each other.
func NewReconciler(store OrderStore, lookback, window time.Duration) *Reconciler {
	return &Reconciler{
		store:    store,
		lookback: lookback,
		window:   window,
		now:      time.Now,
	}
}

// Run executes one reconciliation pass and returns the number of duplicate
// orders removed.
func (r *Reconciler) Run(ctx context.Context) (int, error) {
	since := r.now().Add(-r.lookback)

	orders, err := r.store.GetOrdersSince(ctx, since)
	if err != nil {
		return 0, err
	}

	ids := FindDuplicates(orders, r.window)
	if len(ids) == 0 {
		return 0, nil
	}

	if err := r.store.DeleteOrdersByIDs(ctx, ids); err != nil {
		return 0, err
	}

	return len(ids), nil
}

// Purge hard-deletes delivered orders that fell out of the retention window
// and returns the number of removed rows.
func (r *Reconciler) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	return r.store.PurgeDelivered(ctx, PurgeCutoff(r.now(), retention))
}
