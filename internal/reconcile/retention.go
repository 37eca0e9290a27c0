package reconcile

import (
	"time"

	"github.com/Abhi-0930/food-delivery-platform/internal/models"
)

// Visible reports whether an order should still appear in list results at
// now under the given retention duration. Orders that have not been
// delivered are always visible. The boundary is inclusive: an order
// delivered exactly retention ago is still visible, one delivered any
// later instant before that is not.
func Visible(order models.Order, now time.Time, retention time.Duration) bool {
	if order.DeliveredAt == nil {
		return true
	}
	return now.Sub(*order.DeliveredAt) <= retention
}

// FilterVisible returns the orders still visible at now.
func FilterVisible(orders []models.Order, now time.Time, retention time.Duration) []models.Order {
	visible := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if Visible(order, now, retention) {
			visible = append(visible, order)
		}
	}
	return visible
}

// PurgeCutoff returns the instant before which a delivered order is no
// longer visible. Rows whose delivery stamp is strictly before the cutoff
// may be hard-deleted; the test is the exact complement of Visible, so a
// purge never removes a row a concurrent list read would still show.
func PurgeCutoff(now time.Time, retention time.Duration) time.Time {
	return now.Add(-retention)
}
