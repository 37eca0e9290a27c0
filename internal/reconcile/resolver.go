package reconcile

import (
	"time"

	"github.com/Abhi-0930/food-delivery-platform/internal/models"
)

// cluster tracks the current survivor of a group of matching submissions.
type cluster struct {
	id   string
	time time.Time
	paid bool
}

// FindDuplicates partitions orders into duplicate clusters and returns the
// ids of the losing submissions. Orders must be sorted ascending by
// CreatedAt. Two orders fall into the same cluster when their signatures are
// equal and their creation times are within window of each other.
//
// A paid order always survives an unpaid one, since a paid retry must never
// be discarded in favor of an abandoned submission. Among orders with the
// same payment state the earliest submission wins, as it is the one any
// payment session was created against. Running the resolver again over the
// surviving set returns nothing.
func FindDuplicates(orders []models.Order, window time.Duration) []string {
	clusters := make(map[Signature][]cluster)
	var toDelete []string

	for _, order := range orders {
		sig := ComputeSignature(order)

		entries := clusters[sig]
		idx := -1
		for i := range entries {
			if order.CreatedAt.Sub(entries[i].time) <= window {
				idx = i
				break
			}
		}

		if idx == -1 {
			clusters[sig] = append(entries, cluster{
				id:   order.ID,
				time: order.CreatedAt,
				paid: order.Payment,
			})
			continue
		}

		rep := entries[idx]
		switch {
		case rep.paid && !order.Payment:
			toDelete = append(toDelete, order.ID)
		case order.Payment && !rep.paid:
			// paid submission replaces the unpaid representative
			toDelete = append(toDelete, rep.id)
			entries[idx] = cluster{id: order.ID, time: order.CreatedAt, paid: true}
		default:
			// same payment state, the earlier submission wins
			toDelete = append(toDelete, order.ID)
		}
	}

	return toDelete
}
