package reconcile

import (
	"encoding/json"
	"sort"

	"github.com/Abhi-0930/food-delivery-platform/internal/models"
)

// Signature is a canonical, order-independent fingerprint of an order's
// logical content. Two orders with equal signatures are treated as the same
// logical submission, regardless of the item order or absent optional fields
// of the raw payloads.
type Signature struct {
	UserID  string
	Amount  string
	Items   string
	Address string
}

type normalItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Qty   int    `json:"qty"`
	Price string `json:"price"`
}

// ComputeSignature builds the signature of an order. Missing optional fields
// degrade to zero values rather than failing, items are sorted by product id
// plus name so the submission order never affects the result, and amounts are
// rendered with fixed precision so equal charges always serialize the same.
func ComputeSignature(order models.Order) Signature {
	items := make([]normalItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, normalItem{
			ID:    item.ProductID,
			Name:  item.Name,
			Qty:   item.Quantity,
			Price: item.UnitPrice.StringFixed(2),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID+items[i].Name < items[j].ID+items[j].Name
	})

	// marshaling structs with fixed field order is deterministic
	rawItems, _ := json.Marshal(items)
	rawAddress, _ := json.Marshal(order.Address)

	return Signature{
		UserID:  order.UserID,
		Amount:  order.Amount.StringFixed(2),
		Items:   string(rawItems),
		Address: string(rawAddress),
	}
}
