package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// order delivery status
const (
	OrderStatusProcessing     = "Processing"
	OrderStatusOutForDelivery = "OutForDelivery"
	OrderStatusDelivered      = "Delivered"
)

// statusPriority ranks delivery statuses. An order may only move to a status
// with equal or higher priority.
var statusPriority = map[string]int{
	OrderStatusProcessing:     0,
	OrderStatusOutForDelivery: 1,
	OrderStatusDelivered:      2,
}

// StatusPriority returns the rank of a delivery status. The second return
// value is false for an unknown status.
func StatusPriority(status string) (int, bool) {
	p, ok := statusPriority[status]
	return p, ok
}

// OrderItem is a single cart position
type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Address is shipping/contact information. All fields are optional and
// default to the empty string.
type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// Order is order entity
type Order struct {
	ID          string
	UserID      string
	Items       []OrderItem
	Address     Address
	Amount      decimal.Decimal
	Payment     bool
	Status      string
	DeliveredAt *time.Time
	CreatedAt   time.Time
}
