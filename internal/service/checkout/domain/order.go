package domain

import (
	"errors"
	"time"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// DeliveryType distinguishes courier delivery from in-store pickup.
type DeliveryType string

const (
	DeliveryCourier DeliveryType = "DELIVERY"
	DeliveryPickup  DeliveryType = "PICKUP"
)

// Order is the checkout aggregate root. It is created atomically with its
// items and, when a coupon was redeemed, its CouponUsage.
type Order struct {
	ID         uint64
	Number     string // external reference, uuid-based
	CustomerID uint64

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	AddressLine string
	City        string
	PostalCode  string

	PaymentMethod string
	DeliveryType  DeliveryType
	DeliveryDate  *time.Time
	DeliveryTime  string
	Instructions  string

	Status       OrderStatus
	TotalAmount  float64 // post-discount, tax and fees included
	Discount     float64
	VATAmount    float64
	DeliveryCost float64
	CODFee       float64

	Items       []OrderItem
	CouponUsage *CouponUsage

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem snapshots the unit price at purchase time, decoupled from later
// product price changes.
type OrderItem struct {
	ID        uint64
	OrderID   uint64
	ProductID uint64
	Name      string
	Price     float64
	Quantity  int
}

var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
}

// TransitionTo advances the lifecycle. Terminal states reject everything,
// everything else additionally allows cancellation.
func (o *Order) TransitionTo(next OrderStatus) error {
	for _, allowed := range validTransitions[o.Status] {
		if next == allowed {
			o.Status = next
			o.UpdatedAt = time.Now()
			return nil
		}
	}
	return errors.New("invalid order status transition from " + string(o.Status) + " to " + string(next))
}

// Terminal reports whether the order reached a final state.
func (o *Order) Terminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusCancelled
}

// Notification is the admin-facing record emitted alongside every new order.
type Notification struct {
	ID        uint64
	Type      string
	Message   string
	OrderID   uint64
	Read      bool
	CreatedAt time.Time
}

const NotificationNewOrder = "NEW_ORDER"
