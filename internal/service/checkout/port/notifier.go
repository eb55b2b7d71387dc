package port

import "context"

// OrderPlacedEvent is the payload broadcast after a successful commit.
type OrderPlacedEvent struct {
	OrderID     uint64  `json:"orderId"`
	OrderNumber string  `json:"orderNumber"`
	CustomerID  uint64  `json:"customerId"`
	Customer    string  `json:"customer"`
	TotalAmount float64 `json:"totalAmount"`
	ItemCount   int     `json:"itemCount"`
	Message     string  `json:"message"`
}

// OrderNotifier pushes a best-effort broadcast to the admin dashboard. A
// failure is logged by the caller and never affects the committed order.
type OrderNotifier interface {
	Broadcast(ctx context.Context, event *OrderPlacedEvent) error
}
