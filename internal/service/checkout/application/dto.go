package application

import (
	"time"

	"bloom/internal/service/checkout/domain"
)

// CartItemInput is one requested cart line. Unit prices are deliberately not
// part of the input: the server recomputes them from the catalog.
type CartItemInput struct {
	ProductID uint64 `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest is the checkout payload accepted from the interface layer.
type CreateOrderRequest struct {
	CustomerID uint64 `json:"customerId,omitempty"`
	IsGuest    bool   `json:"isGuest,omitempty"`

	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`

	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
	PostalCode  string `json:"postalCode"`

	PaymentMethod string     `json:"paymentMethod"`
	DeliveryType  string     `json:"deliveryType"`
	DeliveryDate  *time.Time `json:"deliveryDate,omitempty"`
	DeliveryTime  string     `json:"deliveryTime,omitempty"`
	Instructions  string     `json:"instructions,omitempty"`

	Items      []CartItemInput `json:"items"`
	CouponCode string          `json:"couponCode,omitempty"`
}

// OrderItemView is the presentation form of a persisted order line.
type OrderItemView struct {
	ProductID uint64  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// CouponUsageView is the presentation form of a redemption record.
type CouponUsageView struct {
	CouponID       uint64  `json:"couponId"`
	DiscountAmount float64 `json:"discountAmount"`
}

// OrderView is the fully populated order returned after a commit. Monetary
// fields are rounded here, at the presentation boundary.
type OrderView struct {
	ID           uint64           `json:"id"`
	Number       string           `json:"number"`
	Status       string           `json:"status"`
	TotalAmount  float64          `json:"totalAmount"`
	Discount     float64          `json:"discount"`
	VATAmount    float64          `json:"vatAmount"`
	DeliveryCost float64          `json:"deliveryCost"`
	CODFee       float64          `json:"codFee"`
	Items        []OrderItemView  `json:"items"`
	CouponUsage  *CouponUsageView `json:"couponUsage,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}

func toOrderView(order *domain.Order) *OrderView {
	view := &OrderView{
		ID:           order.ID,
		Number:       order.Number,
		Status:       string(order.Status),
		TotalAmount:  domain.Round2(order.TotalAmount),
		Discount:     domain.Round2(order.Discount),
		VATAmount:    domain.Round2(order.VATAmount),
		DeliveryCost: domain.Round2(order.DeliveryCost),
		CODFee:       domain.Round2(order.CODFee),
		CreatedAt:    order.CreatedAt,
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, OrderItemView{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     domain.Round2(item.Price),
			Quantity:  item.Quantity,
		})
	}
	if order.CouponUsage != nil {
		view.CouponUsage = &CouponUsageView{
			CouponID:       order.CouponUsage.CouponID,
			DiscountAmount: domain.Round2(order.CouponUsage.DiscountAmount),
		}
	}
	return view
}
