package infrastructure

import (
	"time"
)

// ProductModel maps the products table. Quantity is only written through the
// conditional decrement in GormProductRepository.
type ProductModel struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:255;not null"`
	Price     float64
	Quantity  int
	Status    string `gorm:"size:16;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProductModel) TableName() string { return "products" }

// CouponModel maps the coupons table. Code is stored uppercased; the unique
// index makes lookups case-insensitive as long as writers normalize.
type CouponModel struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement"`
	Code            string `gorm:"size:64;uniqueIndex"`
	DiscountType    string `gorm:"size:16"`
	DiscountValue   float64
	MinimumAmount   *float64
	MaximumDiscount *float64
	UsageLimit      *int
	UsageCount      int
	UserUsageLimit  *int
	ValidFrom       time.Time
	ValidUntil      time.Time
	IsActive        bool
	NewUsersOnly    bool
	RuleExpression  string `gorm:"type:text"`
	CreatedAt       time.Time
}

func (CouponModel) TableName() string { return "coupons" }

// CouponUsageModel maps the coupon_usages table; rows are immutable.
type CouponUsageModel struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement"`
	CouponID       uint64 `gorm:"index"`
	OrderID        uint64 `gorm:"index"`
	CustomerID     uint64 `gorm:"index"`
	CustomerEmail  string `gorm:"size:255"`
	DiscountAmount float64
	OrderAmount    float64
	UsedAt         time.Time
}

func (CouponUsageModel) TableName() string { return "coupon_usages" }

type OrderModel struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	Number     string `gorm:"size:64;uniqueIndex"`
	CustomerID uint64 `gorm:"index"`

	CustomerName  string `gorm:"size:255"`
	CustomerEmail string `gorm:"size:255"`
	CustomerPhone string `gorm:"size:64"`

	AddressLine string `gorm:"size:255"`
	City        string `gorm:"size:128"`
	PostalCode  string `gorm:"size:32"`

	PaymentMethod string `gorm:"size:32"`
	DeliveryType  string `gorm:"size:16"`
	DeliveryDate  *time.Time
	DeliveryTime  string `gorm:"size:32"`
	Instructions  string `gorm:"type:text"`

	Status       string `gorm:"size:16;index"`
	TotalAmount  float64
	Discount     float64
	VATAmount    float64
	DeliveryCost float64
	CODFee       float64

	Items []OrderItemModel `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (OrderModel) TableName() string { return "orders" }

// OrderItemModel snapshots the unit price at purchase time.
type OrderItemModel struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	OrderID   uint64 `gorm:"index"`
	ProductID uint64 `gorm:"index"`
	Name      string `gorm:"size:255"`
	Price     float64
	Quantity  int
}

func (OrderItemModel) TableName() string { return "order_items" }

type CustomerModel struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:255"`
	Email        string `gorm:"size:255;uniqueIndex"`
	Phone        string `gorm:"size:64"`
	PasswordHash string `gorm:"size:128"`
	IsGuest      bool
	CreatedAt    time.Time
}

func (CustomerModel) TableName() string { return "customers" }

type NotificationModel struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Type      string `gorm:"size:32"`
	Message   string `gorm:"size:512"`
	OrderID   uint64 `gorm:"index"`
	Read      bool
	CreatedAt time.Time
}

func (NotificationModel) TableName() string { return "notifications" }
