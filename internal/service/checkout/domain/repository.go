package domain

import "context"

// ProductRepository reads catalog rows and performs the atomic stock
// reservation. ReserveStock must be a single conditional update
// ("... WHERE id = ? AND quantity >= ?"); when it matches zero rows the
// implementation returns *InsufficientStockError. It must never be
// implemented as a read followed by a write.
type ProductRepository interface {
	FindByIDs(ctx context.Context, ids []uint64) ([]*Product, error)
	ReserveStock(ctx context.Context, productID uint64, quantity int) error
}

// CouponRepository persists coupons and their redemption records.
// IncrementUsage carries the usage-limit guard into the UPDATE itself so two
// racing checkouts cannot both take the last redemption.
type CouponRepository interface {
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	IncrementUsage(ctx context.Context, couponID uint64) error
	CreateUsage(ctx context.Context, usage *CouponUsage) error
	HistoryFor(ctx context.Context, couponID, customerID uint64) (*UserCouponHistory, error)
}

// OrderRepository persists orders with their items.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id uint64) (*Order, error)
	FindRecent(ctx context.Context, limit int) ([]*Order, error)
	UpdateStatus(ctx context.Context, id uint64, status OrderStatus) error
}

// CustomerRepository resolves buyer identity. EnsureGuest is idempotent on
// email: it returns the existing account when one exists.
type CustomerRepository interface {
	FindByID(ctx context.Context, id uint64) (*Customer, error)
	EnsureGuest(ctx context.Context, customer *Customer) (*Customer, error)
}

// NotificationRepository records admin notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
}

// Repositories bundles every repository bound to one transaction.
type Repositories struct {
	Products      ProductRepository
	Coupons       CouponRepository
	Orders        OrderRepository
	Customers     CustomerRepository
	Notifications NotificationRepository
}

// UnitOfWork runs fn inside a single database transaction. Any error returned
// by fn rolls back everything fn did through the supplied repositories.
type UnitOfWork interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

// RuleEngine evaluates an optional coupon eligibility predicate against the
// order facts. An empty expression is always eligible.
type RuleEngine interface {
	Evaluate(expression string, fact Fact) (bool, error)
}

// Fact is the flat view of an order a rule expression can reference.
type Fact struct {
	OrderAmount  float64  `json:"orderAmount"`
	ItemCount    int      `json:"itemCount"`
	ProductIDs   []uint64 `json:"productIds"`
	DeliveryType string   `json:"deliveryType"`
	IsGuest      bool     `json:"isGuest"`
}
