package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"bloom/internal/service/checkout/domain"
)

// GormProductRepository implements domain.ProductRepository.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uint64) ([]*domain.Product, error) {
	var models []*ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "find products")
	}
	products := make([]*domain.Product, len(models))
	for i, m := range models {
		products[i] = toDomainProduct(m)
	}
	return products, nil
}

// ReserveStock performs the conditional decrement in a single UPDATE. Zero
// rows affected means the remaining stock is below the requested quantity;
// quantity can never go negative because the guard is part of the statement.
func (r *GormProductRepository) ReserveStock(ctx context.Context, productID uint64, quantity int) error {
	res := r.db.WithContext(ctx).
		Model(&ProductModel{}).
		Where("id = ? AND quantity >= ?", productID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if res.Error != nil {
		return errors.Wrap(res.Error, "reserve stock")
	}
	if res.RowsAffected == 0 {
		var m ProductModel
		name := ""
		if err := r.db.WithContext(ctx).Select("name").First(&m, productID).Error; err == nil {
			name = m.Name
		}
		return &domain.InsufficientStockError{ProductID: productID, Name: name, Requested: quantity}
	}
	return nil
}

// GormCouponRepository implements domain.CouponRepository.
type GormCouponRepository struct {
	db *gorm.DB
}

func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var model CouponModel
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, errors.Wrap(err, "find coupon")
	}
	return toDomainCoupon(&model), nil
}

// IncrementUsage carries the usage-limit guard into the UPDATE so two racing
// checkouts cannot both take the last redemption.
func (r *GormCouponRepository) IncrementUsage(ctx context.Context, couponID uint64) error {
	res := r.db.WithContext(ctx).
		Model(&CouponModel{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", couponID).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return errors.Wrap(res.Error, "increment coupon usage")
	}
	if res.RowsAffected == 0 {
		return domain.ErrCouponLimitReached
	}
	return nil
}

func (r *GormCouponRepository) CreateUsage(ctx context.Context, usage *domain.CouponUsage) error {
	model := fromDomainCouponUsage(usage)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return errors.Wrap(err, "create coupon usage")
	}
	usage.ID = model.ID
	return nil
}

func (r *GormCouponRepository) HistoryFor(ctx context.Context, couponID, customerID uint64) (*domain.UserCouponHistory, error) {
	var redemptions, orders int64
	err := r.db.WithContext(ctx).
		Model(&CouponUsageModel{}).
		Where("coupon_id = ? AND customer_id = ?", couponID, customerID).
		Count(&redemptions).Error
	if err != nil {
		return nil, errors.Wrap(err, "count coupon redemptions")
	}
	err = r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("customer_id = ?", customerID).
		Count(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "count customer orders")
	}
	return &domain.UserCouponHistory{Redemptions: int(redemptions), Orders: int(orders)}, nil
}

// GormOrderRepository implements domain.OrderRepository.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	model := fromDomainOrder(order)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return errors.Wrap(err, "create order")
	}
	order.ID = model.ID
	for i := range model.Items {
		order.Items[i].ID = model.Items[i].ID
		order.Items[i].OrderID = model.ID
	}
	return nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).Preload("Items").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Errorf("order %d not found", id)
		}
		return nil, errors.Wrap(err, "find order")
	}
	return toDomainOrder(&model), nil
}

func (r *GormOrderRepository) FindRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	var models []*OrderModel
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "find recent orders")
	}
	orders := make([]*domain.Order, len(models))
	for i, m := range models {
		orders[i] = toDomainOrder(m)
	}
	return orders, nil
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uint64, status domain.OrderStatus) error {
	return errors.Wrap(
		r.db.WithContext(ctx).Model(&OrderModel{}).Where("id = ?", id).Update("status", string(status)).Error,
		"update order status")
}

// GormCustomerRepository implements domain.CustomerRepository.
type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) FindByID(ctx context.Context, id uint64) (*domain.Customer, error) {
	var model CustomerModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, errors.Wrap(err, "find customer")
	}
	return toDomainCustomer(&model), nil
}

// EnsureGuest is idempotent on email: the unique index on customers.email
// makes the lose-the-race path fall back to the winner's row.
func (r *GormCustomerRepository) EnsureGuest(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	var model CustomerModel
	err := r.db.WithContext(ctx).Where("email = ?", customer.Email).First(&model).Error
	if err == nil {
		return toDomainCustomer(&model), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "lookup guest customer")
	}

	model = CustomerModel{
		Name:         customer.Name,
		Email:        customer.Email,
		Phone:        customer.Phone,
		PasswordHash: customer.PasswordHash,
		IsGuest:      true,
		CreatedAt:    customer.CreatedAt,
	}
	if createErr := r.db.WithContext(ctx).Create(&model).Error; createErr != nil {
		// Lost an insert race: another checkout created the account first.
		if refetchErr := r.db.WithContext(ctx).Where("email = ?", customer.Email).First(&model).Error; refetchErr != nil {
			return nil, errors.Wrap(createErr, "create guest customer")
		}
	}
	return toDomainCustomer(&model), nil
}

// GormNotificationRepository implements domain.NotificationRepository.
type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	model := &NotificationModel{
		Type:      n.Type,
		Message:   n.Message,
		OrderID:   n.OrderID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return errors.Wrap(err, "create notification")
	}
	n.ID = model.ID
	return nil
}
