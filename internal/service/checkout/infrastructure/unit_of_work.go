package infrastructure

import (
	"context"

	"gorm.io/gorm"

	"bloom/internal/service/checkout/domain"
)

// GormUnitOfWork implements domain.UnitOfWork on a gorm transaction. Every
// repository handed to fn is bound to the same *gorm.DB transaction, so an
// error from fn rolls back stock decrements, coupon increments and inserts
// together.
type GormUnitOfWork struct {
	db *gorm.DB
}

func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

func (u *GormUnitOfWork) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	})
}

// NewRepositories binds every repository to one db handle (pooled or
// transactional).
func NewRepositories(db *gorm.DB) domain.Repositories {
	return domain.Repositories{
		Products:      NewGormProductRepository(db),
		Coupons:       NewGormCouponRepository(db),
		Orders:        NewGormOrderRepository(db),
		Customers:     NewGormCustomerRepository(db),
		Notifications: NewGormNotificationRepository(db),
	}
}
