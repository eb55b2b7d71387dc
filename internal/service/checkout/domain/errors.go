package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for coupon validation. Handlers branch on these with
// errors.Is instead of matching message text.
var (
	ErrCouponNotFound      = errors.New("invalid coupon code")
	ErrCouponExpired       = errors.New("coupon is not valid or has expired")
	ErrCouponLimitReached  = errors.New("coupon usage limit reached")
	ErrCouponNotForUser    = errors.New("coupon is only for new users or already applied")
	ErrCouponNotApplicable = errors.New("coupon is not applicable to this order")
)

var (
	ErrEmptyCart        = errors.New("order must contain at least one item")
	ErrInvalidQuantity  = errors.New("item quantity must be positive")
	ErrCustomerNotFound = errors.New("customer not found")
)

// ProductNotFoundError reports a cart line referencing an unknown product id.
type ProductNotFoundError struct {
	ProductID uint64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// ProductUnavailableError reports a product that exists but is not active.
type ProductUnavailableError struct {
	ProductID uint64
	Name      string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("%s is no longer available", e.Name)
}

// InsufficientStockError reports a conditional stock decrement that matched
// zero rows: someone else bought the remaining units first.
type InsufficientStockError struct {
	ProductID uint64
	Name      string
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.Name)
}

// MinimumAmountError reports an order total below the coupon's threshold.
type MinimumAmountError struct {
	Minimum float64
}

func (e *MinimumAmountError) Error() string {
	return fmt.Sprintf("minimum order of %.2f required", e.Minimum)
}

func (e *MinimumAmountError) Unwrap() error { return ErrCouponNotApplicable }
