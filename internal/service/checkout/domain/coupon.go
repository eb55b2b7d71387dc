package domain

import (
	"strings"
	"time"
)

// DiscountType enumerates the supported coupon mechanics.
type DiscountType string

const (
	DiscountPercentage   DiscountType = "PERCENTAGE"
	DiscountFixed        DiscountType = "FIXED"
	DiscountFreeShipping DiscountType = "FREE_SHIPPING"
)

// Coupon is the promotion aggregate. UsageCount is only incremented inside the
// same transaction as the order that redeems the coupon.
type Coupon struct {
	ID              uint64
	Code            string // stored uppercased, matched case-insensitively
	DiscountType    DiscountType
	DiscountValue   float64
	MinimumAmount   *float64
	MaximumDiscount *float64 // caps percentage discounts
	UsageLimit      *int     // global cap
	UsageCount      int
	UserUsageLimit  *int // per-user cap
	ValidFrom       time.Time
	ValidUntil      time.Time
	IsActive        bool
	NewUsersOnly    bool
	// RuleExpression is an optional CEL predicate evaluated against the order
	// facts; empty means no extra restriction.
	RuleExpression string
	CreatedAt      time.Time
}

// NormalizeCouponCode maps user input onto the canonical stored form.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// UserCouponHistory carries the per-user counts the validator needs. The
// repository supplies it; zero values are correct for anonymous checkouts.
type UserCouponHistory struct {
	Redemptions int // prior CouponUsage rows for this coupon and user
	Orders      int // prior orders by this user, any coupon or none
}

// Validate applies every business rule against the given order amount and,
// when the buyer is known, their history. It returns the discount to apply.
//
// The per-user rules compare against the configured limits: a userUsageLimit
// of N allows N redemptions per user, and newUsersOnly requires zero prior
// orders. (The legacy storefront rejected on any prior usage OR any prior
// order regardless of the configured value.)
func (c *Coupon) Validate(orderAmount float64, history *UserCouponHistory, now time.Time) (float64, error) {
	if !c.IsActive || now.Before(c.ValidFrom) || now.After(c.ValidUntil) {
		return 0, ErrCouponExpired
	}
	if c.MinimumAmount != nil && orderAmount < *c.MinimumAmount {
		return 0, &MinimumAmountError{Minimum: *c.MinimumAmount}
	}
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return 0, ErrCouponLimitReached
	}
	if history != nil {
		if c.UserUsageLimit != nil && history.Redemptions >= *c.UserUsageLimit {
			return 0, ErrCouponNotForUser
		}
		if c.NewUsersOnly && history.Orders > 0 {
			return 0, ErrCouponNotForUser
		}
	}
	return c.discountFor(orderAmount), nil
}

// WaivesDelivery reports whether the coupon removes the delivery cost instead
// of discounting the goods.
func (c *Coupon) WaivesDelivery() bool {
	return c.DiscountType == DiscountFreeShipping
}

// discountFor computes the raw discount, clamped to [0, orderAmount] so a
// coupon can never push a total negative.
func (c *Coupon) discountFor(orderAmount float64) float64 {
	var discount float64
	switch c.DiscountType {
	case DiscountPercentage:
		discount = orderAmount * c.DiscountValue / 100
		if c.MaximumDiscount != nil && discount > *c.MaximumDiscount {
			discount = *c.MaximumDiscount
		}
	case DiscountFixed:
		discount = c.DiscountValue
	case DiscountFreeShipping:
		discount = 0
	}
	if discount > orderAmount {
		discount = orderAmount
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// CouponUsage is the immutable redemption record, created exactly once per
// successful order that used a coupon.
type CouponUsage struct {
	ID             uint64
	CouponID       uint64
	OrderID        uint64
	CustomerID     uint64
	CustomerEmail  string
	DiscountAmount float64
	OrderAmount    float64
	UsedAt         time.Time
}
