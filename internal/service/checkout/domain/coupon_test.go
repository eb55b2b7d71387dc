package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }

func activeCoupon() *Coupon {
	return &Coupon{
		ID:            1,
		Code:          "SAVE10",
		DiscountType:  DiscountPercentage,
		DiscountValue: 10,
		ValidFrom:     time.Now().Add(-24 * time.Hour),
		ValidUntil:    time.Now().Add(24 * time.Hour),
		IsActive:      true,
	}
}

func TestCouponValidate(t *testing.T) {
	now := time.Now()

	t.Run("ten percent discount", func(t *testing.T) {
		discount, err := activeCoupon().Validate(30.00, nil, now)
		require.NoError(t, err)
		assert.InDelta(t, 3.00, discount, 1e-9)
	})

	t.Run("inactive coupon", func(t *testing.T) {
		c := activeCoupon()
		c.IsActive = false
		_, err := c.Validate(30, nil, now)
		assert.ErrorIs(t, err, ErrCouponExpired)
	})

	t.Run("outside validity window", func(t *testing.T) {
		c := activeCoupon()
		c.ValidUntil = now.Add(-time.Hour)
		_, err := c.Validate(30, nil, now)
		assert.ErrorIs(t, err, ErrCouponExpired)

		c = activeCoupon()
		c.ValidFrom = now.Add(time.Hour)
		_, err = c.Validate(30, nil, now)
		assert.ErrorIs(t, err, ErrCouponExpired)
	})

	t.Run("below minimum amount", func(t *testing.T) {
		c := activeCoupon()
		c.MinimumAmount = ptrFloat(50)
		_, err := c.Validate(30, nil, now)
		var minErr *MinimumAmountError
		require.ErrorAs(t, err, &minErr)
		assert.Equal(t, 50.0, minErr.Minimum)
		assert.ErrorIs(t, err, ErrCouponNotApplicable)
	})

	t.Run("global usage limit reached", func(t *testing.T) {
		c := activeCoupon()
		c.UsageLimit = ptrInt(100)
		c.UsageCount = 100
		_, err := c.Validate(30, nil, now)
		assert.ErrorIs(t, err, ErrCouponLimitReached)
	})

	t.Run("user usage limit compares against configured value", func(t *testing.T) {
		c := activeCoupon()
		c.UserUsageLimit = ptrInt(2)

		_, err := c.Validate(30, &UserCouponHistory{Redemptions: 1, Orders: 5}, now)
		assert.NoError(t, err, "one redemption under a limit of two is allowed")

		_, err = c.Validate(30, &UserCouponHistory{Redemptions: 2, Orders: 5}, now)
		assert.ErrorIs(t, err, ErrCouponNotForUser)
	})

	t.Run("new users only requires zero prior orders", func(t *testing.T) {
		c := activeCoupon()
		c.NewUsersOnly = true

		_, err := c.Validate(30, &UserCouponHistory{Orders: 0}, now)
		assert.NoError(t, err)

		_, err = c.Validate(30, &UserCouponHistory{Orders: 1}, now)
		assert.ErrorIs(t, err, ErrCouponNotForUser)
	})

	t.Run("missing history skips per-user rules", func(t *testing.T) {
		c := activeCoupon()
		c.NewUsersOnly = true
		c.UserUsageLimit = ptrInt(1)
		_, err := c.Validate(30, nil, now)
		assert.NoError(t, err)
	})
}

func TestCouponDiscounts(t *testing.T) {
	now := time.Now()

	t.Run("percentage capped by maximum discount", func(t *testing.T) {
		c := activeCoupon()
		c.DiscountValue = 50
		c.MaximumDiscount = ptrFloat(20)
		discount, err := c.Validate(100, nil, now)
		require.NoError(t, err)
		assert.InDelta(t, 20, discount, 1e-9)
	})

	t.Run("fixed amount never exceeds order total", func(t *testing.T) {
		c := activeCoupon()
		c.DiscountType = DiscountFixed
		c.DiscountValue = 25
		discount, err := c.Validate(10, nil, now)
		require.NoError(t, err)
		assert.InDelta(t, 10, discount, 1e-9)
	})

	t.Run("free shipping gives no item discount but waives delivery", func(t *testing.T) {
		c := activeCoupon()
		c.DiscountType = DiscountFreeShipping
		discount, err := c.Validate(100, nil, now)
		require.NoError(t, err)
		assert.Zero(t, discount)
		assert.True(t, c.WaivesDelivery())
	})
}

func TestNormalizeCouponCode(t *testing.T) {
	assert.Equal(t, "SAVE10", NormalizeCouponCode("  save10 "))
	assert.Equal(t, "SAVE10", NormalizeCouponCode("Save10"))
}
