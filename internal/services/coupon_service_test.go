package services

import (
	"testing"
	"time"

	"github.com/jewelen/marketplace-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func activeCoupon(kind models.DiscountType, value float64) *models.Coupon {
	return &models.Coupon{
		Code:          "SAVE10",
		DiscountType:  kind,
		DiscountValue: value,
		IsActive:      true,
		ExpiryDate:    time.Now().Add(24 * time.Hour),
		UsageLimit:    100,
	}
}

func TestComputeDiscountPercentage(t *testing.T) {
	c := activeCoupon(models.DiscountPercentage, 10)

	assert.Equal(t, 100.0, ComputeDiscount(c, 1000))
	assert.Equal(t, 149.95, ComputeDiscount(c, 1499.50))
}

func TestComputeDiscountFlat(t *testing.T) {
	c := activeCoupon(models.DiscountFlat, 200)

	assert.Equal(t, 200.0, ComputeDiscount(c, 1000))
}

func TestComputeDiscountClampedToTotal(t *testing.T) {
	// A flat discount larger than the total never produces a negative
	// chargeable amount.
	c := activeCoupon(models.DiscountFlat, 1500)
	assert.Equal(t, 1000.0, ComputeDiscount(c, 1000))

	over := activeCoupon(models.DiscountPercentage, 150)
	assert.Equal(t, 1000.0, ComputeDiscount(over, 1000))
}

func TestComputeDiscountRounding(t *testing.T) {
	c := activeCoupon(models.DiscountPercentage, 33)

	// 33% of 99.99 is 32.9967, rounded to 33.00.
	assert.Equal(t, 33.0, ComputeDiscount(c, 99.99))
}

func TestCheckRedeemable(t *testing.T) {
	now := time.Now()

	c := activeCoupon(models.DiscountPercentage, 10)
	assert.NoError(t, CheckRedeemable(c, 1000, now))

	inactive := activeCoupon(models.DiscountPercentage, 10)
	inactive.IsActive = false
	assert.ErrorIs(t, CheckRedeemable(inactive, 1000, now), ErrCouponInactive)

	expired := activeCoupon(models.DiscountPercentage, 10)
	expired.ExpiryDate = now.Add(-time.Hour)
	assert.ErrorIs(t, CheckRedeemable(expired, 1000, now), ErrCouponExpired)

	exhausted := activeCoupon(models.DiscountPercentage, 10)
	exhausted.UsageLimit = 5
	exhausted.TimesUsed = 5
	assert.ErrorIs(t, CheckRedeemable(exhausted, 1000, now), ErrCouponExhausted)

	minimum := activeCoupon(models.DiscountPercentage, 10)
	minimum.MinPurchaseAmount = 2000
	assert.ErrorIs(t, CheckRedeemable(minimum, 1000, now), ErrBelowMinPurchase)
}

func TestCheckRedeemableOrder(t *testing.T) {
	// When several conditions fail at once, the caller gets the most
	// specific one in a fixed order: inactive before expired before
	// exhausted before minimum.
	c := activeCoupon(models.DiscountPercentage, 10)
	c.IsActive = false
	c.ExpiryDate = time.Now().Add(-time.Hour)
	c.TimesUsed = c.UsageLimit

	assert.ErrorIs(t, CheckRedeemable(c, 0, time.Now()), ErrCouponInactive)
}

func TestCheckRedeemableAtLimitBoundary(t *testing.T) {
	c := activeCoupon(models.DiscountPercentage, 10)
	c.UsageLimit = 5
	c.TimesUsed = 4

	assert.NoError(t, CheckRedeemable(c, 1000, time.Now()))
}
