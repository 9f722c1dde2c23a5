package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanLogin(t *testing.T) {
	cases := []struct {
		user User
		want bool
	}{
		{User{IsVerified: true, Status: AccountApproved}, true},
		{User{IsVerified: false, Status: AccountApproved}, false},
		{User{IsVerified: true, Status: AccountPending}, false},
		{User{IsVerified: true, Status: AccountRejected}, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.user.CanLogin())
	}
}

func TestValidPricePair(t *testing.T) {
	original := 2000.0

	assert.True(t, (&Product{Price: 1500}).ValidPricePair())
	assert.True(t, (&Product{Price: 1500, OriginalPrice: &original}).ValidPricePair())
	assert.False(t, (&Product{Price: 2000, OriginalPrice: &original}).ValidPricePair())
	assert.False(t, (&Product{Price: 2500, OriginalPrice: &original}).ValidPricePair())
}

func TestFinalAmount(t *testing.T) {
	o := Order{TotalAmount: 1000, DiscountAmount: 100}
	assert.Equal(t, 900.0, o.FinalAmount())

	full := Order{TotalAmount: 1000}
	assert.Equal(t, 1000.0, full.FinalAmount())
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory(CategoryRings))
	assert.True(t, ValidCategory("New Arrivals"))
	assert.False(t, ValidCategory("Watches"))
	assert.False(t, ValidCategory(""))
}

func TestValidStatuses(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderShipped))
	assert.False(t, ValidOrderStatus("Returned"))

	assert.True(t, ValidItemStatus(ItemDelivered))
	assert.False(t, ValidItemStatus("Pending"))
}
