package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMonthlyOverviewBucketsTrailingMonths(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	ring := uuid.New()

	rows := []soldRow{
		{ProductID: ring, Quantity: 2, PriceAtOrder: 500, CreatedAt: now.AddDate(0, 0, -1)},
		{ProductID: ring, Quantity: 1, PriceAtOrder: 500, CreatedAt: now.AddDate(0, -2, 0)},
		// Outside the window; must be ignored.
		{ProductID: ring, Quantity: 9, PriceAtOrder: 500, CreatedAt: now.AddDate(0, -7, 0)},
	}

	overview := monthlyOverview(rows, now, 6)
	assert.Len(t, overview, 6)
	assert.Equal(t, "2026-03", overview[0].Month)
	assert.Equal(t, "2026-08", overview[5].Month)

	assert.Equal(t, int64(2), overview[5].Units)
	assert.Equal(t, float64(1000), overview[5].Revenue)
	assert.Equal(t, int64(1), overview[3].Units)

	// Months with no sales still appear as zero buckets.
	assert.Zero(t, overview[0].Units)
	assert.Zero(t, overview[0].Revenue)
}

func TestTopSellersRanksByUnits(t *testing.T) {
	ring := uuid.New()
	chain := uuid.New()
	studs := uuid.New()
	names := map[uuid.UUID]string{ring: "Gold Ring", chain: "Silver Chain", studs: "Pearl Studs"}

	rows := []soldRow{
		{ProductID: ring, Quantity: 1, PriceAtOrder: 900},
		{ProductID: chain, Quantity: 2, PriceAtOrder: 300},
		{ProductID: chain, Quantity: 3, PriceAtOrder: 300},
		{ProductID: studs, Quantity: 1, PriceAtOrder: 400},
	}

	top := topSellers(rows, names, 2)
	assert.Len(t, top, 2)
	assert.Equal(t, "Silver Chain", top[0].Name)
	assert.Equal(t, int64(5), top[0].Units)
	assert.Equal(t, float64(1500), top[0].Revenue)
	assert.Equal(t, "Gold Ring", top[1].Name)
}

func TestTopSellersTieBreaksOnRevenue(t *testing.T) {
	cheap := uuid.New()
	dear := uuid.New()
	names := map[uuid.UUID]string{cheap: "Brass Band", dear: "Diamond Ring"}

	rows := []soldRow{
		{ProductID: cheap, Quantity: 2, PriceAtOrder: 100},
		{ProductID: dear, Quantity: 2, PriceAtOrder: 5000},
	}

	top := topSellers(rows, names, 5)
	assert.Equal(t, "Diamond Ring", top[0].Name)
	assert.Equal(t, "Brass Band", top[1].Name)
}
