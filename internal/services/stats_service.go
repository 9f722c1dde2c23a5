package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jewelen/marketplace-backend/internal/dto"
	"github.com/jewelen/marketplace-backend/internal/models"
	"gorm.io/gorm"
)

const (
	overviewMonths   = 6
	bestSellerCount  = 5
	recentOrderCount = 10
)

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// AdminStats aggregates the whole marketplace. Revenue counts the
// discounted amount of paid and refunded orders; refunds stay in the
// order history.
func (s *StatsService) AdminStats() (*dto.AdminStatsResponse, error) {
	out := &dto.AdminStatsResponse{}

	s.db.Model(&models.User{}).Count(&out.TotalUsers)
	s.db.Model(&models.User{}).Where("role = ?", models.RoleSupplier).Count(&out.TotalSuppliers)
	s.db.Model(&models.User{}).
		Where("role = ? AND status = ?", models.RoleSupplier, models.AccountPending).
		Count(&out.PendingSuppliers)

	s.db.Model(&models.Product{}).Count(&out.TotalProducts)
	s.db.Model(&models.Product{}).Where("status = ?", models.ProductPending).Count(&out.PendingProducts)

	s.db.Model(&models.Order{}).Count(&out.TotalOrders)
	s.db.Model(&models.Order{}).Where("payment_status = ?", models.PaymentPaid).Count(&out.PaidOrders)

	err := s.db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentPaid).
		Select("COALESCE(SUM(total_amount - discount_amount), 0)").
		Scan(&out.TotalRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute revenue: %w", err)
	}

	err = s.db.Preload("Items").
		Order("created_at DESC").
		Limit(recentOrderCount).
		Find(&out.RecentOrders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	return out, nil
}

// soldRow is one paid line item of a seller, with the order's timestamp
// attached for monthly bucketing.
type soldRow struct {
	ProductID    uuid.UUID
	Quantity     int64
	PriceAtOrder float64
	CreatedAt    time.Time
}

// monthlyOverview buckets sold rows into the trailing months ending at
// now, oldest first. Months with no sales still get a zero bucket.
func monthlyOverview(rows []soldRow, now time.Time, months int) []dto.MonthlySales {
	byMonth := map[string]*dto.MonthlySales{}
	out := make([]dto.MonthlySales, months)
	for i := 0; i < months; i++ {
		m := now.AddDate(0, i-months+1, 0).Format("2006-01")
		out[i] = dto.MonthlySales{Month: m}
		byMonth[m] = &out[i]
	}
	for _, r := range rows {
		bucket, ok := byMonth[r.CreatedAt.Format("2006-01")]
		if !ok {
			continue
		}
		bucket.Units += r.Quantity
		bucket.Revenue = round2(bucket.Revenue + r.PriceAtOrder*float64(r.Quantity))
	}
	return out
}

// topSellers ranks sold rows by units, ties broken by revenue.
func topSellers(rows []soldRow, names map[uuid.UUID]string, limit int) []dto.BestSeller {
	byProduct := map[uuid.UUID]*dto.BestSeller{}
	order := make([]uuid.UUID, 0)
	for _, r := range rows {
		entry, ok := byProduct[r.ProductID]
		if !ok {
			entry = &dto.BestSeller{ProductID: r.ProductID.String(), Name: names[r.ProductID]}
			byProduct[r.ProductID] = entry
			order = append(order, r.ProductID)
		}
		entry.Units += r.Quantity
		entry.Revenue = round2(entry.Revenue + r.PriceAtOrder*float64(r.Quantity))
	}

	out := make([]dto.BestSeller, 0, len(order))
	for _, id := range order {
		out = append(out, *byProduct[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Units != out[j].Units {
			return out[i].Units > out[j].Units
		}
		return out[i].Revenue > out[j].Revenue
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// SupplierStats summarizes one seller. Sales figures only count items
// from paid orders; the overview covers the trailing six months while
// best sellers are all-time.
func (s *StatsService) SupplierStats(sellerID uuid.UUID) (*dto.SupplierStatsResponse, error) {
	out := &dto.SupplierStatsResponse{}

	products := s.db.Model(&models.Product{}).Where("seller_id = ?", sellerID)
	products.Session(&gorm.Session{}).Count(&out.TotalProducts)
	products.Session(&gorm.Session{}).Where("status = ?", models.ProductApproved).Count(&out.ApprovedProducts)
	products.Session(&gorm.Session{}).Where("status = ?", models.ProductPending).Count(&out.PendingProducts)
	products.Session(&gorm.Session{}).Where("stock_quantity = 0").Count(&out.OutOfStock)

	var rows []soldRow
	err := s.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.seller_id = ? AND orders.payment_status = ?", sellerID, models.PaymentPaid).
		Select("order_items.product_id, order_items.quantity, order_items.price_at_order, orders.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	for _, r := range rows {
		out.UnitsSold += r.Quantity
		out.Revenue = round2(out.Revenue + r.PriceAtOrder*float64(r.Quantity))
	}
	out.SalesOverview = monthlyOverview(rows, time.Now(), overviewMonths)

	names := map[uuid.UUID]string{}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		if _, seen := names[r.ProductID]; seen {
			continue
		}
		names[r.ProductID] = ""
		ids = append(ids, r.ProductID)
	}
	if len(ids) > 0 {
		var sold []models.Product
		if err := s.db.Where("id IN ?", ids).Find(&sold).Error; err != nil {
			return nil, fmt.Errorf("failed to load sold products: %w", err)
		}
		for _, p := range sold {
			names[p.ID] = p.Name
		}
	}
	out.BestSellers = topSellers(rows, names, bestSellerCount)
	return out, nil
}

func (s *StatsService) BuyerStats(userID uuid.UUID) (*dto.BuyerStatsResponse, error) {
	out := &dto.BuyerStatsResponse{}

	s.db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&out.TotalOrders)
	s.db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&out.CartItems)
	s.db.Model(&models.WishlistItem{}).Where("user_id = ?", userID).Count(&out.WishlistItems)

	err := s.db.Model(&models.Order{}).
		Where("user_id = ? AND payment_status = ?", userID, models.PaymentPaid).
		Select("COALESCE(SUM(total_amount - discount_amount), 0)").
		Scan(&out.TotalSpent).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute total spent: %w", err)
	}

	var latest models.Order
	err = s.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&latest).Error
	switch {
	case err == nil:
		out.RecentOrder = &latest
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, fmt.Errorf("failed to load recent order: %w", err)
	}
	return out, nil
}
