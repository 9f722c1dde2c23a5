package dto

import "github.com/jewelen/marketplace-backend/internal/models"

// AdminStatsResponse is the admin dashboard summary.
type AdminStatsResponse struct {
	TotalUsers       int64          `json:"total_users"`
	TotalSuppliers   int64          `json:"total_suppliers"`
	PendingSuppliers int64          `json:"pending_suppliers"`
	TotalProducts    int64          `json:"total_products"`
	PendingProducts  int64          `json:"pending_products"`
	TotalOrders      int64          `json:"total_orders"`
	PaidOrders       int64          `json:"paid_orders"`
	TotalRevenue     float64        `json:"total_revenue"`
	RecentOrders     []models.Order `json:"recent_orders"`
}

// MonthlySales is one month's bucket of a seller's sales overview.
type MonthlySales struct {
	Month   string  `json:"month"`
	Units   int64   `json:"units"`
	Revenue float64 `json:"revenue"`
}

// BestSeller is one entry of a seller's top-sold products.
type BestSeller struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Units     int64   `json:"units"`
	Revenue   float64 `json:"revenue"`
}

// SupplierStatsResponse summarizes one seller's listings and sales.
type SupplierStatsResponse struct {
	TotalProducts    int64          `json:"total_products"`
	ApprovedProducts int64          `json:"approved_products"`
	PendingProducts  int64          `json:"pending_products"`
	OutOfStock       int64          `json:"out_of_stock"`
	UnitsSold        int64          `json:"units_sold"`
	Revenue          float64        `json:"revenue"`
	SalesOverview    []MonthlySales `json:"sales_overview"`
	BestSellers      []BestSeller   `json:"best_sellers"`
}

// BuyerStatsResponse summarizes one buyer's activity.
type BuyerStatsResponse struct {
	TotalOrders   int64         `json:"total_orders"`
	TotalSpent    float64       `json:"total_spent"`
	CartItems     int64         `json:"cart_items"`
	WishlistItems int64         `json:"wishlist_items"`
	RecentOrder   *models.Order `json:"recent_order,omitempty"`
}
