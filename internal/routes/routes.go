package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jewelen/marketplace-backend/internal/config"
	"github.com/jewelen/marketplace-backend/internal/handlers"
	"github.com/jewelen/marketplace-backend/internal/middleware"
	"github.com/jewelen/marketplace-backend/internal/models"
	"gorm.io/gorm"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Health       *handlers.HealthHandler
	Product      *handlers.ProductHandler
	Import       *handlers.ImportHandler
	Cart         *handlers.CartHandler
	Coupon       *handlers.CouponHandler
	Order        *handlers.OrderHandler
	Address      *handlers.AddressHandler
	Stats        *handlers.StatsHandler
	Blog         *handlers.BlogHandler
	Notification *handlers.NotificationHandler
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth routes are public with a stricter limit: 10 req/min per IP.
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/verify-otp", h.Auth.VerifyOTP)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/forgot-password", h.Auth.ForgotPassword)
	auth.Post("/reset-password/:token", h.Auth.ResetPassword)

	jwt := middleware.JWTProtected(cfg)
	supplier := middleware.RequireRole(models.RoleSupplier, models.RoleAdmin)
	admin := middleware.AdminRequired(db, cfg)

	api.Get("/auth/me", jwt, h.Auth.Me)

	// Public storefront
	products := api.Group("/products")
	products.Get("/", h.Product.Browse)
	products.Get("/collections", h.Product.Collections)
	products.Get("/sku/:sku", h.Product.GetBySKU)
	products.Get("/:id", h.Product.Get)

	blog := api.Group("/blog")
	blog.Get("/", h.Blog.List)
	blog.Get("/:slug", h.Blog.GetBySlug)

	// Coupon validation is reachable by any signed-in buyer at checkout.
	api.Post("/coupons/validate", jwt, h.Coupon.Validate)

	// Buyer
	cart := api.Group("/cart", jwt)
	cart.Get("/", h.Cart.Get)
	cart.Post("/", h.Cart.Add)
	cart.Put("/", h.Cart.UpdateQuantity)
	cart.Delete("/clear", h.Cart.Clear)
	cart.Delete("/:productId", h.Cart.Remove)

	wishlist := api.Group("/wishlist", jwt)
	wishlist.Get("/", h.Cart.Wishlist)
	wishlist.Post("/toggle", h.Cart.ToggleWishlist)

	addresses := api.Group("/addresses", jwt)
	addresses.Get("/", h.Address.List)
	addresses.Post("/", h.Address.Create)
	addresses.Put("/:id", h.Address.Update)
	addresses.Delete("/:id", h.Address.Delete)

	orders := api.Group("/orders", jwt)
	orders.Post("/", h.Order.Create)
	orders.Post("/verify-payment", h.Order.VerifyPayment)
	orders.Get("/my", h.Order.My)
	orders.Get("/seller", supplier, h.Order.SellerOrders)
	orders.Put("/items/:itemId/status", supplier, h.Order.UpdateItemStatus)
	orders.Get("/:id", h.Order.Get)
	orders.Post("/:id/cancel", h.Order.Cancel)
	orders.Get("/:id/invoice", h.Order.Invoice)

	notifications := api.Group("/notifications", jwt)
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.UnreadCount)
	notifications.Get("/stream", h.Notification.Stream)
	notifications.Put("/read-all", h.Notification.MarkAllRead)
	notifications.Put("/:id/read", h.Notification.MarkRead)

	api.Get("/stats/me", jwt, h.Stats.Buyer)

	// Supplier
	seller := api.Group("/seller", jwt, supplier)
	seller.Get("/products", h.Product.MyProducts)
	seller.Post("/products", h.Product.Create)
	seller.Put("/products/:id", h.Product.Update)
	seller.Patch("/products/:id/stock", h.Product.UpdateStock)
	seller.Delete("/products/:id", h.Product.Delete)
	seller.Get("/stats", h.Stats.Supplier)

	importGroup := seller.Group("/import")
	importGroup.Post("/csv", h.Import.UploadCSV)
	importGroup.Post("/csv/headers", h.Import.CSVHeaders)
	importGroup.Post("/url", h.Import.ImportURL)
	importGroup.Post("/url/headers", h.Import.URLHeaders)
	importGroup.Post("/sftp", h.Import.ImportSFTP)
	importGroup.Post("/sftp/headers", h.Import.SFTPHeaders)

	feeds := seller.Group("/feeds")
	feeds.Get("/", h.Import.ListFeeds)
	feeds.Post("/", h.Import.CreateFeed)
	feeds.Patch("/:id", h.Import.UpdateFeed)
	feeds.Delete("/:id", h.Import.DeleteFeed)

	// Admin
	adminGroup := api.Group("/admin", jwt, admin)
	adminGroup.Get("/stats", h.Stats.Admin)

	adminGroup.Get("/users", h.Auth.ListUsers)
	adminGroup.Get("/users/:id", h.Auth.GetUser)
	adminGroup.Put("/users/:id", h.Auth.UpdateUser)
	adminGroup.Delete("/users/:id", h.Auth.DeleteUser)
	adminGroup.Get("/suppliers/pending", h.Auth.PendingSuppliers)
	adminGroup.Put("/suppliers/:id/approve", h.Auth.ApproveSupplier)
	adminGroup.Put("/suppliers/:id/reject", h.Auth.RejectSupplier)

	adminGroup.Get("/products", h.Product.All)
	adminGroup.Get("/products/pending", h.Product.Pending)
	adminGroup.Put("/products/:id/approve", h.Product.Approve)
	adminGroup.Put("/products/:id/reject", h.Product.Reject)

	adminGroup.Get("/orders", h.Order.All)
	adminGroup.Put("/orders/:id/status", h.Order.UpdateStatus)
	adminGroup.Delete("/orders/:id", h.Order.Delete)

	adminGroup.Get("/coupons", h.Coupon.List)
	adminGroup.Post("/coupons", h.Coupon.Create)
	adminGroup.Delete("/coupons/:id", h.Coupon.Delete)

	adminGroup.Post("/blog", h.Blog.Create)
	adminGroup.Delete("/blog/:id", h.Blog.Delete)
}
