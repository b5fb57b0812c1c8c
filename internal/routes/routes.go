package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/kcx/internal/config"
	"github.com/example/kcx/internal/handlers"
	"github.com/example/kcx/internal/middleware"
	"github.com/example/kcx/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	telegramService := services.NewTelegramService(cfg.NotifyBotToken, cfg.NotifyChatID)
	gatewayService := services.NewGatewayService(cfg.GatewayKeyID, cfg.GatewayKeySecret)
	cartService := services.NewCartService(db)
	orderService := services.NewOrderService(db, cartService, telegramService)
	paymentService := services.NewPaymentService(db, gatewayService, cfg.WebhookSecret, telegramService)
	catalogService := services.NewCatalogService(db, services.NewLocalImageStorage(cfg.UploadDir))

	sessionStore := handlers.NewSessionStore()

	shopHandler := handlers.NewShopHandler(db)
	cartHandler := handlers.NewCartHandler(sessionStore, cartService)
	checkoutHandler := handlers.NewCheckoutHandler(db, sessionStore, cartService, orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg)
	adminOrderHandler := handlers.NewAdminOrderHandler(db)
	adminCatalogHandler := handlers.NewAdminCatalogHandler(db, catalogService)

	// Storefront
	app.Get("/", shopHandler.Home)
	app.Get("/shop", shopHandler.Shop)
	app.Get("/product/:id", shopHandler.ProductDetail)

	// Cart
	app.Get("/cart", cartHandler.View)
	app.Get("/add/:id", cartHandler.Add)
	app.Get("/cart/increase/:id", cartHandler.Increase)
	app.Get("/cart/decrease/:id", cartHandler.Decrease)
	app.Get("/cart/remove/:id", cartHandler.Remove)

	// Checkout
	app.Get("/checkout", checkoutHandler.Show)
	app.Post("/checkout", checkoutHandler.Submit)
	app.Post("/checkout_ajax", checkoutHandler.SubmitAJAX)
	app.Get("/order-success/:id", checkoutHandler.OrderSuccess)

	// Payment reconciliation
	app.Post("/create_order", paymentHandler.CreateOrder)
	app.Post("/verify_payment", paymentHandler.VerifyPayment)
	app.Post("/razorpay_webhook", paymentHandler.Webhook)

	// Admin
	admin := app.Group("/admin")
	admin.Post("/login", middleware.LoginRateLimit(), adminHandler.Login)
	admin.Get("/logout", adminHandler.Logout)

	protected := admin.Group("", middleware.AdminRequired(cfg))
	protected.Get("/", adminHandler.Dashboard)

	protected.Get("/products", adminCatalogHandler.ListProducts)
	protected.Post("/products", adminCatalogHandler.CreateProduct)
	protected.Put("/products/:id", adminCatalogHandler.UpdateProduct)
	protected.Delete("/products/:id", adminCatalogHandler.DeleteProduct)
	protected.Post("/products/:id/images/reorder", adminCatalogHandler.ReorderImages)

	protected.Get("/categories", adminCatalogHandler.ListCategories)
	protected.Post("/categories", adminCatalogHandler.CreateCategory)
	protected.Put("/categories/:id", adminCatalogHandler.UpdateCategory)
	protected.Delete("/categories/:id", adminCatalogHandler.DeleteCategory)

	protected.Get("/orders", adminOrderHandler.List)
	protected.Get("/orders/export", adminOrderHandler.Export)
	protected.Get("/orders/:id", adminOrderHandler.Detail)
	protected.Post("/orders/:id/set-status", adminOrderHandler.SetStatus)
}
