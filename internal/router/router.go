package router

import (
	"time"

	"storely/internal/config"
	"storely/internal/handler"
	"storely/internal/infra"
	"storely/internal/middleware"
	"storely/internal/repository"
	"storely/internal/service"
	"storely/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	saleLedger := repository.NewSaleLedger(rdb)
	cartStore := repository.NewCartStore(rdb, time.Duration(cfg.CartTTLHours)*time.Hour)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	productSvc := service.NewProductService(productRepo, rdb)
	cartSvc := service.NewCartService(cartStore, productRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo, cartStore, dispatcher,
		cfg.StoreName, cfg.PDFStoragePath, infra.GenerateOrderReceiptPDF)
	saleSvc := service.NewSaleService(saleLedger, productRepo)
	analyticsSvc := service.NewAnalyticsService(orderRepo, saleLedger, productRepo,
		cfg.StoreName, cfg.PDFStoragePath, infra.GenerateReportPDF)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productsH := handler.NewProductsHandler(productSvc)
	cartH := handler.NewCartHandler(cartSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	analyticsH := handler.NewAnalyticsHandler(analyticsSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, smtpCB))

	v1 := r.Group("/v1")
	{
		// Storefront: catalog browsing
		v1.GET("/products", productsH.List)
		v1.GET("/products/:id", productsH.GetByID)

		// Storefront: cart (identity via X-User-ID)
		cart := v1.Group("/cart")
		{
			cart.GET("", cartH.Get)
			cart.DELETE("", cartH.Clear)
			cart.POST("/items", cartH.AddItem)
			cart.PUT("/items/:index", cartH.UpdateItem)
			cart.DELETE("/items/:index", cartH.RemoveItem)
		}

		// Storefront: checkout and own orders
		v1.POST("/orders", ordersH.Checkout)
		v1.GET("/orders", ordersH.ListMine)
		v1.GET("/orders/:id", ordersH.GetByID)

		// Admin console
		admin := v1.Group("/admin")
		{
			admin.POST("/products", productsH.Create)
			admin.PUT("/products/:id", productsH.Update)
			admin.DELETE("/products/:id", productsH.Deactivate)
			admin.PATCH("/products/:id/reactivate", productsH.Reactivate)

			admin.GET("/orders", ordersH.ListAll)
			admin.PATCH("/orders/:id/status", ordersH.UpdateStatus)

			admin.POST("/sales", salesH.Record)
			admin.GET("/sales", salesH.List)

			admin.GET("/analytics", analyticsH.Report)
			admin.GET("/analytics/revenue", analyticsH.Revenue)
			admin.GET("/analytics/export", analyticsH.ExportJSON)
			admin.GET("/analytics/export.pdf", analyticsH.ExportPDF)
		}
	}

	// Swagger UI — development only
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
