package router

import (
	"time"

	"github.com/siddronomomos/farmacia/internal/config"
	"github.com/siddronomomos/farmacia/internal/handler"
	"github.com/siddronomomos/farmacia/internal/infra"
	"github.com/siddronomomos/farmacia/internal/middleware"
	"github.com/siddronomomos/farmacia/internal/repository"
	"github.com/siddronomomos/farmacia/internal/service"
	"github.com/siddronomomos/farmacia/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
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

	// ── Infrastructure ───────────────────────────────────────────────────────
	cache := infra.NewRedisCache(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	stockRepo := repository.NewStockRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Worker dispatcher — injected into the sale service for async receipts
	dispatcher := worker.NewDispatcher(rdb)
	receipts := worker.NewReceiptDispatcher(dispatcher)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	customerSvc := service.NewCustomerService(customerRepo)
	supplierSvc := service.NewSupplierService(supplierRepo, stockRepo)
	articleSvc := service.NewArticleService(articleRepo, stockRepo, cache)
	discountSvc := service.NewDiscountService(discountRepo)
	saleSvc := service.NewSaleService(saleRepo, customerRepo, articleRepo, stockRepo, discountSvc, cfg, receipts)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, supplierRepo, articleRepo, stockRepo)
	reportSvc := service.NewReportService(reportRepo, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	articlesH := handler.NewArticlesHandler(articleSvc)
	discountsH := handler.NewDiscountsHandler(discountSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	purchasesH := handler.NewPurchasesHandler(purchaseSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required, counter-facing display
	r.GET("/v1/articles/:id/price", articlesH.PriceCheck)

	// Protected routes — every endpoint declares the capability it needs;
	// roles never appear below this point.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.POST("/sales", middleware.RequireCapability(middleware.CapSaleCreate), salesH.Checkout)
		v1.GET("/sales", middleware.RequireCapability(middleware.CapReportsRead), salesH.List)
		v1.GET("/sales/:folio", middleware.RequireCapability(middleware.CapReportsRead), salesH.Get)
		v1.DELETE("/sales/:folio", middleware.RequireCapability(middleware.CapSaleCancel), salesH.Cancel)

		v1.POST("/purchases", middleware.RequireCapability(middleware.CapPurchaseCreate), purchasesH.Register)
		v1.GET("/purchases", middleware.RequireCapability(middleware.CapReportsRead), purchasesH.List)
		v1.GET("/purchases/:folio", middleware.RequireCapability(middleware.CapReportsRead), purchasesH.Get)
		v1.DELETE("/purchases/:folio", middleware.RequireCapability(middleware.CapPurchaseCancel), purchasesH.Cancel)

		read := middleware.RequireCapability(middleware.CapMasterdataRead)
		write := middleware.RequireCapability(middleware.CapMasterdataWrite)

		v1.GET("/customers", read, customersH.List)
		v1.GET("/customers/:id", read, customersH.Get)
		v1.POST("/customers", read, customersH.Create) // cashiers register walk-ins
		v1.PUT("/customers/:id", write, customersH.Update)
		v1.DELETE("/customers/:id", write, customersH.Delete)

		v1.GET("/suppliers", read, suppliersH.List)
		v1.GET("/suppliers/:id", read, suppliersH.Get)
		v1.GET("/suppliers/:id/articles", read, suppliersH.Catalog)
		v1.POST("/suppliers", write, suppliersH.Create)
		v1.PUT("/suppliers/:id", write, suppliersH.Update)
		v1.DELETE("/suppliers/:id", write, suppliersH.Delete)
		v1.PUT("/suppliers/:id/articles/:article_id", write, suppliersH.LinkArticle)
		v1.PATCH("/suppliers/:id/articles/:article_id/stock", write, suppliersH.AdjustStock)

		v1.GET("/articles", read, articlesH.List)
		v1.GET("/articles/:id", read, articlesH.Get)
		v1.GET("/articles/:id/movements", read, articlesH.Movements)
		v1.POST("/articles", write, articlesH.Create)
		v1.PUT("/articles/:id", write, articlesH.Update)
		v1.DELETE("/articles/:id", write, articlesH.Delete)

		v1.GET("/discount-tiers", read, discountsH.List)
		v1.GET("/discount-tiers/eligible", read, discountsH.Eligible)
		tiers := v1.Group("/discount-tiers", middleware.RequireCapability(middleware.CapTiersManage))
		{
			tiers.POST("", discountsH.Create)
			tiers.PUT("/:id", discountsH.Update)
			tiers.DELETE("/:id", discountsH.Delete)
		}

		users := v1.Group("/users", middleware.RequireCapability(middleware.CapUsersManage))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.GET("/:id", usersH.Get)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
		}

		reports := v1.Group("/reports", middleware.RequireCapability(middleware.CapReportsRead))
		{
			reports.GET("/sales", reportsH.Sales)
			reports.GET("/sales/export", reportsH.ExportSales)
			reports.GET("/purchases", reportsH.Purchases)
			reports.GET("/purchases/export", reportsH.ExportPurchases)
			reports.GET("/top-articles", reportsH.TopArticles)
			reports.GET("/top-customers", reportsH.TopCustomers)
			reports.GET("/low-stock", reportsH.LowStock)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
