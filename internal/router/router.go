package router

import (
	"time"

	"tillpoint/internal/config"
	"tillpoint/internal/handler"
	"tillpoint/internal/middleware"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"
	"tillpoint/internal/service"
	"tillpoint/internal/store"
	"tillpoint/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← State ← KV
func New(cfg *config.Config, state *store.State, kv store.KV, rdb *redis.Client, dispatcher *worker.Dispatcher, backup *worker.BackupWorker) *gin.Engine {
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

	// Repositories
	productRepo := repository.NewProductRepository(state)
	saleRepo := repository.NewSaleRepository(state)
	userRepo := repository.NewUserRepository(state)
	settingsRepo := repository.NewSettingsRepository(state)

	// Services
	sessionTTL := time.Duration(cfg.SessionHours) * time.Hour
	authSvc := service.NewAuthService(userRepo, state, cfg.JWTSecret, sessionTTL)
	productSvc := service.NewProductService(productRepo, state)
	cartSvc := service.NewCartService(state, productRepo, settingsRepo)
	checkoutSvc := service.NewCheckoutService(state, settingsRepo, dispatcher)
	reportSvc := service.NewReportService(saleRepo)
	customerSvc := service.NewCustomerService(saleRepo)
	forecastSvc := service.NewForecastService(productRepo, saleRepo)
	settingsSvc := service.NewSettingsService(settingsRepo, state)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	cartH := handler.NewCartHandler(cartSvc)
	salesH := handler.NewSalesHandler(checkoutSvc, saleRepo, settingsRepo, cfg.PDFStoragePath)
	reportsH := handler.NewReportsHandler(reportSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	forecastH := handler.NewForecastHandler(forecastSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc, backup)

	// Public
	r.GET("/health", handler.Health(kv, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes. Roles form a hierarchy (admin ⊇ manager ⊇ cashier),
	// so each endpoint declares only its minimum role.
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.POST("/auth/logout", authH.Logout)
		v1.GET("/auth/me", authH.Me)

		// Catalog — all roles read, managers write
		v1.GET("/products", productsH.List)
		v1.GET("/products/categories", productsH.Categories)
		v1.GET("/products/barcode/:barcode", productsH.GetByBarcode)
		v1.GET("/products/:id", productsH.Get)
		prods := v1.Group("/products", middleware.RequireRole(model.RoleManager))
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.PATCH("/:id/stock", productsH.AdjustStock)
			prods.DELETE("/:id", productsH.Deactivate)
			prods.PATCH("/:id/reactivate", productsH.Reactivate)
		}

		// Register — every role can sell
		cart := v1.Group("/cart")
		{
			cart.GET("", cartH.Get)
			cart.POST("/lines", cartH.AddLine)
			cart.PUT("/lines/:productId", cartH.UpdateQuantity)
			cart.DELETE("/lines/:productId", cartH.RemoveLine)
			cart.DELETE("", cartH.Clear)
			cart.POST("/discount", cartH.ApplyDiscount)
			cart.DELETE("/discount", cartH.ClearDiscount)
		}
		v1.POST("/checkout", salesH.Checkout)
		v1.GET("/sales/:id", salesH.Get)
		v1.GET("/sales/:id/receipt", salesH.Receipt)

		// Reporting — manager and above
		reports := v1.Group("", middleware.RequireRole(model.RoleManager))
		{
			reports.GET("/reports/transactions", reportsH.Transactions)
			reports.GET("/reports/transactions/export", reportsH.ExportCSV)
			reports.GET("/customers", customersH.List)
			reports.GET("/customers/export", customersH.ExportCSV)
			reports.GET("/customers/:key", customersH.Get)
			reports.GET("/forecast", forecastH.Report)
			reports.GET("/forecast/export", forecastH.ExportJSON)
		}

		// Preferences — dark mode is per-terminal and open to all roles,
		// the rest is admin only
		v1.GET("/settings/dark-mode", settingsH.GetDarkMode)
		v1.PUT("/settings/dark-mode", settingsH.SetDarkMode)
		admin := v1.Group("", middleware.RequireRole(model.RoleAdmin))
		{
			admin.GET("/settings", settingsH.Get)
			admin.PUT("/settings", settingsH.Update)
			admin.GET("/settings/external-services", settingsH.GetExternalServices)
			admin.PUT("/settings/external-services", settingsH.UpdateExternalServices)
			admin.GET("/backup", settingsH.GetCloudBackup)
			admin.POST("/backup", settingsH.RunBackup)

			admin.POST("/users", usersH.Create)
			admin.GET("/users", usersH.List)
			admin.PUT("/users/:id", usersH.Update)
			admin.DELETE("/users/:id", usersH.Deactivate)
			admin.PATCH("/users/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
