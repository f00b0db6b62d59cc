package router

import (
	"time"

	"stocktrack/internal/config"
	"stocktrack/internal/handler"
	"stocktrack/internal/middleware"
	"stocktrack/internal/repository"
	"stocktrack/internal/service"

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

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	ledgerSvc := service.NewLedgerService(historyRepo, cfg.HistoryRetention)
	catalogSvc := service.NewCatalogService(productRepo, ledgerSvc, rdb)
	undoSvc := service.NewUndoService(productRepo, historyRepo, ledgerSvc, rdb)
	importSvc := service.NewImportService(productRepo, ledgerSvc, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(catalogSvc)
	lookupH := handler.NewLookupHandler(productRepo, rdb)
	historyH := handler.NewHistoryHandler(ledgerSvc)
	undoH := handler.NewUndoHandler(undoSvc)
	importH := handler.NewImportHandler(importSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/signup", authH.Signup)
	}

	// Protected routes — any authenticated user can read
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/dashboard", handler.Dashboard)
		v1.GET("/products", productsH.List)
		v1.GET("/products/:external_id", lookupH.GetByExternalID)
		v1.GET("/history", historyH.ListOwn)

		// Mutations — manager only; non-managers are soft-denied to the
		// dashboard rather than rejected.
		mgr := v1.Group("", middleware.RequireManager())
		{
			mgr.POST("/products", productsH.Add)
			mgr.PUT("/products/:external_id", productsH.Edit)
			mgr.DELETE("/products/:external_id", productsH.Remove)
			mgr.POST("/products/import", importH.Import)
			mgr.POST("/undo", undoH.Undo)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
