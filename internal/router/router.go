package router

import (
	"time"

	"tillbook/internal/cache"
	"tillbook/internal/config"
	"tillbook/internal/handler"
	"tillbook/internal/middleware"
	"tillbook/internal/repository"
	"tillbook/internal/service"
	"tillbook/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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
	registerRepo := repository.NewRegisterRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// ── Cache / events ───────────────────────────────────────────────────────
	store := cache.NewRedisStore(rdb)
	bus := cache.NewRedisBus(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	registerSvc := service.NewRegisterService(registerRepo, sessionRepo, store, bus)
	sessionSvc := service.NewSessionService(registerRepo, sessionRepo, dispatcher)
	ledgerSvc := service.NewLedgerService(sessionRepo, userRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	registersH := handler.NewRegistersHandler(registerSvc)
	sessionsH := handler.NewSessionsHandler(sessionSvc)
	ledgerH := handler.NewLedgerHandler(ledgerSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cashier, manager, admin — declared per-endpoint
		registers := v1.Group("/registers", middleware.BranchContext())
		{
			registers.GET("", middleware.RequireRole("cashier", "manager", "admin"), registersH.List)
			registers.POST("", middleware.RequireRole("admin"), registersH.Create)
			registers.PUT("/:id", middleware.RequireRole("admin"), registersH.Update)
			registers.DELETE("/:id", middleware.RequireRole("admin"), registersH.Deactivate)
			registers.POST("/:id/activate", middleware.RequireRole("admin"), registersH.Activate)

			registers.POST("/:id/open", middleware.RequireRole("cashier", "manager", "admin"), sessionsH.Open)
			registers.GET("/:id/ledger", middleware.RequireRole("manager", "admin"), ledgerH.Ledger)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.GET("/:id", middleware.RequireRole("cashier", "manager", "admin"), sessionsH.Get)
			sessions.POST("/:id/close", middleware.RequireRole("cashier", "manager", "admin"), sessionsH.Close)
			sessions.POST("/:id/payments", middleware.RequireRole("cashier", "manager", "admin"), sessionsH.RecordPayment)
			sessions.GET("/:id/breakdown", middleware.RequireRole("manager", "admin"), ledgerH.Breakdown)
		}

		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.DELETE("/:id", authH.DeactivateUser)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
