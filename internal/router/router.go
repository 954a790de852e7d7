package router

import (
	"time"

	"github.com/asif1001/wareopes1-sub002/internal/config"
	"github.com/asif1001/wareopes1-sub002/internal/handler"
	"github.com/asif1001/wareopes1-sub002/internal/infra"
	"github.com/asif1001/wareopes1-sub002/internal/middleware"
	"github.com/asif1001/wareopes1-sub002/internal/repository"
	"github.com/asif1001/wareopes1-sub002/internal/service"
	"github.com/asif1001/wareopes1-sub002/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, reportCB *infra.CircuitBreaker, dispatcher *worker.Dispatcher) *gin.Engine {
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
	roleRepo := repository.NewRoleRepository(db)
	shipmentRepo := repository.NewShipmentRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	allocationRepo := repository.NewAllocationRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)
	licenseRepo := repository.NewLicenseRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	sessionSvc := service.NewSessionService(userRepo, roleRepo)
	authSvc := service.NewAuthService(userRepo)
	roleSvc := service.NewRoleService(roleRepo)
	shipmentSvc := service.NewShipmentService(shipmentRepo, caseRepo)
	productionSvc := service.NewProductionService(caseRepo, allocationRepo, summaryRepo)
	taskSvc := service.NewTaskService(taskRepo)
	maintenanceSvc := service.NewMaintenanceService(maintenanceRepo)
	licenseSvc := service.NewLicenseService(licenseRepo)
	reportSvc := service.NewReportService(reportRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc, cfg)
	usersH := handler.NewUsersHandler(authSvc)
	rolesH := handler.NewRolesHandler(roleSvc)
	shipmentsH := handler.NewShipmentsHandler(shipmentSvc)
	productionH := handler.NewProductionHandler(productionSvc)
	tasksH := handler.NewTasksHandler(taskSvc)
	maintenanceH := handler.NewMaintenanceHandler(maintenanceSvc)
	licensesH := handler.NewLicensesHandler(licenseSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	dashboardH := handler.NewDashboardHandler(taskRepo, shipmentRepo, caseRepo, summaryRepo, licenseRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, reportCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes: the session cookie is the only credential
	sessionMW := middleware.SessionAuth(sessionSvc)
	v1 := r.Group("/v1", sessionMW)
	{
		v1.POST("/auth/logout", authH.Logout)
		v1.GET("/auth/me", authH.Me)

		v1.GET("/dashboard/stats", middleware.RequirePermission("dashboard", "view"), dashboardH.Stats)

		// Production ledger: the sorting/packing entry endpoints
		prod := v1.Group("/production")
		{
			prod.POST("/entries", middleware.RequirePermission("production", "record"), productionH.RecordEntries)
			prod.GET("/entries", middleware.RequirePermission("production", "view"), productionH.EntryLog)
			prod.GET("/cases", middleware.RequirePermission("production", "view"), productionH.CaseStatus)
			prod.GET("/summaries", middleware.RequirePermission("production", "view"), productionH.Summaries)
		}

		ship := v1.Group("/shipments")
		{
			ship.GET("", middleware.RequirePermission("shipments", "view"), shipmentsH.List)
			ship.GET("/:id", middleware.RequirePermission("shipments", "view"), shipmentsH.Get)
			ship.POST("", middleware.RequirePermission("shipments", "manage"), shipmentsH.Create)
			ship.PUT("/:id", middleware.RequirePermission("shipments", "manage"), shipmentsH.Update)
			ship.POST("/:id/cases", middleware.RequirePermission("shipments", "manage"), shipmentsH.AddCases)
		}

		tasks := v1.Group("/tasks")
		{
			tasks.GET("", middleware.RequirePermission("tasks", "view"), tasksH.List)
			tasks.GET("/:id", middleware.RequirePermission("tasks", "view"), tasksH.Get)
			tasks.POST("", middleware.RequirePermission("tasks", "manage"), tasksH.Create)
			tasks.PUT("/:id", middleware.RequirePermission("tasks", "manage"), tasksH.Update)
			tasks.DELETE("/:id", middleware.RequirePermission("tasks", "manage"), tasksH.Delete)
		}

		maint := v1.Group("/maintenance", middleware.RequirePermission("maintenance", "manage"))
		{
			maint.POST("", maintenanceH.Create)
			maint.GET("", maintenanceH.List)
			maint.PUT("/:id", maintenanceH.Update)
			maint.DELETE("/:id", maintenanceH.Delete)
		}

		lic := v1.Group("/licenses", middleware.RequirePermission("maintenance", "manage"))
		{
			lic.POST("", licensesH.Create)
			lic.GET("", licensesH.List)
			lic.GET("/expiring", licensesH.Expiring)
			lic.PUT("/:id", licensesH.Update)
			lic.DELETE("/:id", licensesH.Delete)
		}

		reports := v1.Group("/reports", middleware.RequirePermission("reports", "view"))
		{
			reports.POST("", reportsH.Request)
			reports.GET("", reportsH.ListMine)
			reports.GET("/:id", reportsH.Get)
			reports.GET("/:id/pdf", reportsH.Download)
		}

		// User and role administration: Admin only
		users := v1.Group("/users", middleware.RequireAdmin())
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}

		roles := v1.Group("/roles", middleware.RequireAdmin())
		{
			roles.POST("", rolesH.Create)
			roles.GET("", rolesH.List)
			roles.PUT("/:id", rolesH.Update)
			roles.DELETE("/:id", rolesH.Delete)
		}
	}

	// Swagger UI: only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
