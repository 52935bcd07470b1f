package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/vinealabs/winery-system/docs"
	"github.com/vinealabs/winery-system/internal/api/handler"
	"github.com/vinealabs/winery-system/internal/api/middleware"
	"github.com/vinealabs/winery-system/internal/core/domain"
	"github.com/vinealabs/winery-system/internal/core/service"
	mongorepo "github.com/vinealabs/winery-system/internal/infrastructure/db/mongo"
	"github.com/vinealabs/winery-system/internal/pkg/password"
)

// RouterDeps carries everything the router needs that main constructs.
type RouterDeps struct {
	DB          *mongo.Database
	Redis       *redis.Client
	JWTSecret   string
	JWTTTLHours int
	Queue       handler.ReadingQueue
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("winery"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(deps.DB)
	vineyardRepo := mongorepo.NewVineyardRepository(deps.DB)
	harvestRepo := mongorepo.NewHarvestRepository(deps.DB)
	fermentationRepo := mongorepo.NewFermentationRepository(deps.DB)

	authService := service.NewAuthService(userRepo, password.NewHasher(), deps.JWTSecret, deps.JWTTTLHours, deps.Logger)
	vineyardService := service.NewVineyardService(vineyardRepo, deps.Logger)
	harvestService := service.NewHarvestService(harvestRepo, deps.Logger)
	fermentationService := service.NewFermentationService(fermentationRepo, deps.Logger)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	vineyardHandler := handler.NewVineyardHandler(vineyardService)
	harvestHandler := handler.NewHarvestHandler(harvestService)
	fermentationHandler := handler.NewFermentationHandler(fermentationService, deps.Queue)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// Sensors authenticate at the network edge, not with user tokens.
	e.POST("/iot/readings", fermentationHandler.IngestReading)

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Redis)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// Serves both the request metrics above and the domain metrics registered
	// in internal/pkg/metrics; everything lives on the default registry.
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Protected routes ---
	auth := middleware.Auth(deps.JWTSecret)
	allRoles := middleware.RBAC(domain.RoleAdmin, domain.RoleWinemaker, domain.RoleWorker)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	adminWinemaker := middleware.RBAC(domain.RoleAdmin, domain.RoleWinemaker)

	v1 := e.Group("/v1", auth)

	// Account management.
	v1.GET("/users/me", userHandler.Profile, allRoles)
	v1.PUT("/users/me", userHandler.UpdateProfile, allRoles)
	v1.PUT("/users/me/password", userHandler.ChangePassword, allRoles)
	v1.GET("/users", userHandler.List, adminOnly)
	v1.POST("/users/:id/deactivate", userHandler.Deactivate, adminOnly)

	// Vineyards: creating needs winemaker privileges; reads and changes are
	// ownership-gated in the service (workers see only their own records).
	v1.POST("/vineyards", vineyardHandler.Create, adminWinemaker)
	v1.GET("/vineyards", vineyardHandler.List, allRoles)
	v1.GET("/vineyards/:id", vineyardHandler.Get, allRoles)
	v1.PUT("/vineyards/:id", vineyardHandler.Update, allRoles)
	v1.DELETE("/vineyards/:id", vineyardHandler.Delete, allRoles)

	// Harvests follow the same ownership model as vineyards.
	v1.POST("/harvests", harvestHandler.Create, adminWinemaker)
	v1.GET("/harvests", harvestHandler.List, allRoles)
	v1.GET("/harvests/:id", harvestHandler.Get, allRoles)
	v1.PUT("/harvests/:id", harvestHandler.Update, allRoles)
	v1.DELETE("/harvests/:id", harvestHandler.Delete, allRoles)

	// Tanks are shared equipment: reads for everyone, changes for
	// winemakers and admins, removal for admins only.
	v1.POST("/tanks", fermentationHandler.CreateTank, adminWinemaker)
	v1.GET("/tanks", fermentationHandler.ListTanks, allRoles)
	v1.GET("/tanks/:id", fermentationHandler.GetTank, allRoles)
	v1.PUT("/tanks/:id", fermentationHandler.UpdateTank, adminWinemaker)
	v1.DELETE("/tanks/:id", fermentationHandler.DeleteTank, adminOnly)

	// Batches: starting one needs winemaker privileges; later changes are
	// ownership-gated in the service.
	v1.POST("/batches", fermentationHandler.CreateBatch, adminWinemaker)
	v1.GET("/batches", fermentationHandler.ListBatches, allRoles)
	v1.GET("/batches/:id", fermentationHandler.GetBatch, allRoles)
	v1.PUT("/batches/:id", fermentationHandler.UpdateBatch, allRoles)
	v1.DELETE("/batches/:id", fermentationHandler.DeleteBatch, allRoles)
	v1.GET("/batches/:id/stats", fermentationHandler.GetBatchStats, allRoles)

	// Readings.
	v1.POST("/batches/:id/readings", fermentationHandler.AddReading, allRoles)
	v1.GET("/batches/:id/readings", fermentationHandler.ListReadings, allRoles)
	v1.DELETE("/batches/:id/readings/:reading_id", fermentationHandler.DeleteReading, allRoles)

	return e
}
