package router

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/pointsmall/pointsmall/internal/server/http/handlers"
	"github.com/pointsmall/pointsmall/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.MallFacade, parser TokenParser, health handlers.HealthChecker, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(cors.Default())
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	userHandler := handlers.NewUserHandler(facade, facade, facade)
	catalogHandler := handlers.NewCatalogHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade)
	healthHandler := handlers.NewHealthHandler(health)

	engine.GET("/health", healthHandler.Check)

	api := engine.Group("/api")
	api.POST("/wx/login", authHandler.WxLogin)
	api.GET("/products", catalogHandler.List)
	api.GET("/products/:id", catalogHandler.Get)

	userAuth := api.Group("")
	userAuth.Use(middleware.AuthRequired(parser))
	userAuth.GET("/me", userHandler.Me)
	userAuth.GET("/me/points-ledger", userHandler.Ledger)
	userAuth.GET("/me/orders", userHandler.Orders)
	userAuth.POST("/redeem", userHandler.Redeem)

	admin := engine.Group("/admin")
	admin.POST("/login", authHandler.AdminLogin)

	adminAuth := admin.Group("")
	adminAuth.Use(middleware.AdminRequired(parser))
	adminAuth.GET("/users", adminHandler.Users)
	adminAuth.GET("/users/:openid/points-ledger", adminHandler.UserLedger)
	adminAuth.POST("/users/:openid/points-adjust", adminHandler.AdjustPoints)
	adminAuth.GET("/products", adminHandler.Products)
	adminAuth.POST("/products", adminHandler.CreateProduct)
	adminAuth.PUT("/products/:id", adminHandler.UpdateProduct)
	adminAuth.GET("/orders", adminHandler.Orders)
	adminAuth.GET("/orders/:order_no", adminHandler.Order)
	adminAuth.PUT("/orders/:order_no/fulfill", adminHandler.FulfillOrder)
	adminAuth.PUT("/orders/:order_no/cancel", adminHandler.CancelOrder)

	return engine
}

// TokenParser combines the verification interfaces required by the auth
// middleware.
type TokenParser interface {
	middleware.UserTokenParser
	middleware.AdminTokenParser
}
