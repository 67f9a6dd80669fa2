package server

import (
	"net/http"

	"gamecatalog/backend/internal/auth"
	"gamecatalog/backend/internal/config"
	"gamecatalog/backend/internal/handler"
	"gamecatalog/backend/internal/hub"
	"gamecatalog/backend/internal/metrics"
	"gamecatalog/backend/internal/middleware"
	"gamecatalog/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "gamecatalog/backend/docs" // registers the generated OpenAPI document
)

// NewRouter wires services and handlers over db and registers every route.
func NewRouter(cfg *config.Config, db *gorm.DB, log *logrus.Logger, events *hub.Hub) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	categoryService := service.NewCategoryService(db, log, events)
	gameService := service.NewGameService(db, categoryService, log, events)

	categoryHandler := handler.NewCategoryHandler(categoryService)
	gameHandler := handler.NewGameHandler(gameService)
	eventsHandler := handler.NewEventsHandler(events)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(log))
	if cfg.EnableCORS {
		router.Use(middleware.CORS())
	}
	if cfg.MetricsEnabled {
		m := metrics.New()
		router.Use(m.Middleware())
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.GET("/events/:topic", eventsHandler.Stream)

	writeGuard := func(c *gin.Context) { c.Next() }
	if cfg.AuthEnabled() {
		authHandler := handler.NewAuthHandler(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.JWTSecret, cfg.TokenTTL, log)
		router.POST("/auth/token", authHandler.Login)
		writeGuard = auth.WritesOnly(auth.AdminMiddleware(cfg.JWTSecret))
	}

	categoryRoutes := router.Group("/category")
	categoryRoutes.Use(writeGuard)
	{
		categoryRoutes.GET("", categoryHandler.GetCategories)
		categoryRoutes.GET("/:id", categoryHandler.GetCategoryByID)
		categoryRoutes.GET("/name/:name", categoryHandler.GetCategoryByName)
		categoryRoutes.POST("", categoryHandler.CreateCategory)
		categoryRoutes.PUT("", categoryHandler.UpdateCategory)
		categoryRoutes.DELETE("/:id", categoryHandler.DeleteCategory)
	}

	gameRoutes := router.Group("/game")
	gameRoutes.Use(writeGuard)
	{
		gameRoutes.GET("", gameHandler.GetGames)
		gameRoutes.GET("/:id", gameHandler.GetGameByID)
		gameRoutes.GET("/category/:categoryName", gameHandler.GetGamesByCategoryName)
		gameRoutes.GET("/category/id/:categoryId", gameHandler.GetGamesByCategoryID)
		gameRoutes.POST("", gameHandler.CreateGame)
		gameRoutes.PUT("/:id", gameHandler.UpdateGame)
		gameRoutes.DELETE("/:id", gameHandler.DeleteGame)
	}

	return router
}
