// Package server assembles the HTTP API from its services and middleware.
package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"cattery/internal/config"
	"cattery/internal/handlers"
	"cattery/internal/middleware"
	"cattery/internal/models"
	"cattery/internal/services"
	"cattery/internal/storage"
)

// Deps are the collaborators the API needs.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Images storage.ImageStore
}

// NewRouter wires services, handlers and routes into a Gin engine.
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config

	// Initialize services
	userService := services.NewUserService(d.DB, cfg.BcryptCost)
	catService := services.NewCatService(d.DB, d.Images)
	photoService := services.NewPhotoService(d.DB, d.Images)
	auditService := services.NewAuditService(d.DB)
	tokens := middleware.NewTokenManager(cfg.JWTSecret, cfg.JWTExpirationDur)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService, tokens)
	catHandler := handlers.NewCatHandler(catService, auditService)
	photoHandler := handlers.NewPhotoHandler(photoService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg.CORSOrigin))
	router.Use(middleware.ErrorHandler())

	router.GET("/healthz", handlers.Health)
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if cfg.ImageStore == config.ImageStoreLocal {
		router.Static("/uploads", cfg.UploadDir)
	}

	requireAuth := middleware.AuthMiddleware(tokens)
	requireAdmin := middleware.RequireRole(models.RoleAdmin)

	auth := router.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", requireAuth, authHandler.Me)
	auth.POST("/change-password", requireAuth, authHandler.ChangePassword)

	cats := router.Group("/cats")
	cats.GET("", catHandler.ListCats)
	cats.GET("/:id", catHandler.GetCat)
	cats.POST("", requireAuth, requireAdmin, catHandler.CreateCat)
	cats.PUT("/:id", requireAuth, requireAdmin, catHandler.UpdateCat)
	cats.DELETE("/:id", requireAuth, requireAdmin, catHandler.DeleteCat)

	photos := router.Group("/photos")
	photos.GET("", photoHandler.ListPhotos)
	photos.POST("", requireAuth, requireAdmin, photoHandler.CreatePhoto)
	photos.POST("/upload", requireAuth, requireAdmin,
		middleware.SingleImageUpload(cfg.UploadMaxBytes), photoHandler.UploadPhoto)
	photos.POST("/reorder", requireAuth, requireAdmin, photoHandler.ReorderPhotos)
	photos.PATCH("/:id", requireAuth, requireAdmin, photoHandler.UpdatePhoto)
	photos.POST("/:id/set-cover", requireAuth, requireAdmin, photoHandler.SetCover)
	photos.DELETE("/:id", requireAuth, requireAdmin, photoHandler.DeletePhoto)

	return router
}
