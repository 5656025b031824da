package api

import (
	"docketclear-backend/config"
	adminEvents "docketclear-backend/internal/api/v1/admin/events"
	adminLogs "docketclear-backend/internal/api/v1/admin/logs"
	adminPrompt "docketclear-backend/internal/api/v1/admin/prompt"
	adminUser "docketclear-backend/internal/api/v1/admin/user"
	"docketclear-backend/internal/api/v1/auth"
	"docketclear-backend/internal/api/v1/history"
	"docketclear-backend/internal/api/v1/rewrite"
	userRoutes "docketclear-backend/internal/api/v1/user"
	"docketclear-backend/internal/database"
	"docketclear-backend/internal/middleware"
	"docketclear-backend/internal/rewriter"
	"docketclear-backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter() (*gin.Engine, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	_, err = database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}

	err = database.ConnectRedis(cfg)
	if err != nil {
		return nil, err
	}

	rw := rewriter.NewGeminiClient(
		cfg.GeminiAPIKey,
		cfg.GeminiBaseURL,
		cfg.GeminiModel,
		cfg.RewriteTimeout,
		func(docType rewriter.DocumentType) string {
			return services.PromptTemplateFor(docType)
		},
	)

	router := gin.Default()
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1
	v1 := router.Group("/api/v1")
	{
		auth.RegisterRoutes(v1)

		authorized := v1.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			userRoutes.RegisterRoutes(authorized)
			rewrite.RegisterRoutes(authorized, rw)
			history.RegisterRoutes(authorized)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware())
		{
			adminUser.RegisterRoutes(admin)
			adminLogs.RegisterRoutes(admin)
			adminEvents.RegisterRoutes(admin)
			adminPrompt.RegisterRoutes(admin)
		}
	}

	return router, nil
}
