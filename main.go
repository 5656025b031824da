package main

import (
	"log"

	"docketclear-backend/config"
	"docketclear-backend/internal/api"
	"docketclear-backend/internal/database"
	"docketclear-backend/internal/models"
	"docketclear-backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

// @title docketclear-backend API
// @version 1.0
// @description Backend for the docket paraphrase service.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.InitLogger(&logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	}); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	router, err := api.NewRouter()
	if err != nil {
		log.Fatalf("failed to create router: %v", err)
	}

	// Migrate the schema
	err = database.DB.AutoMigrate(
		&models.User{},
		&models.GenerationLog{},
		&models.SystemEvent{},
		&models.PromptTemplate{},
	)
	if err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	initAdminUser(cfg)

	if err := router.Run(":8080"); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}

func initAdminUser(cfg *config.Config) {
	if cfg.AdminPassword == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin seed.")
		return
	}

	var adminUser models.User
	result := database.DB.Where("email = ?", cfg.AdminEmail).First(&adminUser)

	if result.Error != nil {
		if result.Error.Error() == "record not found" {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Fatalf("failed to hash admin password: %v", err)
			}

			adminUser = models.User{
				Email:        cfg.AdminEmail,
				PasswordHash: string(hashedPassword),
				PlanStatus:   models.PlanAdmin,
			}

			if err := database.DB.Create(&adminUser).Error; err != nil {
				log.Fatalf("failed to create admin user: %v", err)
			}
			log.Println("Admin user created successfully!")
		} else {
			log.Fatalf("failed to check for admin user: %v", result.Error)
		}
	} else {
		log.Println("Admin user already exists.")
	}
}
