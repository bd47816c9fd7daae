package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/cosmo-sorter/cosmo/db"
	"github.com/cosmo-sorter/cosmo/internal/auth"
	"github.com/cosmo-sorter/cosmo/internal/config"
	"github.com/cosmo-sorter/cosmo/internal/handlers"
	"github.com/cosmo-sorter/cosmo/internal/router"
	"github.com/cosmo-sorter/cosmo/internal/services"
	"github.com/cosmo-sorter/cosmo/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	userService := services.NewUserService(database)
	universeService := services.NewUniverseService(database)
	materialService := services.NewMaterialService(database)

	var presigner *storage.Presigner

	if cfg.AttachmentsEnabled() {
		presigner = storage.NewPresigner(storage.Config{
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
		})
	} else {
		log.Println("S3_BUCKET not set, attachment uploads disabled")
	}

	r := router.NewRouter(router.Deps{
		Tokens:         tokens,
		Users:          userService,
		AuthHandler:    handlers.NewAuthHandler(userService, tokens),
		Universes:      handlers.NewUniverseHandler(universeService),
		Materials:      handlers.NewMaterialHandler(materialService, universeService, presigner),
		Sync:           handlers.NewSyncHandler(universeService, materialService),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
