package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mesikahq/gestion-salud/internal/audit"
	"github.com/mesikahq/gestion-salud/internal/auth"
	"github.com/mesikahq/gestion-salud/internal/bootstrap"
	"github.com/mesikahq/gestion-salud/internal/catalog"
	"github.com/mesikahq/gestion-salud/internal/config"
	"github.com/mesikahq/gestion-salud/internal/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, database.PostgresConfig{
		Host:        cfg.Database.Host,
		Port:        cfg.Database.Port,
		Database:    cfg.Database.Name,
		User:        cfg.Database.User,
		Password:    envOr("POSTGRES_PASSWORD", cfg.Database.Password),
		SSLMode:     cfg.Database.SSLMode,
		MaxPoolSize: 2,
		ConnTimeout: 5 * time.Second,
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	auditService := audit.Nop()
	if cfg.Elasticsearch.URL != "" {
		esClient, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{cfg.Elasticsearch.URL},
			Username:  cfg.Elasticsearch.Username,
			Password:  cfg.Elasticsearch.Password,
		})
		if err != nil {
			logger.Fatal("failed to connect to elasticsearch", zap.Error(err))
		}
		auditService = audit.NewService(esClient)
	}

	authService := auth.NewService(pool, auditService, auth.ServiceConfig{
		JWTSecret: os.Getenv("JWT_SECRET"),
	})

	seeder := bootstrap.NewSeeder(
		catalog.NewPostgresRepository(pool),
		bootstrap.NewPostgresMarkerStore(pool),
		authService,
		logger,
	)
	if err := seeder.Run(ctx); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}

	logger.Info("seeding complete")
}

func envOr(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
