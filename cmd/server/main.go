package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mesikahq/gestion-salud/internal/api"
	"github.com/mesikahq/gestion-salud/internal/audit"
	"github.com/mesikahq/gestion-salud/internal/auth"
	"github.com/mesikahq/gestion-salud/internal/bootstrap"
	"github.com/mesikahq/gestion-salud/internal/catalog"
	"github.com/mesikahq/gestion-salud/internal/config"
	"github.com/mesikahq/gestion-salud/internal/database"
	"github.com/mesikahq/gestion-salud/internal/directive"
	"github.com/mesikahq/gestion-salud/internal/donation"
	"github.com/mesikahq/gestion-salud/internal/encounter"
	"github.com/mesikahq/gestion-salud/internal/encryption"
	"github.com/mesikahq/gestion-salud/internal/patient"
	"github.com/mesikahq/gestion-salud/internal/provider"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
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

	ctx := context.Background()
	db, err := database.Connect(ctx, database.PostgresConfig{
		Host:        cfg.Database.Host,
		Port:        cfg.Database.Port,
		Database:    cfg.Database.Name,
		User:        cfg.Database.User,
		Password:    envOr("POSTGRES_PASSWORD", cfg.Database.Password),
		SSLMode:     cfg.Database.SSLMode,
		MaxPoolSize: 10,
		ConnTimeout: 5 * time.Second,
	})
	if err != nil {
		logger.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer database.Disconnect(db)

	encryptService, err := encryption.NewService()
	if err != nil {
		logger.Fatal("failed to initialize encryption service", zap.Error(err))
	}

	// The audit trail is optional: without an Elasticsearch URL the
	// services run with a no-op sink.
	auditService := audit.Nop()
	if cfg.Elasticsearch.URL != "" {
		esClient, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{cfg.Elasticsearch.URL},
			Username:  cfg.Elasticsearch.Username,
			Password:  envOr("ELASTICSEARCH_PASSWORD", cfg.Elasticsearch.Password),
		})
		if err != nil {
			logger.Fatal("failed to connect to Elasticsearch", zap.Error(err))
		}
		auditService = audit.NewService(esClient)
	}

	// Same for the document vault.
	var vault donation.Vault
	if cfg.Mongo.URI != "" {
		mongoClient, err := database.NewMongoClient(ctx, &database.MongoConfig{
			URI:                    cfg.Mongo.URI,
			Database:               cfg.Mongo.Database,
			MaxPoolSize:            10,
			MinPoolSize:            1,
			ConnectTimeout:         5 * time.Second,
			ServerSelectionTimeout: 5 * time.Second,
		})
		if err != nil {
			logger.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer mongoClient.Disconnect(ctx)
		vault = donation.NewMongoVault(mongoClient, cfg.Mongo.Database, cfg.Mongo.Collection, encryptService)
	}

	authService := auth.NewService(db, auditService, auth.ServiceConfig{
		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenExpiry: 24 * time.Hour,
	})

	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo, auditService)
	providerService := provider.NewService(provider.NewPostgresRepository(db), auditService)
	patientService := patient.NewService(patient.NewPostgresRepository(db), auditService)
	directiveService := directive.NewService(directive.NewPostgresRepository(db), encryptService, auditService)
	donationService := donation.NewService(donation.NewPostgresRepository(db), vault, auditService)
	encounterService := encounter.NewService(encounter.NewPostgresRepository(db), auditService)

	seeder := bootstrap.NewSeeder(catalogRepo, bootstrap.NewPostgresMarkerStore(db), authService, logger)
	if err := seeder.Run(ctx); err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}

	handler := api.NewHandler(
		authService,
		catalogService,
		providerService,
		patientService,
		directiveService,
		donationService,
		encounterService,
		auditService,
	)

	router := api.NewRouter(handler, authService)
	engine := router.SetupRouter(logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("starting server",
			zap.String("host", cfg.Server.Host), zap.Int("port", cfg.Server.Port))
		if cfg.Server.TLS.Enabled {
			if err := srv.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && err != http.ErrServerClosed {
				logger.Fatal("server stopped", zap.Error(err))
			}
		} else {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("server stopped", zap.Error(err))
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}

func envOr(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
