package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mesikahq/gestion-salud/internal/config"
	"github.com/mesikahq/gestion-salud/internal/database"
	"github.com/mesikahq/gestion-salud/internal/db/migrate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded")
	}

	command := flag.String("command", "up", "Migration command (up/down)")
	configPath := flag.String("config", "", "Config file (defaults to the standard search path)")
	migrationsDir := flag.String("dir", "", "Migrations directory (defaults to the configured one)")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	dir := *migrationsDir
	if dir == "" {
		dir = cfg.Migrations.Dir
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		log.Fatalf("failed to resolve migrations directory: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, database.PostgresConfig{
		Host:        cfg.Database.Host,
		Port:        cfg.Database.Port,
		Database:    cfg.Database.Name,
		User:        cfg.Database.User,
		Password:    envOr("POSTGRES_PASSWORD", cfg.Database.Password),
		SSLMode:     cfg.Database.SSLMode,
		MaxPoolSize: 1,
		ConnTimeout: 5 * time.Second,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	manager := migrate.NewManager(pool, absPath, logger)
	if err := manager.Initialize(ctx); err != nil {
		log.Fatalf("failed to initialize migrations: %v", err)
	}

	switch *command {
	case "up":
		if err := manager.Up(ctx); err != nil {
			log.Fatalf("failed to apply migrations: %v", err)
		}
		fmt.Println("applied all pending migrations")
	case "down":
		if err := manager.Down(ctx); err != nil {
			log.Fatalf("failed to roll back migration: %v", err)
		}
		fmt.Println("rolled back last migration")
	default:
		log.Fatalf("unknown command: %s", *command)
	}
}

func envOr(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
