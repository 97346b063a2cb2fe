package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/camisetaria/backend/internal/auth"
	"github.com/camisetaria/backend/internal/config"
	"github.com/camisetaria/backend/internal/metrics"
	"github.com/camisetaria/backend/internal/server"
	"github.com/camisetaria/backend/internal/storage/postgres"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.InsecureSecret {
		logger.Warn("JWT_SECRET is not set; using the insecure default — tokens are forgeable")
	}

	ctx := context.Background()
	store, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}
	defer store.Close()

	if err := seedAdmin(ctx, store); err != nil {
		logger.Fatal("seed admin", zap.Error(err))
	}

	m := metrics.New(cfg.MetricsEnabled)
	srv := server.New(cfg, logger, store, m)

	go func() {
		logger.Info("retail backend listening", zap.String("addr", cfg.HTTPAddress()))
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("graceful shutdown error", zap.Error(err))
	}
}

// seedAdmin creates the bootstrap administrator when ADMIN_EMAIL and
// ADMIN_PASSWORD are set. A no-op if the account already exists.
func seedAdmin(ctx context.Context, store *postgres.Store) error {
	email := strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	name := strings.TrimSpace(os.Getenv("ADMIN_NAME"))
	if name == "" {
		name = "Administrator"
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return store.EnsureAdmin(ctx, name, email, hash)
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
