// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/craftchain/artisan-marketplace/internal/config"
	"github.com/craftchain/artisan-marketplace/internal/database"
	"github.com/craftchain/artisan-marketplace/internal/router"
	"github.com/craftchain/artisan-marketplace/internal/services"
	"github.com/craftchain/artisan-marketplace/internal/store"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if cfg.Environment == "development" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Pick the key-value backend the marketplace state lives in.
	kv, cleanup, err := initStoreBackend(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize store backend")
	}
	defer cleanup()
	st := store.New(kv)

	// Seed the bootstrap admin account.
	registry := services.NewRegistryService(st, nil, services.NewEventBus(), nil, cfg.Blockchain.RegistryContract)
	authService := services.NewAuthService(st, registry, cfg.JWT.AccessTokenTTL)
	if err := authService.EnsureAdminAccount(context.Background(), cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
		logrus.WithError(err).Fatal("Failed to seed admin account")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r, stopAudit := router.Initialize(st, cfg)
	defer stopAudit()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":    cfg.Server.Port,
			"backend": cfg.Store.Backend,
			"mode":    cfg.Blockchain.Mode,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("Server forced to shutdown")
	}

	logrus.Info("Server exited")
}

func initStoreBackend(cfg *config.Config) (store.KVStore, func(), error) {
	switch cfg.Store.Backend {
	case "postgres":
		db, err := database.Initialize(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(db); err != nil {
			database.Close(db)
			return nil, nil, err
		}
		return store.NewPostgresStore(db), func() { database.Close(db) }, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, nil, err
		}
		return store.NewRedisStore(client), func() { client.Close() }, nil

	default:
		if cfg.Store.QuotaBytes > 0 {
			return store.NewMemoryStoreWithQuota(cfg.Store.QuotaBytes), func() {}, nil
		}
		return store.NewMemoryStore(), func() {}, nil
	}
}
