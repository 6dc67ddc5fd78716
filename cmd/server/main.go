// backend-go/cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/stockroom/backend-go/internal/api"
	"github.com/andresuchdata/stockroom/backend-go/internal/api/middleware"
	"github.com/andresuchdata/stockroom/backend-go/internal/cache"
	"github.com/andresuchdata/stockroom/backend-go/internal/config"
	"github.com/andresuchdata/stockroom/backend-go/internal/repository"
	"github.com/andresuchdata/stockroom/backend-go/internal/repository/memory"
	"github.com/andresuchdata/stockroom/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/stockroom/backend-go/internal/service"
	"github.com/andresuchdata/stockroom/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Setup(logger.Options{Mode: cfg.Server.Mode, Level: cfg.Server.LogLevel, Component: "server"})
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer closeStore()

	var rateLimit gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		redisClient, err := cache.NewRedisClient(context.Background(), cfg.Cache)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to redis")
		}
		if redisClient != nil {
			defer redisClient.Close()
		}
		rateLimit, err = middleware.RateLimit(cfg.RateLimit.Rate, redisClient)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to configure rate limiter")
		}
	}

	if cfg.Auth.JWTSecret == "" {
		logger.Log.Warn().Msg("JWT_SECRET is empty; every authenticated route will fail")
	}

	router := api.NewRouter(service.New(store), api.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		JWTSecret:      cfg.Auth.JWTSecret,
		RateLimit:      rateLimit,
	})

	// Initialize HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().
			Str("port", cfg.Server.Port).
			Str("driver", cfg.Database.Driver).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func openStore(cfg *config.Config) (*repository.Store, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Log.Warn().Msg("Using in-memory store; data is lost on exit")
		return memory.NewStore(), func() {}, nil
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewStore(db), func() { _ = db.Close() }, nil
}
