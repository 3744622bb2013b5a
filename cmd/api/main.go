package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"accounts-api/internal/config"
	"accounts-api/internal/db"
	apihttp "accounts-api/internal/http"
	"accounts-api/internal/repository"
	"accounts-api/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	accountRepo := repository.NewPgAccountRepository(pool)

	tokenSvc := service.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	if cfg.JWTSecret == "default_secret" {
		logger.Warn("jwt secret not configured, using default")
	}
	if cfg.GoogleClientID == "" {
		logger.Warn("google client id not configured")
	}

	verifier := service.NewGoogleVerifier(cfg.GoogleClientID)
	accountSvc := service.NewAccountService(logger, accountRepo, tokenSvc, cfg.BcryptCost)
	googleSvc := service.NewGoogleAuthService(logger, accountRepo, verifier, tokenSvc, cfg.BcryptCost)

	accountHandler := apihttp.NewAccountHandler(logger, accountSvc, googleSvc)
	router := apihttp.NewRouter(logger, accountHandler, tokenSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
