package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/mmynk/billscan/internal/auth"
	"github.com/mmynk/billscan/internal/config"
	"github.com/mmynk/billscan/internal/handler"
	"github.com/mmynk/billscan/internal/ocr"
	"github.com/mmynk/billscan/internal/service"
	"github.com/mmynk/billscan/internal/storage/sqlite"
	"github.com/mmynk/billscan/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authService := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager)

	extractor := ocr.NewTesseractExtractor(cfg.OCRLanguages)
	sessionService := service.NewSessionService(store, extractor)

	router := handler.NewRouter(authService, sessionService, jwtManager, cfg.MaxUploadBytes)

	addr := ":" + cfg.Port
	slog.Info("Server starting", "address", addr)
	if err := router.Run(addr); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
