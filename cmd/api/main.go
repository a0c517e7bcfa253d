package main

import (
	"net/http"
	"os"
	"time"

	"enquiry-desk/internal/config"
	"enquiry-desk/internal/platform/logger"
	"enquiry-desk/internal/router"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, auth runs in dev mode (X-Debug-Employee-ID)", nil)
	}

	r := router.NewRouter(router.Options{
		JWTSecret:   cfg.JWTSecret,
		TokenExpiry: cfg.TokenExpiry,
		DBDSN:       cfg.DBDSN,
		Log:         log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": srv.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
