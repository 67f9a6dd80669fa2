package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamecatalog/backend/internal/config"
	"gamecatalog/backend/internal/database"
	"gamecatalog/backend/internal/hub"
	"gamecatalog/backend/internal/logging"
	"gamecatalog/backend/internal/server"

	"github.com/sirupsen/logrus"
)

// @title           Game Catalog API
// @version         1.0
// @description     CRUD API for games and their categories.
// @host            localhost:3000
// @BasePath        /
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		logrus.Fatalf("Unable to load configuration: %v", err)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.ApplyTimezone(); err != nil {
		log.Fatalf("Invalid timezone: %v", err)
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	events := hub.New(log)
	router := server.NewRouter(cfg, db, log, events)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	// Event streams never finish on their own.
	srv.RegisterOnShutdown(events.Close)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithFields(logrus.Fields{
			"addr":     srv.Addr,
			"env":      cfg.Environment,
			"cors":     cfg.EnableCORS,
			"timezone": cfg.Timezone,
			"auth":     cfg.AuthEnabled(),
			"swagger":  "http://localhost" + srv.Addr + "/swagger/index.html",
		}).Info("Server is running.")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed.")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
