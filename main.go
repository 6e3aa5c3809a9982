package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Pavanreddy56/BKI-company/internal/auth"
	"github.com/Pavanreddy56/BKI-company/internal/config"
	"github.com/Pavanreddy56/BKI-company/internal/jobs"
	"github.com/Pavanreddy56/BKI-company/internal/logging"
	"github.com/Pavanreddy56/BKI-company/internal/models"
	"github.com/Pavanreddy56/BKI-company/internal/server"
	"github.com/Pavanreddy56/BKI-company/internal/store"
	"github.com/Pavanreddy56/BKI-company/internal/websocket"
)

func main() {
	configPath := flag.String("config", "", "Path to optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.LogDir)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Backend selection happens exactly once, here. Everything downstream
	// sees the same Store interface.
	var st store.Store
	mode := "memory"
	if cfg.DatabaseURL != "" {
		sqliteStore, err := store.OpenSQLite(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("open database", zap.Error(err))
		}
		st = sqliteStore
		mode = "database"
		logger.Info("storage ready", zap.String("mode", mode))
	} else {
		st = store.NewMemoryStore()
		logger.Warn("DATABASE_URL not set, running with in-memory storage; data will not survive a restart")
	}
	defer st.Close()

	if err := seedAdmin(st, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Fatal("seed admin user", zap.Error(err))
	}

	hub := websocket.NewHub(logger)
	srv := server.New(st, logger, hub, cfg, mode)

	runner := jobs.New(st, logger)
	if err := runner.Start(); err != nil {
		logger.Fatal("start scheduler", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	runner.Stop()
}

// seedAdmin makes sure the configured admin account exists. Without
// credentials configured no admin is seeded, which is fine for tests and
// for deployments that promote a user manually.
func seedAdmin(st store.Store, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	existing, err := st.GetUserByEmail(ctx, email)
	if err == nil {
		if existing.Role == "admin" {
			return nil
		}
		existing.Role = "admin"
		return st.UpsertUser(ctx, existing)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.User{
		Email:        &email,
		Role:         "admin",
		PasswordHash: hash,
	}
	return st.UpsertUser(ctx, admin)
}
