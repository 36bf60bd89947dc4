// Command store runs the reference task-link store on SQLite.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sqliteadapter "github.com/csg33k/tugas-tracker/internal/adapters/sqlite"
	"github.com/csg33k/tugas-tracker/internal/config"
	"github.com/csg33k/tugas-tracker/internal/storeapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	log := cfg.Logger()
	slog.SetDefault(log)

	if cfg.ActionPassword == "" {
		log.Error("ACTION_PASSWORD must be set")
		os.Exit(1)
	}

	repo, err := sqliteadapter.New(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database", "path", cfg.DBPath, "err", err)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Error("failed to prepare database", "err", err)
		os.Exit(1)
	}
	if cfg.SeedFile != "" {
		seed(ctx, log, repo, cfg.SeedFile)
	}

	hash, err := storeapi.HashPassword(cfg.ActionPassword)
	if err != nil {
		log.Error("failed to hash password", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.StorePort,
		Handler:           storeapi.New(repo, hash, log).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("store running", "url", "http://localhost:"+cfg.StorePort, "db", cfg.DBPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "err", err)
	}
}

func seed(ctx context.Context, log *slog.Logger, repo *sqliteadapter.Repository, path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Warn("seed file not readable", "path", path, "err", err)
		return
	}
	defer f.Close()
	n, err := storeapi.Seed(ctx, repo, f)
	if err != nil {
		log.Error("seeding failed", "path", path, "added", n, "err", err)
		return
	}
	log.Info("students seeded", "path", path, "added", n)
}
