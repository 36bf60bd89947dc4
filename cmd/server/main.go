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

	"github.com/csg33k/tugas-tracker/internal/adapters/pdf"
	"github.com/csg33k/tugas-tracker/internal/adapters/remotestore"
	"github.com/csg33k/tugas-tracker/internal/config"
	"github.com/csg33k/tugas-tracker/internal/handlers"
	"github.com/csg33k/tugas-tracker/internal/templates"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	log := cfg.Logger()
	slog.SetDefault(log)

	store := remotestore.New(cfg.APIBase, &http.Client{}, log)
	view := templates.NewRenderer(cfg.DisplayTZ, cfg.TimeLayout)
	h := handlers.New(store, pdf.New(cfg.DisplayTZ), view, log, cfg.PageTTL)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("task tracker running", "url", "http://localhost:"+cfg.Port, "store", cfg.APIBase)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	// Pending confirmations are dropped with their pages.
	h.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", "err", err)
	}
}
