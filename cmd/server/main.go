package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/entryview/internal/api"
	"github.com/dgallion1/entryview/internal/config"
	"github.com/dgallion1/entryview/internal/entry"
	"github.com/dgallion1/entryview/internal/pipeline"
	"github.com/dgallion1/entryview/internal/render"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := entry.NewClient(cfg.EntryAPIURL, cfg.UpstreamTimeout, cfg.UpstreamMaxAttempts, log)
	renderer := render.NewRenderer(cfg.HighlightStyle)

	orch := pipeline.NewOrchestrator(cfg, client, renderer, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, client.Stats, renderer, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		client.Close()
	}()

	log.Info("starting entryview",
		"port", cfg.Port,
		"upstream", cfg.EntryAPIURL,
		"highlight_style", renderer.Style(),
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
