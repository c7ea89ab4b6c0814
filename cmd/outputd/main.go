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

	"golang.org/x/sync/errgroup"

	"github.com/ethanhanderson/church-presenter-sub001/internal/config"
	"github.com/ethanhanderson/church-presenter-sub001/internal/livesync"
	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
	"github.com/ethanhanderson/church-presenter-sub001/internal/output"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadOutput()
	if err != nil {
		logger.Error("load configuration failed", "err", err)
		os.Exit(1)
	}
	if cfg.Name != "" {
		logger = logger.With("output", cfg.Name)
	}

	renderer := output.NewRenderer(models.Size{Width: cfg.Width, Height: cfg.Height}, cfg.MediaURL, logger)
	client := livesync.NewClient(cfg.ControlURL, renderer.Replica(), logger)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: output.NewServer(renderer, logger).Routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return client.Run(ctx)
	})

	g.Go(func() error {
		output.ReadKeyboard(ctx, os.Stdin, client, logger)
		return nil
	})

	g.Go(func() error {
		logger.Info("output process listening", "addr", server.Addr, "control", cfg.ControlURL)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("output process stopped", "err", err)
		os.Exit(1)
	}
}
