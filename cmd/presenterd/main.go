package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ethanhanderson/church-presenter-sub001/internal/bundle"
	"github.com/ethanhanderson/church-presenter-sub001/internal/config"
	"github.com/ethanhanderson/church-presenter-sub001/internal/handlers"
	"github.com/ethanhanderson/church-presenter-sub001/internal/live"
	"github.com/ethanhanderson/church-presenter-sub001/internal/livesync"
	"github.com/ethanhanderson/church-presenter-sub001/internal/session"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadControl()
	if err != nil {
		logger.Error("load configuration failed", "err", err)
		os.Exit(1)
	}

	sessions, err := session.Open(filepath.Join(cfg.DataDir, "session.db"), logger)
	if err != nil {
		logger.Error("open session database failed", "err", err)
		os.Exit(1)
	}
	defer sessions.Close()

	store := bundle.NewStore(logger)
	hub := livesync.NewHub(logger)
	controller := live.NewController(hub, store, sessions, logger)
	hub.SetHandler(controller)

	liveHandler := handlers.NewLiveHandler(controller, store, logger)
	mediaHandler := handlers.NewMediaHandler(controller, store, logger)
	statusHandler := handlers.NewStatusHandler(controller, hub, cfg.PublicURL, logger)
	router := handlers.SetupRoutes(liveHandler, mediaHandler, statusHandler, hub)

	server := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: router,
	}
	if cfg.TLS.Enabled {
		server.TLSConfig = &tls.Config{MinVersion: tlsVersion(cfg.TLS.MinVersion)}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		restoreSession(controller, sessions, cfg.OpenPath, logger)
		return nil
	})

	g.Go(func() error {
		if cfg.TLS.Enabled {
			logger.Info("control process listening (https)", "addr", server.Addr)
			if err := server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
		logger.Info("control process listening (http)", "addr", server.Addr)
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

	if err := g.Wait(); err != nil {
		logger.Error("control process stopped", "err", err)
		os.Exit(1)
	}
}

// restoreSession reloads the previous show, or opens the bundle passed at
// launch. Either failing just starts the operator with a blank session.
func restoreSession(controller *live.Controller, sessions *session.Store, openPath string, logger *slog.Logger) {
	if openPath != "" {
		if err := controller.OpenPresentation(openPath); err != nil {
			logger.Error("open at launch failed", "path", openPath, "err", err)
		}
		return
	}
	state, ok, err := sessions.Load()
	if err != nil {
		logger.Warn("session load failed", "err", err)
		return
	}
	if !ok {
		return
	}
	if err := controller.Restore(state); err != nil {
		logger.Warn("session restore failed", "path", state.PresentationPath, "err", err)
	}
}

// tlsVersion converts the config string to a tls constant.
func tlsVersion(version string) uint16 {
	switch version {
	case "1.0":
		return tls.VersionTLS10
	case "1.1":
		return tls.VersionTLS11
	case "1.3":
		return tls.VersionTLS13
	default:
		return tls.VersionTLS12
	}
}
