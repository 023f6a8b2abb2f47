package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"dhs-checker/internal/di"
	"dhs-checker/internal/domain/entity"
	"dhs-checker/internal/infrastructure/env"
)

func main() {
	envService := env.NewEnvService()

	container, err := di.NewContainer(di.Config{
		PortalBaseURL: envService.GetDefault("DHS_BASE_URL", ""),
		Credentials: entity.Credentials{
			Username: envService.Get("DHS_USERNAME"),
			Password: envService.Get("DHS_PASSWORD"),
		},
		BrowserHeadless: envService.GetBool("BROWSER_HEADLESS", true),
		SlowMotion:      envService.GetDuration("BROWSER_SLOW_MOTION", 0),
		MaxSessions:     envService.GetInt("MAX_SESSIONS", 2),
		ScreenshotDir:   envService.Get("SCREENSHOT_DIR"),
		LoginTimeout:    envService.GetDuration("LOGIN_TIMEOUT", 15*time.Second),
		RowTimeout:      envService.GetDuration("ROW_TIMEOUT", 6*time.Second),
		DetailTimeout:   envService.GetDuration("DETAIL_TIMEOUT", 10*time.Second),
		Debug:           envService.GetBool("DEBUG", false),
	})
	if err != nil {
		log.Fatalf("init failed: %v", err)
	}
	defer container.Close()

	addr := envService.GetDefault("HTTP_ADDR", ":8080")
	server := &http.Server{
		Addr:              addr,
		Handler:           container.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		container.Logger.Info("server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		container.Logger.Error("server stopped", "error", err)
		return
	}
	container.Logger.Info("server stopped")
}
