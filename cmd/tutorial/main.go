package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lauzhack/pictorial/internal/api"
	"github.com/lauzhack/pictorial/internal/api/handlers"
	"github.com/lauzhack/pictorial/internal/config"
	"github.com/lauzhack/pictorial/internal/logging"
	"github.com/lauzhack/pictorial/internal/tutorial"
	"github.com/lauzhack/pictorial/internal/web"
	"github.com/lauzhack/pictorial/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logs := logging.NewZapLogger("htmx-tutorial", logging.ParseLevel(cfg.LogLevel), cfg.IsProduction())
	defer logs.Sync()

	templates, err := web.Templates(web.AppTutorial)
	if err != nil {
		logs.Fatalw("failed to open templates", "error", err)
	}
	views, err := web.NewRenderer(templates)
	if err != nil {
		logs.Fatalw("failed to parse templates", "error", err)
	}

	faker := tutorial.NewFaker(0)

	// Initialize WebSocket hub
	hub := websocket.NewHub(cfg.QuoteInterval, func() ([]byte, error) {
		buf, err := views.Execute("_quote-stream.html", faker.Quote())
		if err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}, logs)
	go hub.Run()

	// Initialize router
	tutorialHandler := handlers.NewTutorialHandler(views, faker, tutorial.NewImageFetcher(10*time.Second), logs)
	wsHandler := handlers.NewWebSocketHandler(hub, logs)
	router := api.NewTutorialRouter(tutorialHandler, wsHandler, cfg, logs)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.TutorialPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logs.Infow("tutorial server starting", "port", cfg.TutorialPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Fatalw("failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logs.Infow("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hub.Stop()
	if err := srv.Shutdown(ctx); err != nil {
		logs.Errorw("server forced to shutdown", "error", err)
	}

	logs.Infow("server stopped")
}
