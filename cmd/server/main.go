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
	"github.com/lauzhack/pictorial/internal/config"
	"github.com/lauzhack/pictorial/internal/imagegen"
	"github.com/lauzhack/pictorial/internal/imagestore"
	"github.com/lauzhack/pictorial/internal/logging"
	"github.com/lauzhack/pictorial/internal/repository/gormdb"
	"github.com/lauzhack/pictorial/internal/service"
	"github.com/lauzhack/pictorial/internal/session"
	"github.com/lauzhack/pictorial/internal/web"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logs := logging.NewZapLogger("pictorial", logging.ParseLevel(cfg.LogLevel), cfg.IsProduction())
	defer logs.Sync()

	// Initialize database
	db, err := gormdb.NewConnection(cfg.DatabaseURL, logger.Warn)
	if err != nil {
		logs.Fatalw("failed to connect to database", "error", err)
	}

	// Initialize repositories
	repos := gormdb.NewRepositories(db, cfg.StorageTimeout)

	// Initialize collaborators
	var generator service.ImageGenerator = imagegen.Placeholder{}
	if cfg.ImageGenAPIKey != "" {
		generator = imagegen.NewClient(cfg.ImageGenURL, cfg.ImageGenAPIKey, cfg.ImageGenModel, cfg.ImageGenSize, cfg.ImageGenTimeout)
	} else {
		logs.Warnw("IMAGEGEN_API_KEY not set, using placeholder images")
	}

	store, err := newImageStore(cfg)
	if err != nil {
		logs.Fatalw("failed to initialize image store", "store", cfg.ImageStore, "error", err)
	}

	codec := session.NewCodec(cfg.SessionSecret, cfg.SessionTTL)
	if cfg.SessionSecret == "" {
		logs.Warnw("SESSION_SECRET not set, session cookies are unsigned")
	}

	// Initialize services
	services := service.NewServices(repos, codec, generator, store)

	// Initialize router
	templates, err := web.Templates(web.AppPictorial)
	if err != nil {
		logs.Fatalw("failed to open templates", "error", err)
	}
	views, err := web.NewRenderer(templates)
	if err != nil {
		logs.Fatalw("failed to parse templates", "error", err)
	}
	router, err := api.NewRouter(services, views, cfg, logs)
	if err != nil {
		logs.Fatalw("failed to build router", "error", err)
	}

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ImageGenTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logs.Infow("server starting", "port", cfg.Port, "environment", cfg.Environment, "image_store", cfg.ImageStore)
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

	if err := srv.Shutdown(ctx); err != nil {
		logs.Errorw("server forced to shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logs.Infow("server stopped")
}

func newImageStore(cfg *config.Config) (service.ImageStore, error) {
	if cfg.ImageStore == config.ImageStoreS3 {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return imagestore.NewS3(ctx, imagestore.S3Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			Endpoint:     cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			UsePathStyle: cfg.S3UsePathStyle,
		})
	}
	return imagestore.NewLocal(cfg.ImageDir, "/static/images")
}
