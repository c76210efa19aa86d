package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/lauzhack/pictorial/internal/api/handlers"
	"github.com/lauzhack/pictorial/internal/api/middleware"
	"github.com/lauzhack/pictorial/internal/config"
	"github.com/lauzhack/pictorial/internal/service"
	"github.com/lauzhack/pictorial/internal/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter builds the pictorial app.
func NewRouter(services *service.Services, views *web.Renderer, cfg *config.Config, logs *zap.SugaredLogger) (http.Handler, error) {
	authLimiter, err := middleware.NewIPRateLimiter(cfg.AuthRateLimit)
	if err != nil {
		return nil, fmt.Errorf("auth rate limit: %w", err)
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	if cfg.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(middleware.Logger(logs))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.NewSecure(middleware.SecureOptions(!cfg.IsProduction())))
	r.Use(middleware.Authenticate(services.Auth, logs))

	mountCommon(r)

	// Initialize handlers
	mainHandler := handlers.NewMainHandler(services.Auth, views, logs, cfg.IsProduction())
	generationHandler := handlers.NewGenerationHandler(services.Generation, views, logs)

	// Public routes
	r.Get("/", mainHandler.Home)
	r.Get("/login", mainHandler.LoginView)
	r.Get("/logout", mainHandler.Logout)
	r.Get("/signup", mainHandler.SignupView)
	r.With(authLimiter).Post("/login", mainHandler.Login)
	r.With(authLimiter).Post("/signup", mainHandler.Signup)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/generate", generationHandler.View)
		r.Post("/generate", generationHandler.Generate)
		r.Get("/library", generationHandler.Library)
	})

	if cfg.ImageStore == config.ImageStoreLocal {
		images := http.StripPrefix("/static/images/", http.FileServer(http.Dir(cfg.ImageDir)))
		r.Handle("/static/images/*", noDirListing(images))
	}

	return r, nil
}

// NewTutorialRouter builds the htmx tutorial app.
func NewTutorialRouter(tutorialHandler *handlers.TutorialHandler, wsHandler *handlers.WebSocketHandler, cfg *config.Config, logs *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	if cfg.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(middleware.Logger(logs))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.NewSecure(middleware.SecureOptions(!cfg.IsProduction())))

	mountCommon(r)

	r.Get("/", tutorialHandler.Index)

	r.Route("/live-data", func(r chi.Router) {
		r.Get("/", tutorialHandler.LiveDataView)
		r.Get("/data", tutorialHandler.LiveData)
		r.Get("/ws", wsHandler.Handle)
	})

	r.Route("/form-submission", func(r chi.Router) {
		r.Get("/", tutorialHandler.FormView)
		r.Get("/preview/size", tutorialHandler.PreviewSize)
		r.Get("/preview/image", tutorialHandler.PreviewImage)
		r.Post("/resize", tutorialHandler.Resize)
	})

	r.Route("/filtering-sorting", func(r chi.Router) {
		r.Get("/", tutorialHandler.ClientsView)
		r.Get("/process", tutorialHandler.ProcessClients)
	})

	return r
}

func mountCommon(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", noDirListing(http.FileServerFS(web.Static()))))
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
