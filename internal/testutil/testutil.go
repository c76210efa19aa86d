package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lauzhack/pictorial/internal/api"
	"github.com/lauzhack/pictorial/internal/api/handlers"
	"github.com/lauzhack/pictorial/internal/config"
	"github.com/lauzhack/pictorial/internal/imagegen"
	"github.com/lauzhack/pictorial/internal/imagestore"
	"github.com/lauzhack/pictorial/internal/repository"
	"github.com/lauzhack/pictorial/internal/repository/gormdb"
	"github.com/lauzhack/pictorial/internal/service"
	"github.com/lauzhack/pictorial/internal/session"
	"github.com/lauzhack/pictorial/internal/tutorial"
	"github.com/lauzhack/pictorial/internal/web"
	"github.com/lauzhack/pictorial/internal/websocket"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB is a migrated SQLite database in a per-test temp directory
type TestDB struct {
	DB   *gorm.DB
	Path string
}

// NewTestDB creates a fresh database file and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.sqlite3")
	db, err := gormdb.NewConnection("sqlite:"+path, logger.Silent)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &TestDB{DB: db, Path: path}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	for _, table := range []string{"generations", "users"} {
		if err := tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Port:            "0",
		TutorialPort:    "0",
		Environment:     "test",
		LogLevel:        "error",
		StorageTimeout:  5 * time.Second,
		SessionTTL:      time.Hour,
		ImageGenTimeout: 5 * time.Second,
		ImageStore:      config.ImageStoreLocal,
		ImageDir:        t.TempDir(),
		QuoteInterval:   20 * time.Millisecond,
	}
}

// Option customises a TestServer before it starts
type Option func(*serverOptions)

type serverOptions struct {
	generator     service.ImageGenerator
	sessionSecret string
	configure     []func(*config.Config)
}

// WithGenerator replaces the placeholder image generator
func WithGenerator(g service.ImageGenerator) Option {
	return func(o *serverOptions) { o.generator = g }
}

// WithSessionSecret switches the server to signed session cookies
func WithSessionSecret(secret string) Option {
	return func(o *serverOptions) { o.sessionSecret = secret }
}

// WithConfig adjusts the test configuration before the router is built
func WithConfig(fn func(*config.Config)) Option {
	return func(o *serverOptions) { o.configure = append(o.configure, fn) }
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Config   *config.Config
}

// NewTestServer creates a complete pictorial server with all dependencies
func NewTestServer(t *testing.T, opts ...Option) *TestServer {
	t.Helper()

	o := serverOptions{generator: imagegen.Placeholder{Size: 16}}
	for _, opt := range opts {
		opt(&o)
	}

	testDB := NewTestDB(t)
	cfg := TestConfig(t)
	cfg.SessionSecret = o.sessionSecret
	for _, fn := range o.configure {
		fn(cfg)
	}
	logs := zap.NewNop().Sugar()

	store, err := imagestore.NewLocal(cfg.ImageDir, "/static/images")
	if err != nil {
		t.Fatalf("failed to create image store: %v", err)
	}

	repos := gormdb.NewRepositories(testDB.DB, cfg.StorageTimeout)
	codec := session.NewCodec(cfg.SessionSecret, cfg.SessionTTL)
	services := service.NewServices(repos, codec, o.generator, store)
	services.Auth.WithHashCost(bcrypt.MinCost)

	views := newRenderer(t, web.AppPictorial)
	router, err := api.NewRouter(services, views, cfg, logs)
	if err != nil {
		t.Fatalf("failed to build router: %v", err)
	}

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// URL returns the full URL for a given path
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}

// Client returns an HTTP client that does not follow redirects or store
// cookies, so tests see every 303 and Set-Cookie as sent.
func (ts *TestServer) Client() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// TutorialServer runs the htmx tutorial app with its quote hub
type TutorialServer struct {
	Server *httptest.Server
	Hub    *websocket.Hub
	Config *config.Config
}

// NewTutorialServer starts the tutorial app with seeded fake data
func NewTutorialServer(t *testing.T) *TutorialServer {
	t.Helper()

	cfg := TestConfig(t)
	logs := zap.NewNop().Sugar()
	views := newRenderer(t, web.AppTutorial)
	faker := tutorial.NewFaker(1)

	hub := websocket.NewHub(cfg.QuoteInterval, func() ([]byte, error) {
		buf, err := views.Execute("_quote-stream.html", faker.Quote())
		if err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}, logs)
	go hub.Run()

	tutorialHandler := handlers.NewTutorialHandler(views, faker, tutorial.NewImageFetcher(5*time.Second), logs)
	wsHandler := handlers.NewWebSocketHandler(hub, logs)
	server := httptest.NewServer(api.NewTutorialRouter(tutorialHandler, wsHandler, cfg, logs))

	t.Cleanup(func() {
		hub.Stop()
		server.Close()
	})

	return &TutorialServer{Server: server, Hub: hub, Config: cfg}
}

// URL returns the full URL for a given path
func (ts *TutorialServer) URL(path string) string {
	return ts.Server.URL + path
}

// WebSocketURL returns the ws:// URL of the live quote stream
func (ts *TutorialServer) WebSocketURL() string {
	return "ws" + strings.TrimPrefix(ts.Server.URL, "http") + "/live-data/ws"
}

func newRenderer(t *testing.T, app string) *web.Renderer {
	t.Helper()

	fsys, err := web.Templates(app)
	if err != nil {
		t.Fatalf("failed to open templates: %v", err)
	}
	views, err := web.NewRenderer(fsys)
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}
	return views
}
