package entrypoint

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/bookapi"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/viewstate"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs router on host:port until SIGINT or SIGTERM, then shuts down gracefully.
func Serve(router *gin.Engine, host string, port int32, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", host, port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 sends SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// RunAPI starts the REST backend over the SQLite database.
func RunAPI(cfg *config.Config, version string) {
	log.Printf("Starting Bookshelf API v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	router := http_controllers.NewAPIRouter(http_controllers.RouterConfig{
		BookStore:         books.NewRepository(db.DB),
		Database:          db,
		CORSAllowedOrigin: cfg.API.CORSAllowedOrigin,
		Version:           version,
	})

	Serve(router, cfg.API.Host, cfg.API.Port, cfg, func(ctx context.Context) {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	})
}

// RunUI starts the bookshelf screen. The backend is reached at cfg.Gateway.BaseURL.
func RunUI(cfg *config.Config, version string) {
	log.Printf("Starting Bookshelf UI v%s (backend %s)", version, cfg.Gateway.BaseURL)

	csrfSecret, err := resolveCSRFSecret(cfg.UI.CSRFSecret)
	if err != nil {
		log.Fatalf("Failed to generate CSRF secret: %v", err)
	}
	if cfg.UI.CSRFSecret == "" {
		log.Printf("Generated CSRF secret (set CSRF_SECRET to persist)")
	}

	client := bookapi.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.Timeout)
	view := viewstate.NewController(client)
	view.Init(context.Background())

	refresher := scheduler.NewRefreshScheduler(view, cfg.Refresh.Schedule)
	if err := refresher.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start refresh scheduler: %v", err)
	}

	router := http_controllers.NewUIRouter(http_controllers.RouterConfig{
		View:          view,
		Backend:       client,
		CSRFSecret:    csrfSecret,
		SecureCookies: cfg.UI.SecureCookies,
		Version:       version,
	})

	Serve(router, cfg.HTTP.Host, cfg.HTTP.Port, cfg, func(ctx context.Context) {
		refresher.Stop()
	})
}

// resolveCSRFSecret accepts a hex secret, falls back to raw bytes, and generates
// a random one when nothing is configured.
func resolveCSRFSecret(configured string) ([]byte, error) {
	if configured != "" {
		if secret, err := hex.DecodeString(configured); err == nil {
			return secret, nil
		}
		return []byte(configured), nil
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	return secret, nil
}
