//	@title			Dropgate API
//	@version		1.0
//	@description	Token-gated object upload service backed by S3-compatible storage.
//
//	@host		localhost:8080
//	@BasePath	/

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/dropgate/service/internal/config"
	appMiddleware "github.com/dropgate/service/internal/middleware"
	"github.com/dropgate/service/internal/storage"
	"github.com/dropgate/service/internal/token"
	"github.com/dropgate/service/internal/upload"
	"github.com/dropgate/service/internal/web"

	_ "github.com/dropgate/service/docs/swagger"
)

func main() {
	cfg := config.Load()

	store, err := storage.NewMinioStorage(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StoragePublicBase,
		cfg.StorageUseSSL,
	)
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}

	// Wire dependencies: issuer/gate → handlers
	issuer := token.NewIssuer(cfg)
	tokenHandler := token.NewHandler(issuer)

	gate := upload.NewGate(cfg.TokenSecret)
	uploadHandler := upload.NewHandler(store, gate)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Upload-Token", "X-API-Key"},
		ExposedHeaders: []string{"Content-Type", "Content-Length"},
		MaxAge:         86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Post("/get-upload-token", tokenHandler.Issue)

	// Demo page, same content at both paths
	r.Get("/", web.Demo)
	r.Get("/demo", web.Demo)

	// Object routes: POST uploads (root or caller-chosen key), direct key
	// operations for everything else
	r.Post("/", uploadHandler.Upload)
	r.Post("/*", uploadHandler.Upload)
	r.Get("/*", uploadHandler.Fetch)
	r.Put("/*", uploadHandler.FetchFromURL)
	r.Delete("/*", uploadHandler.Delete)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		log.Printf("swagger UI at http://localhost:%s/swagger/", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}
