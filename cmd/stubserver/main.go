// Command stubserver emulates the storefront backend for local development:
// product catalog, card checkout with asynchronous settlement, and
// per-transaction SSE event streams.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/stevenpatino/storefront/telemetry"
)

func main() {
	ctx := context.Background()

	tp, err := telemetry.InitTracer(ctx, getEnv("SERVICE_NAME", "storefront-stub"), getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"))
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	mp, err := telemetry.InitMetrics(ctx, getEnv("SERVICE_NAME", "storefront-stub"), getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"))
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Printf("Error shutting down meter: %v", err)
		}
	}()

	repo, err := initRepository(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize repository: %v", err)
	}

	events := newHub()
	processor := NewProcessor(repo, events)
	handler := NewHandler(processor, repo, events)

	r := gin.Default()
	r.Use(otelgin.Middleware(getEnv("SERVICE_NAME", "storefront-stub")))

	r.GET("/health", handler.HealthCheck)
	r.GET("/products", handler.ListProducts)
	r.GET("/products/search", handler.SearchProducts)
	r.GET("/categories", handler.ListCategories)
	r.GET("/categories/:id/products", handler.CategoryProducts)
	r.POST("/payments/checkout", handler.Checkout)
	r.GET("/transactions/:id", handler.GetTransaction)
	r.GET("/transactions/:id/events", handler.TransactionEvents)

	port := getEnv("PORT", "8080")
	log.Printf("🚀 Stub server listening on port %s", port)

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		// No write timeout: event streams stay open indefinitely.
		WriteTimeout: 0,
		IdleTimeout:  30 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initRepository returns the Postgres-backed repository when DATABASE_URL is
// set, the in-memory one otherwise.
func initRepository(ctx context.Context) (Repository, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Println("Using in-memory transaction store")
		return newMemoryRepository(), nil
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	config.MaxConns = 10
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			log.Println("✅ Connected to transactions database")
			return newPostgresRepository(ctx, pool)
		}
		log.Printf("⏳ Waiting for database... (%d/30)", i+1)
		time.Sleep(1 * time.Second)
	}

	pool.Close()
	return nil, fmt.Errorf("failed to connect to database after 30 attempts")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
