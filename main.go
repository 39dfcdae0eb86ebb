package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/username/tradeflow/backend/src/catalog"
	"github.com/username/tradeflow/backend/src/config"
	"github.com/username/tradeflow/backend/src/handlers"
	"github.com/username/tradeflow/backend/src/logger"
	"github.com/username/tradeflow/backend/src/services"
	"golang.org/x/time/rate"
)

func rateLimitMiddleware(limiter *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Tradeflow enrichment server starting...")

	logger.L.Info("Loading product catalog...", "path", config.Cfg.ProductDataPath)
	productCatalog := catalog.New()
	if err := productCatalog.LoadFromFile(config.Cfg.ProductDataPath); err != nil {
		// The service cannot answer a single request without a catalog.
		logger.L.Error("Failed to load product catalog", "path", config.Cfg.ProductDataPath, "error", err)
		os.Exit(1)
	}
	logger.L.Info("Product catalog loaded.", "products", productCatalog.Size())

	logger.L.Info("Initializing run stats cache...")
	runCache := cache.New(config.Cfg.RunStatsRetention, 2*config.Cfg.RunStatsRetention)

	logger.L.Info("Initializing services and handlers...")
	enrichmentService := services.NewEnrichmentService(productCatalog, runCache)
	enrichHandler := handlers.NewEnrichHandler(enrichmentService)
	catalogHandler := handlers.NewCatalogHandler(productCatalog, config.Cfg.ProductDataPath)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	rootMux.HandleFunc("POST /api/v1/enrich", enrichHandler.HandleEnrich)
	rootMux.HandleFunc("POST /api/admin/catalog/reload", catalogHandler.HandleReload)
	rootMux.HandleFunc("GET /api/admin/runs", enrichHandler.HandleRecentRuns)
	rootMux.Handle("GET /metrics", promhttp.Handler())

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Tradeflow enrichment service is running"})
		} else {
			logger.L.Warn("Path not found", "method", r.Method, "path", r.URL.Path)
			http.NotFound(w, r)
		}
	})

	logger.L.Info("Applying global middleware...")
	limiter := rate.NewLimiter(rate.Limit(config.Cfg.RateLimitRPS), config.Cfg.RateLimitBurst)
	finalHandler := rateLimitMiddleware(limiter, rootMux)

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:    serverAddr,
		Handler: finalHandler,
		// Enrichment requests stream arbitrarily large bodies both
		// ways, so no read/write deadlines; deadlines belong to the
		// caller or a fronting proxy.
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
