package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"labvault/internal/auth"
	"labvault/internal/config"
	"labvault/internal/handler"
	"labvault/internal/middleware"
	"labvault/internal/repository/postgres"
	postgresLib "labvault/internal/repository/postgres/library"
	serviceLib "labvault/internal/service/library"
	"labvault/internal/tracing"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Tracing is opt-in; collectors are rarely present in dev
	if cfg.TracingEnabled {
		shutdown, err := tracing.InitTracer("labvault", cfg.OTLPEndpoint, logger)
		if err != nil {
			log.Fatalf("Failed to initialize tracing: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				logger.Error("tracer shutdown failed", "error", err)
			}
		}()
	}

	// JWT verifier backed by the identity provider's JWKS endpoint
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgresLib.NewFolderRepository(repoConfig)
	docRepo := postgresLib.NewDocumentRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create services
	sizer := serviceLib.NewSizeAggregator(folderRepo, docRepo)
	crumbs := serviceLib.NewBreadcrumbResolver(folderRepo, logger)
	folderService := serviceLib.NewFolderService(folderRepo, docRepo, sizer, crumbs, txManager, logger)
	treeService := serviceLib.NewTreeService(folderRepo, docRepo, logger)

	// Create handlers
	folderHandler := handler.NewFolderHandler(folderService, logger)
	treeHandler := handler.NewTreeHandler(treeService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handler.HealthCheck)

	// Folder routes. /tree and /bulk-move are literal segments and must be
	// registered alongside the {id} patterns; the mux prefers exact matches.
	mux.HandleFunc("GET /api/folders", folderHandler.List)
	mux.HandleFunc("POST /api/folders", folderHandler.Create)
	mux.HandleFunc("GET /api/folders/tree", treeHandler.GetTree)
	mux.HandleFunc("POST /api/folders/bulk-move", folderHandler.BulkMove)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.Get)
	mux.HandleFunc("PUT /api/folders/{id}", folderHandler.Update)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.Delete)
	mux.HandleFunc("POST /api/folders/{id}/move-documents", folderHandler.MoveDocuments)
	mux.HandleFunc("POST /api/folders/{id}/copy", folderHandler.Copy)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → RequestLogger → Auth → Routes
	root = middleware.Auth(jwtVerifier)(root)
	root = middleware.RequestLogger(logger)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	if cfg.TracingEnabled {
		root = otelhttp.NewHandler(root, "labvault")
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
