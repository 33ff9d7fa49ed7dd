package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/belinwu/embabel-common/internal/config"
	"github.com/belinwu/embabel-common/internal/console"
	"github.com/belinwu/embabel-common/internal/domain"
	logpkg "github.com/belinwu/embabel-common/internal/logger"
	"github.com/belinwu/embabel-common/internal/metrics"
	"github.com/belinwu/embabel-common/internal/repository/memory"
	chiTransport "github.com/belinwu/embabel-common/internal/transport/chi"
	openaiEmb "github.com/belinwu/embabel-common/internal/transport/openai"
	"github.com/belinwu/embabel-common/internal/usecase/document"
	healthuc "github.com/belinwu/embabel-common/internal/usecase/health"
	searchuc "github.com/belinwu/embabel-common/internal/usecase/search"
	"github.com/belinwu/embabel-common/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting searchd",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("windows", console.IsWindows()),
	)

	// Register console and embedding metrics explicitly (no init())
	metrics.RegisterAppMetrics()

	// Console bootstrap — before any non-ASCII output hits the terminal.
	// Failures are logged, never fatal.
	con := setupConsole(cfg.Console, logger)

	// In-memory document store
	store := memory.New()

	// Embedders — nil keeps the service lexical-only
	queryEmbedder, docEmbedder := buildEmbedders(cfg.Embedding, logger)
	if docEmbedder != nil {
		logger.Info("Embedding provider configured",
			zap.String("provider", cfg.Embedding.Provider),
			zap.String("model", cfg.Embedding.Model),
			zap.Int("dimensions", cfg.Embedding.Dimensions),
		)
	} else {
		logger.Info("No embedding provider configured, running lexical-only search")
	}

	// Use case services
	searchSvc := searchuc.New(store, queryEmbedder, logger)
	docSvc := document.New(store, docEmbedder, logger)
	healthSvc := healthuc.New(store, embeddingChecker(docEmbedder), con)

	// HTTP surface
	server := chiTransport.NewServer(searchSvc, docSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// setupConsole runs the start-up console configuration: UTF-8 code pages
// plus a Unicode-capable font, preserving the current font size unless the
// config overrides it.
func setupConsole(cfg config.ConsoleConfig, logger *zap.Logger) *console.Configurator {
	con := console.New(logger.Named("console"),
		console.WithFonts(cfg.Fonts...),
		console.WithFallbackHeight(cfg.FallbackHeight),
		console.WithHeightOverride(cfg.FontHeight),
	)

	if cfg.Disabled {
		return con
	}

	con.EnableUTF8()
	if console.IsWindows() && !con.SetupOptimalConsole() {
		logger.Warn("Console font setup failed, output may render incorrectly")
	}
	logger.Info("Console configured", zap.Bool("unicode_output", con.UnicodeSupported()))
	return con
}

// buildEmbedders assembles the query and document embedders. The query
// embedder optionally carries an instruction prefix; the document embedder
// is always the bare provider.
func buildEmbedders(cfg config.EmbeddingConfig, logger *zap.Logger) (query, doc domain.Embedder) {
	if cfg.Model == "" {
		return nil, nil
	}

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Logger:     logger,
	})

	query = base
	if cfg.QueryInstruction != "" {
		query = domain.NewInstructionEmbedder(base, cfg.QueryInstruction)
	}
	return query, base
}

// embeddingChecker exposes the provider's health check when one exists.
// Pass nil interface (not typed nil pointer!) when no embedder is configured.
func embeddingChecker(embedder domain.Embedder) healthuc.EmbeddingChecker {
	if hc, ok := embedder.(domain.HealthChecker); ok {
		return hc
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
