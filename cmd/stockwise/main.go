package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/talalam23/stock-wise/internal/inventory"
	invcache "github.com/talalam23/stock-wise/internal/inventory/cache"
	httpDelivery "github.com/talalam23/stock-wise/internal/inventory/delivery/http"
	"github.com/talalam23/stock-wise/internal/inventory/repository"
	"github.com/talalam23/stock-wise/internal/report"
	"github.com/talalam23/stock-wise/kafka"
	"github.com/talalam23/stock-wise/pkg/auth"
	"github.com/talalam23/stock-wise/pkg/database"
	"github.com/talalam23/stock-wise/pkg/logger"
	"github.com/talalam23/stock-wise/pkg/tracing"
)

func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "stockwise")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Msg("Starting StockWise inventory service")

	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Tracing disabled")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Warn().Err(err).Msg("Failed to shut down tracer")
			}
		}()
	}

	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "stockwisedb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := repository.NewGormStore(db).AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	// Raw connection for health checks, outside the ORM.
	healthDB, err := database.NewPostgresConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open health check connection")
	}
	defer healthDB.Close()

	var redisClient *redis.Client
	if addr := getEnv("REDIS_ADDR", ""); addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: addr})
		logger.Logger.Info().Str("addr", addr).Msg("Stats cache enabled")
	}
	statsCache := invcache.NewStatsCache(redisClient, 30*time.Second)

	var publisher *kafka.Publisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher, err = kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka publishing disabled")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	analyst := report.NewGeminiAnalyst(getEnv("GEMINI_API_KEY", ""))

	handler, err := inventory.InitializeHTTPHandler(db, statsCache, publisher, analyst)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	authSecret := getEnv("AUTH_SECRET", "")
	if authSecret != "" && isDevelopment {
		if token, err := auth.GenerateToken("dev", authSecret, 24*time.Hour); err == nil {
			logger.Logger.Info().Str("token", token).Msg("Development API token")
		}
	}

	httpPort := getEnv("HTTP_PORT", "8080")
	srv := startHTTPServer(handler, healthDB, httpPort, authSecret)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Forced shutdown")
	}
}

func startHTTPServer(handler *httpDelivery.InventoryHandler, db *sql.DB, port, authSecret string) *http.Server {
	router := mux.NewRouter()

	httpDelivery.RegisterMiddlewares(router, httpDelivery.DefaultMiddlewareConfig())
	handler.RegisterRoutes(router, authSecret)
	handler.RegisterHealthCheck(router, db)

	router.Handle("/metrics", promhttp.Handler())
	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: c.Handler(router),
	}

	go func() {
		logger.Logger.Info().
			Str("port", port).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	return srv
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
