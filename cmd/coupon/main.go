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
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/acadly/paperpay/docs"
	"github.com/acadly/paperpay/internal/coupon"
	"github.com/acadly/paperpay/internal/coupon/domain"
	"github.com/acadly/paperpay/internal/coupon/handler"
	"github.com/acadly/paperpay/internal/coupon/usecase/command"
	"github.com/acadly/paperpay/internal/coupon/worker"
	"github.com/acadly/paperpay/kafka"
	"github.com/acadly/paperpay/pkg/database"
	"github.com/acadly/paperpay/pkg/logger"
	"github.com/acadly/paperpay/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "coupon-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting coupon service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "paperpay"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := db.AutoMigrate(&domain.Coupon{}); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Kafka publisher for coupon issued events (optional)
	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	var publisher command.CouponPublisher
	kafkaPublisher, err := kafka.NewPublisher(brokers)
	if err != nil {
		logger.Logger.Warn().
			Err(err).
			Strs("brokers", brokers).
			Msg("Failed to connect to Kafka - coupon emails disabled")
	} else {
		publisher = kafkaPublisher
		defer kafkaPublisher.Close()
	}

	cfg := coupon.Config{
		PaperServiceAddr: getEnv("PAPER_SERVICE_ADDR", "http://localhost:8081"),
		KafkaBrokers:     brokers,
	}

	// Initialize handler with Wire DI
	couponHandler, err := coupon.InitializeHandler(db, publisher, cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	logger.Logger.Info().
		Str("paper_service", cfg.PaperServiceAddr).
		Msg("Coupon handler initialized")

	// Email worker consumes the coupon issued events this service publishes
	if kafkaPublisher != nil {
		startEmailWorker(brokers)
	}

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8084")
	startHTTPServer(couponHandler, sqlDB, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func startEmailWorker(brokers []string) {
	consumer, err := kafka.NewConsumer(brokers, "coupon-email-worker", []string{kafka.TopicCouponIssued})
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to start email worker consumer")
		return
	}

	emailWorker := worker.NewEmailWorker(
		getEnv("SMTP_ADDR", ""),
		getEnv("SMTP_FROM", "noreply@acadly.example"),
		getEnv("SMTP_USERNAME", ""),
		getEnv("SMTP_PASSWORD", ""),
	)
	consumer.RegisterHandler(kafka.EventTypeCouponIssued, emailWorker.HandleCouponIssued)

	if err := consumer.Start(context.Background()); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to start email worker")
	}
}

func startHTTPServer(couponHandler *handler.CouponHandler, db *sql.DB, port string) {
	// Setup router
	router := mux.NewRouter()

	// Register all middlewares using middleware registration system
	handler.RegisterMiddlewares(router, couponHandler.GetMiddlewareConfig())

	// Register routes
	couponHandler.RegisterRoutes(router)

	// Health check endpoint
	couponHandler.RegisterHealthCheck(router, db)

	// Swagger UI
	handler.RegisterSwaggerDocs(router, httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Msg("HTTP server started")

	go func() {
		if err := http.ListenAndServe(":"+port, c.Handler(router)); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
