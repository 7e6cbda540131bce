package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"tablebay/internal/api"
	"tablebay/internal/cart"
	"tablebay/internal/checkout"
	"tablebay/internal/config"
	"tablebay/internal/database"
	"tablebay/internal/events"
	"tablebay/internal/monitoring"
	"tablebay/internal/orders"
	"tablebay/internal/reservations"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("No config file at %s, using defaults", *configFile)
			cfg = config.Default()
		} else {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	// Initialize database
	if err := database.InitDB(cfg.Database.Driver, cfg.Database.DSN); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()
	db := database.GetDB()

	// Cart storage: Redis when configured, in-process otherwise
	var carts cart.Store = cart.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		carts = cart.NewRedisStore(client, time.Duration(cfg.Redis.CartTTLHours)*time.Hour)
	}

	// Lifecycle event sinks: live admin board plus Kafka when configured
	hub := api.NewHub()
	publishers := events.Multi{hub}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaPub.Close()
		publishers = append(publishers, kafkaPub)
	}

	metrics := monitoring.NewMetrics()

	reservationSvc := reservations.NewService(db, cfg.Booking, publishers)
	orderSvc := orders.NewService(db, publishers)
	orchestrator := checkout.New(carts, reservationSvc, orderSvc, metrics,
		time.Duration(cfg.Checkout.TimeoutSeconds)*time.Second)

	server := api.NewServer(cfg, db, carts, reservationSvc, orderSvc, orchestrator, hub)

	// Start metrics server
	go startMetricsServer(cfg.Server.MetricsPort, metrics)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting API server on port %d", cfg.Server.Port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func startMetricsServer(port int, metrics *monitoring.Metrics) {
	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(metrics.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
