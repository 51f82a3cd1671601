package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/rentora/billing-engine/internal/config"
	"github.com/rentora/billing-engine/internal/gateway"
	"github.com/rentora/billing-engine/internal/handler"
	"github.com/rentora/billing-engine/internal/notifier"
	"github.com/rentora/billing-engine/internal/receipt"
	"github.com/rentora/billing-engine/internal/repository"
	"github.com/rentora/billing-engine/internal/service"
	"github.com/rentora/billing-engine/pkg/response"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	contractRepo := repository.NewContractRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	splitRepo := repository.NewSplitPaymentRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	txm := repository.NewTxManager(db)

	// Initialize collaborators
	gatewayClient := gateway.NewHTTPClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.WebhookSecret, cfg.GetGatewayTimeout())
	receipts := receipt.NewHTTPGenerator(cfg.Receipt.BaseURL, cfg.GetReceiptTimeout())

	dispatcher := notifier.NewRedisDispatcher(redisClient)
	if cfg.IsDevelopment() {
		// No delivery service consumes the channel locally.
		dispatcher = notifier.NewLogDispatcher()
	}

	// Initialize services
	fees := service.NewFeeCalculator(cfg.FeeSchedules())
	ledger := service.NewLedgerService(contractRepo, paymentRepo, txnRepo, gatewayClient, fees, cfg)
	splits := service.NewSplitPaymentService(contractRepo, splitRepo, txnRepo, txm, gatewayClient, fees, receipts, dispatcher, cfg)
	reconciler := service.NewReconcileService(contractRepo, paymentRepo, splitRepo, txnRepo, txm, gatewayClient, receipts, dispatcher, cfg)

	paymentHandler := handler.NewPaymentHandler(ledger, fees)
	splitHandler := handler.NewSplitHandler(splits)
	webhookHandler := handler.NewWebhookHandler(reconciler)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(paymentHandler, splitHandler, webhookHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.GetServerReadTimeout(),
		WriteTimeout: cfg.GetServerWriteTimeout(),
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	paymentHandler *handler.PaymentHandler,
	splitHandler *handler.SplitHandler,
	webhookHandler *handler.WebhookHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)
	router.Use(response.CORSMiddleware)
	router.Use(response.JSONMiddleware)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "resource not found")
	})

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// Gateway webhook; lives outside the API prefix so the provider URL
	// never changes with API versions.
	router.HandleFunc("/payments/gateway/webhook", webhookHandler.HandleGatewayWebhook).Methods("POST")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/contracts", paymentHandler.CreateContract).Methods("POST")
	api.HandleFunc("/contracts/{contractId}/payments", paymentHandler.ListContractPayments).Methods("GET")
	api.HandleFunc("/payments/{paymentId}/initiate", paymentHandler.InitiatePayment).Methods("POST")
	api.HandleFunc("/payments/{paymentId}/cancel", paymentHandler.CancelPayment).Methods("POST")
	api.HandleFunc("/transactions/{externalId}", paymentHandler.GetTransaction).Methods("GET")
	api.HandleFunc("/fees/quote", paymentHandler.QuoteFees).Methods("POST")

	api.HandleFunc("/contracts/{contractId}/split-payments", splitHandler.CreateSplitPayment).Methods("POST")
	api.HandleFunc("/split-payments/{splitId}", splitHandler.GetSplitPayment).Methods("GET")
	api.HandleFunc("/split-payments/{splitId}/cancel", splitHandler.CancelSplitPayment).Methods("POST")
	api.HandleFunc("/split-payments/items/{itemId}/initiate", splitHandler.InitiateItemPayment).Methods("POST")
	api.HandleFunc("/split-payments/items/{itemId}/process", splitHandler.ProcessItemPayment).Methods("POST")

	return router
}
