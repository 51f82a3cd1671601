package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/rentora/billing-engine/internal/config"
	"github.com/rentora/billing-engine/internal/gateway"
	"github.com/rentora/billing-engine/internal/notifier"
	"github.com/rentora/billing-engine/internal/repository"
	"github.com/rentora/billing-engine/internal/scheduler"
	"github.com/rentora/billing-engine/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	contractRepo := repository.NewContractRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	splitRepo := repository.NewSplitPaymentRepository(db)
	txnRepo := repository.NewTransactionRepository(db)

	gatewayClient := gateway.NewHTTPClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.WebhookSecret, cfg.GetGatewayTimeout())
	dispatcher := notifier.NewRedisDispatcher(redisClient)
	if cfg.IsDevelopment() {
		dispatcher = notifier.NewLogDispatcher()
	}

	fees := service.NewFeeCalculator(cfg.FeeSchedules())
	ledger := service.NewLedgerService(contractRepo, paymentRepo, txnRepo, gatewayClient, fees, cfg)
	jobs := service.NewBillingJobs(contractRepo, paymentRepo, splitRepo, ledger, dispatcher, redisClient, cfg)

	sched, err := scheduler.New(jobs, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}
	if err := sched.Register(); err != nil {
		log.Fatalf("Failed to register jobs: %v", err)
	}

	sched.Start()
	log.Println("Scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down scheduler...")

	sched.Stop()
	log.Println("Scheduler exited")
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
