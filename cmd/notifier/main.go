package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/marketplace/internal/config"
	"github.com/example/marketplace/internal/email"
	"github.com/example/marketplace/internal/infrastructure/kafka"
	"github.com/example/marketplace/internal/infrastructure/store"
	"github.com/example/marketplace/internal/notification"
)

const consumerGroup = "email-notifier"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Notifier] Configuration error: %v", err)
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("[Notifier] KAFKA_BROKERS environment variable is required")
	}

	log.Println("[Notifier] ========================================")
	log.Println("[Notifier] Marketplace Email Notification Service")
	log.Println("[Notifier] ========================================")
	log.Printf("[Notifier] Kafka: %v", cfg.KafkaBrokers)
	log.Printf("[Notifier] Topic: %s", cfg.KafkaTopic)
	log.Printf("[Notifier] Group: %s", consumerGroup)
	log.Printf("[Notifier] SMTP: %s:%s", cfg.SMTPHost, cfg.SMTPPort)
	log.Printf("[Notifier] From: %s", cfg.SMTPFrom)

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("[Notifier] Failed to initialize store: %v", err)
	}
	defer closeStore()

	emailSvc := email.NewService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	handler := notification.NewHandler(emailSvc, st)

	subscriber := kafka.NewSubscriber(cfg.KafkaBrokers, cfg.KafkaTopic, consumerGroup)
	defer subscriber.Close()

	go func() {
		log.Println("[Notifier] Starting event consumer...")
		if err := subscriber.Run(ctx, handler.HandleEvent); err != nil && ctx.Err() == nil {
			log.Printf("[Notifier] Consumer error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Notifier] Shutting down...")
	cancel()
}

// openStore mirrors the API binary's backend selection; the notifier
// reads customer records to address the confirmation emails.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := store.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Println("[Notifier] Connected to PostgreSQL")
		return store.NewPostgresStore(db), func() { db.Close() }, nil

	case config.BackendDynamo:
		client, err := store.NewDynamoClient(ctx)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[Notifier] Using DynamoDB table %s", cfg.DynamoTable)
		return store.NewDynamoStore(client, cfg.DynamoTable), func() {}, nil

	default:
		return nil, nil, errors.New("the notifier needs a shared store backend (postgres or dynamo)")
	}
}
